package layout

// PackReport 描述一次打包：目标与自然尺寸之差、起作用的阶与该阶的弹性总量。
// 弹性不足时（例如总量为零）不做调整，也不报错，只在报告中留下 Residual。
type PackReport struct {
	Diff     Scaled `json:"diff"`
	Order    Order  `json:"order"`
	Total    Scaled `json:"total"`
	Residual Scaled `json:"residual"`
	Badness  int    `json:"badness"`
}

// Overfull 表示收缩能力不足，列表仍然超出目标。
func (r PackReport) Overfull() bool { return r.Diff < 0 && r.Residual < 0 }

// Underfull 表示伸长能力不足，列表仍然小于目标。
func (r PackReport) Underfull() bool { return r.Diff > 0 && r.Residual > 0 }

// InfBad 是 TeX 中的无穷劣度。
const InfBad = 10000

// slot 是打包时可调整的一段尺寸（某个子节点在主轴方向上的一个分量）。
type slot struct {
	get func() Glue
	set func(Glue)
}

func hpack(l *HList, target *Scaled) PackReport {
	slots := make([]slot, 0, len(l.Children))
	for _, c := range l.Children {
		slots = append(slots, slot{get: c.Width, set: c.SetWidth})
	}
	var acc WideGlue
	for _, c := range l.Children {
		c.AddWidthTo(&acc)
	}
	g, rep := distribute(slots, acc, target)
	l.w = g
	l.natural = acc
	return rep
}

func vpack(l *VList, target *Scaled) PackReport {
	var (
		slots []slot
		acc   WideGlue
	)
	for i, c := range l.Children {
		slots = append(slots, slot{get: c.Height, set: c.SetHeight})
		c.AddHeightTo(&acc)
		if i < len(l.Children)-1 {
			slots = append(slots, slot{get: c.Depth, set: c.SetDepth})
			c.AddDepthTo(&acc)
		}
	}
	g, rep := distribute(slots, acc, target)
	l.h = g
	l.natural = acc
	if n := len(l.Children); n > 0 {
		l.d = l.Children[n-1].Depth()
	}
	return rep
}

// distribute 按目标尺寸分配伸缩量，返回列表在主轴上的最终尺寸。
//
// 1. diff = target - natural，为零则直接取自然尺寸；
// 2. 取对应方向总量非零的最高阶，全为零时退回 Normal；
// 3. 每个分量调整 amount*diff/total，总量为零时不调整；
// 4. 仅在 Normal 阶把调整量限制在 ±amount 之内；
// 5. 截断留下的零头从后往前补给仍有余量的分量；
// 6. 列表尺寸设为 target，而不是调整后的和。
//
// Residual 只反映弹性容量不足的部分，与截断无关。
func distribute(slots []slot, acc WideGlue, target *Scaled) (Glue, PackReport) {
	if target == nil {
		return acc.Glue(), PackReport{}
	}
	rep := PackReport{Diff: *target - acc.Natural}
	if rep.Diff == 0 {
		return FixedGlue(acc.Natural), rep
	}

	pick := func(g Glue) Elastic { return g.Stretch }
	rep.Order = acc.StretchOrder()
	rep.Total = acc.Stretch[rep.Order]
	if rep.Diff < 0 {
		pick = func(g Glue) Elastic { return g.Shrink }
		rep.Order = acc.ShrinkOrder()
		rep.Total = acc.Shrink[rep.Order]
	}

	// want 是弹性容量允许的调整总量。
	want := rep.Diff
	switch {
	case rep.Total == 0:
		want = 0
	case rep.Order == Normal && abs(rep.Diff) > abs(rep.Total):
		want = abs(rep.Total)
		if rep.Diff < 0 {
			want = -want
		}
	}
	rep.Residual = rep.Diff - want

	type adjustment struct {
		slot  slot
		cur   Glue
		limit Scaled
		adj   Scaled
	}
	var adjs []adjustment
	applied := Scaled(0)
	if rep.Total != 0 {
		for _, s := range slots {
			cur := s.get()
			e := pick(cur)
			if e.Order != rep.Order || e.Amount == 0 {
				continue
			}
			adj := MulDiv(e.Amount, rep.Diff, rep.Total)
			if rep.Order == Normal {
				adj = clamp(adj, e.Amount)
			}
			adjs = append(adjs, adjustment{slot: s, cur: cur, limit: abs(e.Amount), adj: adj})
			applied += adj
		}
	}
	rem := want - applied
	for i := len(adjs) - 1; i >= 0 && rem != 0; i-- {
		give := rem
		if rep.Order == Normal {
			room := adjs[i].limit - abs(adjs[i].adj)
			if room <= 0 {
				continue
			}
			give = clamp(give, room)
		}
		adjs[i].adj += give
		rem -= give
	}
	for _, a := range adjs {
		if a.adj != 0 {
			a.slot.set(a.cur.WithNatural(a.cur.Natural + a.adj))
		}
	}

	if rep.Order == Normal {
		rep.Badness = Badness(abs(rep.Diff), abs(rep.Total))
		if rep.Residual != 0 {
			rep.Badness = InfBad
		}
	}
	return FixedGlue(*target), rep
}

// clamp 把 adj 限制在 [-|limit|, |limit|] 内。
func clamp(adj, limit Scaled) Scaled {
	limit = abs(limit)
	switch {
	case adj > limit:
		return limit
	case adj < -limit:
		return -limit
	default:
		return adj
	}
}

// Badness 近似 100*(t/s)^3，与 TeX 的 badness 函数逐位一致。
func Badness(t, s Scaled) int {
	if t == 0 {
		return 0
	}
	if s <= 0 {
		return InfBad
	}
	var r int64
	switch {
	case t <= 7230584:
		r = int64(t) * 297 / int64(s)
	case s >= 1663497:
		r = int64(t) / (int64(s) / 297)
	default:
		r = int64(t)
	}
	if r > 1290 {
		return InfBad
	}
	return int((r*r*r + 0x20000) / 0x40000)
}

func abs(s Scaled) Scaled {
	if s < 0 {
		return -s
	}
	return s
}
