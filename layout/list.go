package layout

// HList 是水平列表：宽度为子节点之和，高深为子节点的最大值。
type HList struct {
	box
	Children []Node
	// Shift 为盒子相对基线的位移，正值向下。
	Shift Scaled
	// Target 为 nil 时按自然宽度打包。
	Target *Scaled
	// Report 记录最近一次打包的结果。
	Report PackReport

	natural WideGlue
}

// NewHList 构造水平列表并依次追加 nodes。
func NewHList(nodes ...Node) *HList {
	l := &HList{}
	for _, n := range nodes {
		l.Append(n)
	}
	return l
}

func (*HList) Kind() Kind { return KindHList }

// Append 追加子节点并增量更新自然尺寸。
func (l *HList) Append(n Node) {
	if n == nil {
		return
	}
	l.Children = append(l.Children, n)
	n.AddWidthTo(&l.natural)
	l.w = l.natural.Glue()
	h, d := n.Height(), n.Depth()
	if s := shiftOf(n); s != 0 {
		h = h.WithNatural(h.Natural - s)
		d = d.WithNatural(d.Natural + s)
	}
	l.MaxHeight(h)
	l.MaxDepth(d)
}

// Last 返回最后一个子节点，空列表时为 nil。
func (l *HList) Last() Node {
	if len(l.Children) == 0 {
		return nil
	}
	return l.Children[len(l.Children)-1]
}

// Len 返回子节点个数。
func (l *HList) Len() int { return len(l.Children) }

// NaturalWidth 返回子节点宽度之和（含按阶分桶的伸缩总量）。
func (l *HList) NaturalWidth() WideGlue { return l.natural }

// Pack 将宽度调整到 target，target 为 nil 时取自然宽度。
func (l *HList) Pack(target *Scaled) PackReport {
	l.Target = target
	l.Report = hpack(l, target)
	return l.Report
}

// Extend 将 src 的全部子节点依次移入 l；src 之后不应再被使用。
func (l *HList) Extend(src *HList) {
	if src == nil {
		return
	}
	for _, n := range src.Children {
		l.Append(n)
	}
	src.Children = nil
}

// VList 是垂直列表：高度为子节点高深之和（最后一个子节点的深度成为列表深度），宽度取最大值。
type VList struct {
	box
	Children []Node
	Shift    Scaled
	Target   *Scaled
	Report   PackReport

	natural WideGlue
}

func NewVList(nodes ...Node) *VList {
	l := &VList{}
	for _, n := range nodes {
		l.Append(n)
	}
	return l
}

func (*VList) Kind() Kind { return KindVList }

// Append 追加子节点：前一个子节点的深度此时并入高度。
func (l *VList) Append(n Node) {
	if n == nil {
		return
	}
	if len(l.Children) > 0 {
		l.natural.Add(l.d)
	}
	l.Children = append(l.Children, n)
	n.AddHeightTo(&l.natural)
	l.h = l.natural.Glue()
	l.d = n.Depth()
	w := n.Width()
	if s := shiftOf(n); s != 0 {
		w = w.WithNatural(w.Natural + s)
	}
	l.MaxWidth(w)
}

// NaturalHeight 返回高度方向的累加值（不含最后一个子节点的深度）。
func (l *VList) NaturalHeight() WideGlue { return l.natural }

// Pack 将高度调整到 target，target 为 nil 时取自然高度。
func (l *VList) Pack(target *Scaled) PackReport {
	l.Target = target
	l.Report = vpack(l, target)
	return l.Report
}

func shiftOf(n Node) Scaled {
	switch b := n.(type) {
	case *HList:
		return b.Shift
	case *VList:
		return b.Shift
	default:
		return 0
	}
}
