package layout

import "testing"

func ptr(s Scaled) *Scaled { return &s }

// TestPackIdempotentAtNaturalWidth 验证：目标等于自然宽度时子节点保持不变。
func TestPackIdempotentAtNaturalWidth(t *testing.T) {
	a := NewSpace(NewGlue(Pt(3), Pt(1), Pt(1)))
	b := NewRule(Pt(10), Pt(2), 0)
	c := NewSpace(Glue{Natural: Pt(4), Stretch: fil(Pt(1), Fil)})
	l := NewHList(a, b, c)
	natural := l.NaturalWidth().Natural

	before := []Glue{a.Width(), b.Width(), c.Width()}
	rep := l.Pack(ptr(natural))
	after := []Glue{a.Width(), b.Width(), c.Width()}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("子节点 %d 被修改: %v -> %v", i, before[i], after[i])
		}
	}
	if l.Width().Natural != natural || rep.Diff != 0 {
		t.Fatalf("宽度应等于自然宽度 %s，实际 %s", natural, l.Width().Natural)
	}
	// 再次打包结果不变
	l.Pack(ptr(natural))
	if l.Width().Natural != natural || a.Width() != before[0] {
		t.Fatalf("重复打包不应改变结果")
	}
}

// TestPackOrderDominance 验证高阶伸长完全吸收调整量。
func TestPackOrderDominance(t *testing.T) {
	finite := NewSpace(Glue{Natural: Pt(1), Stretch: fil(Pt(5), Normal)})
	infinite := NewSpace(Glue{Natural: Pt(1), Stretch: fil(Pt(2), Fil)})
	l := NewHList(finite, infinite)

	rep := l.Pack(ptr(Pt(2) + Pt(10)))
	if rep.Order != Fil || rep.Total != Pt(2) {
		t.Fatalf("主导阶应为 fil，总量 2pt，实际 %+v", rep)
	}
	if got := infinite.Width().Natural; got != Pt(11) {
		t.Fatalf("fil 子节点应增加 10pt，实际宽度 %s", got)
	}
	if got := finite.Width().Natural; got != Pt(1) {
		t.Fatalf("有限子节点不应调整，实际宽度 %s", got)
	}
	if l.Width().Natural != Pt(12) {
		t.Fatalf("列表宽度应为目标 12pt，实际 %s", l.Width().Natural)
	}
}

// TestPackShrinkClamp 验证 Normal 阶收缩不超过子节点自身的收缩量。
func TestPackShrinkClamp(t *testing.T) {
	g := NewSpace(NewGlue(Pt(20), 0, Pt(3)))
	r := NewRule(Pt(30), Pt(1), 0)
	l := NewHList(g, r)

	rep := l.Pack(ptr(Pt(50) - Pt(10)))
	if got := g.Width().Natural; got != Pt(17) {
		t.Fatalf("收缩应恰好为 3pt，实际宽度 %s", got)
	}
	if l.Width().Natural != Pt(40) {
		t.Fatalf("列表宽度应为目标值，实际 %s", l.Width().Natural)
	}
	if !rep.Overfull() || rep.Residual != -Pt(7) {
		t.Fatalf("应记录 7pt 的溢出，实际 %+v", rep)
	}
	if rep.Badness != InfBad {
		t.Fatalf("溢出时劣度应为无穷，实际 %d", rep.Badness)
	}
}

// TestPackWithoutElasticity 弹性为零时不做调整，仅在报告中体现。
func TestPackWithoutElasticity(t *testing.T) {
	r := NewRule(Pt(5), Pt(1), 0)
	l := NewHList(r)
	rep := l.Pack(ptr(Pt(8)))
	if r.Width().Natural != Pt(5) {
		t.Fatalf("无弹性时子节点不应变化")
	}
	if l.Width().Natural != Pt(8) || !rep.Underfull() || rep.Residual != Pt(3) {
		t.Fatalf("报告错误: width=%s rep=%+v", l.Width().Natural, rep)
	}
}

func TestPackProportionalStretch(t *testing.T) {
	a := NewSpace(NewGlue(0, Pt(1), 0))
	b := NewSpace(NewGlue(0, Pt(3), 0))
	l := NewHList(a, b)
	l.Pack(ptr(Pt(2)))
	if a.Width().Natural != Pt(0.5) || b.Width().Natural != Pt(1.5) {
		t.Fatalf("应按比例分配: a=%s b=%s", a.Width().Natural, b.Width().Natural)
	}
}

func TestVPackStacksHeights(t *testing.T) {
	top := NewRule(Pt(4), Pt(3), Pt(1))
	gap := NewSpace(Glue{Natural: Pt(2), Stretch: fil(Pt(1), Fil)})
	bottom := NewRule(Pt(6), Pt(5), Pt(2))
	v := NewVList(top, gap, bottom)

	if got := v.Height().Natural; got != Pt(3+1+2+5) {
		t.Fatalf("自然高度应为 11pt，实际 %s", got)
	}
	if v.Depth().Natural != Pt(2) || v.Width().Natural != Pt(6) {
		t.Fatalf("深度/宽度错误: d=%s w=%s", v.Depth().Natural, v.Width().Natural)
	}
	v.Pack(ptr(Pt(20)))
	if gap.Height().Natural != Pt(11) || v.Height().Natural != Pt(20) {
		t.Fatalf("fil glue 应吸收 9pt: gap=%s list=%s", gap.Height().Natural, v.Height().Natural)
	}
}

func TestBadness(t *testing.T) {
	if Badness(0, 0) != 0 {
		t.Fatalf("零调整的劣度应为 0")
	}
	if Badness(Pt(1), 0) != InfBad {
		t.Fatalf("无弹性时劣度应为无穷")
	}
	if got := Badness(Pt(1), Pt(1)); got != 100 {
		t.Fatalf("t == s 时劣度应为 100，实际 %d", got)
	}
}

// TestPackRoundingIsNotOverfull 按比例分配除不尽时，零头不应被当作弹性不足。
func TestPackRoundingIsNotOverfull(t *testing.T) {
	for _, tt := range []struct {
		name string
		glue Glue
		diff Scaled
	}{
		{"收缩", NewGlue(Pt(5), 0, Pt(1)), -Pt(1)},
		{"伸长", NewGlue(Pt(5), Pt(1), 0), Pt(1)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			kids := []*Space{NewSpace(tt.glue), NewSpace(tt.glue), NewSpace(tt.glue)}
			l := NewHList(kids[0], kids[1], kids[2])
			target := Pt(15) + tt.diff
			rep := l.Pack(ptr(target))
			if rep.Overfull() || rep.Underfull() || rep.Residual != 0 {
				t.Fatalf("弹性充足时不应报告溢出或不足: %+v", rep)
			}
			if rep.Badness != Badness(Pt(1), Pt(3)) || rep.Badness != 4 {
				t.Fatalf("劣度应为 4，实际 %d", rep.Badness)
			}
			sum := Scaled(0)
			for _, k := range kids {
				sum += k.Width().Natural
			}
			if sum != target {
				t.Fatalf("子节点宽度之和应恰为目标 %s，实际 %s", target, sum)
			}
		})
	}
}
