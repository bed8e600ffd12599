package mlist

import "github.com/ByLCY/papyrus-tex/layout"

// typesetScripts 把核排进临时列表，再按 TeX 规则 18 放置上下标。
// 字符核的上下标位移从零开始；其他核从核的高深减去（加上）script 字体的 drop 参数开始。
func typesetScripts(previous *Noad, siblings []*Noad, i int, out *layout.HList, ctx *Context, acc *Extent) error {
	n := siblings[i]
	nucleus := layout.NewHList()
	if err := typesetNucleus(previous, siblings, i, nucleus, ctx, acc); err != nil {
		return err
	}
	nucleus.Pack(nil)

	var italic, shiftUp, shiftDown layout.Scaled
	if c, ok := n.Nucleus.(*Char); ok {
		if font := ctx.Font(c.Family); font != nil && font.HasGlyph(c.Glyph) {
			italic = font.Italic(c.Glyph)
		}
	} else {
		shiftUp = nucleus.Height().Natural - ctx.WithStyle(ctx.Style().Sup()).FontParameter(SupDrop)
		shiftDown = nucleus.Depth().Natural + ctx.WithStyle(ctx.Style().Sub()).FontParameter(SubDrop)
	}

	scripts, err := placeScripts(n, ctx, shiftUp, shiftDown)
	if err != nil {
		return err
	}
	out.Extend(nucleus)
	if italic != 0 && n.Sup != nil {
		out.Append(layout.NewKern(italic, layout.KernItalic))
	}
	out.Append(scripts)
	return nil
}

func placeScripts(n *Noad, ctx *Context, shiftUp, shiftDown layout.Scaled) (layout.Node, error) {
	var sup, sub *layout.HList
	var err error
	if n.Sup != nil {
		if sup, err = scriptBox(n.Sup, ctx.WithStyle(ctx.Style().Sup())); err != nil {
			return nil, err
		}
	}
	if n.Sub != nil {
		if sub, err = scriptBox(n.Sub, ctx.WithStyle(ctx.Style().Sub())); err != nil {
			return nil, err
		}
	}

	xh := absScaled(ctx.FontParameter(XHeight))
	if sup == nil {
		shiftDown = max(shiftDown, ctx.FontParameter(Sub1), sub.Height().Natural-layout.MulDiv(xh, 4, 5))
		sub.Shift = shiftDown
		return sub, nil
	}

	clr := ctx.FontParameter(Sup2)
	if ctx.Style() == Display {
		clr = ctx.FontParameter(Sup1)
	}
	supDepth := sup.Depth().Natural
	shiftUp = max(shiftUp, clr, supDepth+xh/4)
	if sub == nil {
		sup.Shift = -shiftUp
		return sup, nil
	}

	theta := ctx.FontParameter(DefaultRuleThickness)
	subHeight := sub.Height().Natural
	shiftDown = max(shiftDown, ctx.FontParameter(Sub2))
	gap := (shiftUp - supDepth) - (subHeight - shiftDown)
	if gap < 4*theta {
		shiftDown += 4*theta - gap
		if psi := layout.MulDiv(xh, 4, 5) - (shiftUp - supDepth); psi > 0 {
			shiftUp += psi
			shiftDown -= psi
		}
		gap = (shiftUp - supDepth) - (subHeight - shiftDown)
	}
	v := layout.NewVList(sup, layout.NewVKern(gap, layout.KernMath), sub)
	v.Pack(nil)
	v.Shift = shiftDown
	return v, nil
}

// scriptBox 在脚本风格下排版上标或下标，并在右侧补上 script space。
func scriptBox(n *Noad, ctx *Context) (*layout.HList, error) {
	l, err := scratch(n, ctx, nil)
	if err != nil {
		return nil, err
	}
	if ctx.Settings.ScriptSpace != 0 {
		l.Append(layout.NewKern(ctx.Settings.ScriptSpace, layout.KernMath))
		l.Pack(nil)
	}
	return l, nil
}

func absScaled(s layout.Scaled) layout.Scaled {
	if s < 0 {
		return -s
	}
	return s
}
