package mlist

import "github.com/ByLCY/papyrus-tex/layout"

// typesetUnderline 自上而下堆叠：核、3θ 的 kern、厚度 θ 的横线、θ 的 kern。
// 结果的高度等于核的高度，深度为整体减去该高度。
func typesetUnderline(u *Underline, out *layout.HList, ctx *Context) error {
	nucleus, err := scratch(u.Nucleus, ctx, nil)
	if err != nil {
		return err
	}
	theta := ctx.FontParameter(DefaultRuleThickness)
	v := layout.NewVList(
		nucleus,
		layout.NewVKern(3*theta, layout.KernMath),
		layout.NewRule(nucleus.Width().Natural, theta, 0),
		layout.NewVKern(theta, layout.KernMath),
	)
	v.Pack(nil)
	total := v.Height().Natural + v.Depth().Natural
	h := nucleus.Height().Natural
	v.SetHeight(layout.FixedGlue(h))
	v.SetDepth(layout.FixedGlue(total - h))
	out.Append(v)
	return nil
}

// typesetVCenter 丢弃核原有的基线划分，让总高 E 以数学轴为中心。
// 核放进垂直列表，内容从盒子顶部向下排，因此只改高深即可整体移动。
func typesetVCenter(c *VCenter, out *layout.HList, ctx *Context) error {
	nucleus, err := scratch(c.Nucleus, ctx, nil)
	if err != nil {
		return err
	}
	v := layout.NewVList(nucleus)
	v.Pack(nil)
	e := v.Height().Natural + v.Depth().Natural
	h := layout.Half(e) + ctx.FontParameter(AxisHeight)
	v.SetHeight(layout.FixedGlue(h))
	v.SetDepth(layout.FixedGlue(e - h))
	out.Append(v)
	return nil
}
