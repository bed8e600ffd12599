package mlist

import (
	"github.com/ByLCY/papyrus-tex/layout"
)

// Convert 将 noad 序列转换为水平列表，返回按自然宽度打包的结果。
//
// 从左到右遍历：先按 (前一原子类别, 当前类别, 风格) 插入类别间距，再调用当前 noad 的排版逻辑。
func Convert(noads []*Noad, ctx *Context) (*layout.HList, error) {
	out := layout.NewHList()
	if err := convertInto(noads, out, ctx, nil); err != nil {
		return nil, err
	}
	out.Pack(nil)
	return out, nil
}

// convertInto 是 Convert 的递归形式。acc 只在定界符组内部传递，其他子公式总是从 nil 开始。
func convertInto(noads []*Noad, out *layout.HList, ctx *Context, acc *Extent) error {
	classes := resolveClasses(noads, ctx.Style())
	var previous *Noad
	prevClass := None
	for i, n := range noads {
		if n == nil {
			continue
		}
		if killed(previous, n, ctx.Style()) {
			previous = n
			continue
		}
		if g, ok := clearance(prevClass, classes[i], ctx.Style(), ctx.Settings); ok {
			if sp := ctx.Convert(g); !sp.IsZero() {
				out.Append(layout.NewSpace(sp))
			}
		}
		if err := typeset(previous, noads, i, out, ctx, acc); err != nil {
			return err
		}
		if classes[i] != None {
			prevClass = classes[i]
		}
		previous = n
	}
	return nil
}

// killed 判断 n 是否被前一个带 Kill 标记的 glue noad 取消：仅在 script/scriptscript 风格下，
// 且只作用于 glue noad 或包裹 glue/kern 的 Raw。
func killed(previous, n *Noad, style Style) bool {
	return style.IsScript() && previous.isKill() && n.isGlueLike()
}

// typeset 排版 siblings[i]，结果追加到 out。带上下标的 noad 先把核排进临时列表再放置上下标。
func typeset(previous *Noad, siblings []*Noad, i int, out *layout.HList, ctx *Context, acc *Extent) error {
	n := siblings[i]
	if n.Sub != nil || n.Sup != nil {
		return typesetScripts(previous, siblings, i, out, ctx, acc)
	}
	return typesetNucleus(previous, siblings, i, out, ctx, acc)
}

func typesetNucleus(previous *Noad, siblings []*Noad, i int, out *layout.HList, ctx *Context, acc *Extent) error {
	n := siblings[i]
	switch b := n.Nucleus.(type) {
	case *Char:
		return typesetChar(n, b, out, ctx)
	case *Glue:
		return typesetGlue(b, out, ctx)
	case *List:
		return convertInto(b.Noads, out, ctx, nil)
	case *Choice:
		return typesetChoice(previous, n, b, out, ctx, acc)
	case *Delimiter:
		return typesetDelimiter(n, b, out, ctx, acc)
	case *Underline:
		return typesetUnderline(b, out, ctx)
	case *VCenter:
		return typesetVCenter(b, out, ctx)
	case *Raw:
		out.Append(b.Node)
		return nil
	case nil:
		return nil
	default:
		return typesetErr(n, "typeset", ErrInconsistent, "unknown nucleus %T", b)
	}
}

func typesetGlue(g *Glue, out *layout.HList, ctx *Context) error {
	if sp := ctx.Convert(g.Amount); !sp.IsZero() {
		out.Append(layout.NewSpace(sp))
	}
	return nil
}

// typesetChoice 只排版与当前风格对应的分支，其余三个分支不会被访问。
func typesetChoice(previous, n *Noad, c *Choice, out *layout.HList, ctx *Context, acc *Extent) error {
	alt, ok := c.pick(ctx.Style())
	if !ok {
		return typesetErr(n, "choice", ErrInconsistent, "unexpected style %s", ctx.Style())
	}
	if alt == nil {
		return nil
	}
	return typeset(previous, []*Noad{alt}, 0, out, ctx, acc)
}

// scratch 在 ctx 下把单个 noad 排进新的水平列表并按自然尺寸打包。
func scratch(n *Noad, ctx *Context, acc *Extent) (*layout.HList, error) {
	l := layout.NewHList()
	if n != nil {
		if err := convertInto([]*Noad{n}, l, ctx, acc); err != nil {
			return nil, err
		}
	}
	l.Pack(nil)
	return l, nil
}
