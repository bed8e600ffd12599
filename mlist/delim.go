package mlist

import (
	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// Extent 累积一组定界符所包围内容的最大高度与深度。
// 由最外层定界符创建，沿 Pre 链向内传递，只有一个所有者。
type Extent struct {
	Height layout.Scaled
	Depth  layout.Scaled
}

// Fold 把节点的自然高深并入累积值。
func (e *Extent) Fold(n layout.Node) {
	if n == nil {
		return
	}
	e.Height = max(e.Height, n.Height().Natural)
	e.Depth = max(e.Depth, n.Depth().Natural)
}

// typesetDelimiter 分两阶段排版：先测量 Post 并并入 acc，再带着 acc 排 Pre，
// 使嵌套在 Pre 中的定界符在确定尺寸前已看到全部内容。
func typesetDelimiter(n *Noad, d *Delimiter, out *layout.HList, ctx *Context, acc *Extent) error {
	if acc == nil {
		acc = &Extent{}
	}
	post, err := scratch(d.Post, ctx, nil)
	if err != nil {
		return err
	}
	acc.Fold(post)

	pre, err := scratch(d.Pre, ctx, acc)
	if err != nil {
		return err
	}
	delim := varDelimiter(n, d, *acc, ctx)

	out.Extend(pre)
	out.Append(delim)
	out.Extend(post)
	return nil
}

// varDelimiter 选择不小于所需尺寸的第一个字形变体，找不到时取最大的一个；
// 结果盒子以数学轴为中心。
//
// 变体只沿 metrics.Successor 链查找。metrics.SFNTFont 不读取 OpenType MATH 表
// （其中的尺寸变体是没有码位的字形），因此内置 lmmath 的定界符始终停留在基本字形。
func varDelimiter(n *Noad, d *Delimiter, e Extent, ctx *Context) *layout.HList {
	if d.Delim.IsNull() {
		return nullDelimiter(ctx)
	}
	axis := ctx.FontParameter(AxisHeight)
	delta1 := max(e.Height-axis, e.Depth+axis)
	required := max(delta1/500*layout.Scaled(ctx.Settings.DelimiterFactor), 2*delta1-ctx.Settings.DelimiterShortfall)

	var (
		best     metrics.Font
		bestRune rune
		bestSize layout.Scaled = -1
	)
	found := false
	candidates := []struct {
		family int
		glyph  rune
	}{
		{d.Delim.SmallFamily, d.Delim.Small},
		{d.Delim.LargeFamily, d.Delim.Large},
	}
	for _, c := range candidates {
		if found || c.glyph == 0 {
			continue
		}
		font := ctx.Font(c.family)
		if font == nil || font.DesignSize() == 0 {
			continue
		}
		r, ok := c.glyph, true
		for steps := 0; ok && steps < maxVariants; r, ok = successor(font, r) {
			steps++
			if !font.HasGlyph(r) {
				break
			}
			size := font.Height(r) + font.Depth(r)
			if size > bestSize {
				best, bestRune, bestSize = font, r, size
			}
			if size >= required {
				best, bestRune, bestSize = font, r, size
				found = true
				break
			}
		}
	}
	if best == nil {
		ctx.logger().Warn("no delimiter glyph",
			zap.Stringer("kind", d.Kind),
			zap.Int("small_family", d.Delim.SmallFamily),
			zap.Int("large_family", d.Delim.LargeFamily),
			zap.Stringer("style", ctx.Style()),
		)
		return nullDelimiter(ctx)
	}

	b := layout.NewHList(newCharNode(best, bestRune, ctx))
	b.Pack(nil)
	b.Shift = layout.Half(b.Height().Natural-b.Depth().Natural) - axis
	ctx.logger().Debug("delimiter sized",
		zap.Stringer("kind", d.Kind),
		zap.String("glyph", string(bestRune)),
		zap.Stringer("required", required),
		zap.Stringer("size", bestSize),
		zap.Bool("large_enough", found),
	)
	return b
}

// maxVariants 限制沿 Successor 链查找的步数，防止度量表中出现环。
const maxVariants = 64

func nullDelimiter(ctx *Context) *layout.HList {
	b := layout.NewHList(layout.NewKern(ctx.Settings.NullDelimiterSpace, layout.KernMath))
	b.Pack(nil)
	return b
}

func successor(f metrics.Font, r rune) (rune, bool) {
	s, ok := f.(metrics.Successor)
	if !ok {
		return 0, false
	}
	return s.Successor(r)
}
