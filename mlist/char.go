package mlist

import (
	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// typesetChar 解析 (风格, 族) 得到字体并追加字符节点。
// 若上一个输出节点是同一字体的字符，先按 kerning 对插入隐式 kern。
func typesetChar(n *Noad, c *Char, out *layout.HList, ctx *Context) error {
	font, err := resolveFont(n, c.Family, ctx)
	if err != nil {
		return err
	}
	if !font.HasGlyph(c.Glyph) {
		ctx.logger().Warn("missing character",
			zap.String("font", font.Name()),
			zap.String("glyph", string(c.Glyph)),
			zap.Int("family", c.Family),
			zap.Stringer("style", ctx.Style()),
		)
		return nil
	}
	if prev, ok := out.Last().(*layout.Char); ok && prev.Font == layout.Face(font) {
		if k := font.Kerning(prev.Glyph, c.Glyph); k != 0 {
			out.Append(layout.NewKern(k, layout.KernFont))
		}
	}
	out.Append(newCharNode(font, c.Glyph, ctx))
	return nil
}

// resolveFont 在设计尺寸为零（或无字体）时返回 ErrUndefinedFamily。
func resolveFont(n *Noad, family int, ctx *Context) (metrics.Font, error) {
	font := ctx.Font(family)
	if font == nil || font.DesignSize() == 0 {
		return nil, typesetErr(n, "char", ErrUndefinedFamily, "family %d in %s style", family, ctx.Style())
	}
	return font, nil
}

func newCharNode(font metrics.Font, glyph rune, ctx *Context) *layout.Char {
	ch := layout.NewChar(font, glyph, font.Width(glyph), font.Height(glyph), font.Depth(glyph))
	ch.Context = ctx.charContext(font, glyph)
	return ch
}
