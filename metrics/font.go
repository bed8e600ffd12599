// Package metrics 提供字体访问器：字形度量、kerning 与设计尺寸。
//
// 布局与数学排版只通过 Font 接口读取度量，不关心度量来自 TFM 式的表格还是 OpenType 文件。
package metrics

import "github.com/ByLCY/papyrus-tex/layout"

// Font 是排版核心消费的字体访问器。
type Font interface {
	Name() string
	// DesignSize 为零表示字体未定义。
	DesignSize() layout.Scaled
	HasGlyph(r rune) bool
	Width(r rune) layout.Scaled
	Height(r rune) layout.Scaled
	Depth(r rune) layout.Scaled
	Italic(r rune) layout.Scaled
	Kerning(left, right rune) layout.Scaled
}

// Successor 是可选接口：返回同一字体中下一个更大的字形变体，用于定界符放大。
type Successor interface {
	Successor(r rune) (rune, bool)
}

// GlyphMetrics 是单个字形的度量。
type GlyphMetrics struct {
	Width  layout.Scaled `json:"width"`
	Height layout.Scaled `json:"height"`
	Depth  layout.Scaled `json:"depth"`
	Italic layout.Scaled `json:"italic"`
}

// Of 读取 f 中 r 的全部度量。
func Of(f Font, r rune) GlyphMetrics {
	return GlyphMetrics{
		Width:  f.Width(r),
		Height: f.Height(r),
		Depth:  f.Depth(r),
		Italic: f.Italic(r),
	}
}
