package mlist

import (
	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// 测试用的族：0 为正文，1 为斜体，3 为定界符。
const (
	famRoman  = 0
	famItalic = 1
	famExt    = ExtensionFamily
)

// 定界符字形依次放大：10pt、18pt、30pt（高+深）。
const (
	parenSmall  = '('
	parenMedium = '⎛'
	parenLarge  = '⎜'
)

func glyph(w, h, d float64) metrics.GlyphMetrics {
	return metrics.GlyphMetrics{Width: layout.Pt(w), Height: layout.Pt(h), Depth: layout.Pt(d)}
}

func romanFont(name string, size float64) *metrics.TableFont {
	f := metrics.NewTableFont(name, layout.Pt(size))
	scale := size / 10
	f.SetGlyph('a', glyph(5*scale, 4.3*scale, 0)).
		SetGlyph('b', glyph(5.5*scale, 6.9*scale, 0)).
		SetGlyph('=', glyph(7.8*scale, 3.7*scale, 0)).
		SetGlyph('+', glyph(7.8*scale, 5.8*scale, 0.8*scale)).
		SetGlyph('x', metrics.GlyphMetrics{
			Width:  layout.Pt(5.3 * scale),
			Height: layout.Pt(4.3 * scale),
			Italic: layout.Pt(0.3 * scale),
		}).
		SetKern('a', 'b', layout.Pt(1.5))
	return f
}

func extFont() *metrics.TableFont {
	f := metrics.NewTableFont("ext", layout.Pt(10))
	f.SetGlyph(parenSmall, glyph(3.9, 7.5, 2.5)).
		SetGlyph(parenMedium, glyph(5, 12, 6)).
		SetGlyph(parenLarge, glyph(6, 20, 10)).
		SetSuccessor(parenSmall, parenMedium).
		SetSuccessor(parenMedium, parenLarge)
	return f
}

func testFamilies() Families {
	italic := metrics.NewTableFont("italic", layout.Pt(10))
	italic.SetGlyph('b', glyph(4.3, 6.9, 0))
	ext := extFont()
	return Families{
		famRoman: {
			Text:         romanFont("roman10", 10),
			Script:       romanFont("roman7", 7),
			ScriptScript: romanFont("roman5", 5),
		},
		famItalic: {Text: italic, Script: italic, ScriptScript: italic},
		famExt:    {Text: ext, Script: ext, ScriptScript: ext},
	}
}

func newTestContext(style Style) *Context {
	return NewContext(style, testFamilies(), DefaultParams())
}

func rawRule(w, h, d float64) *Noad {
	return NewRaw(Ord, layout.NewRule(layout.Pt(w), layout.Pt(h), layout.Pt(d)))
}

func glyphOf(t interface{ Fatalf(string, ...any) }, n layout.Node) rune {
	var c *layout.Char
	switch v := n.(type) {
	case *layout.Char:
		c = v
	case *layout.HList:
		if len(v.Children) == 0 {
			t.Fatalf("空盒子中没有字符")
		}
		return glyphOf(t, v.Children[0])
	default:
		t.Fatalf("节点不是字符: %T", n)
	}
	return c.Glyph
}
