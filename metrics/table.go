package metrics

import "github.com/ByLCY/papyrus-tex/layout"

// TableFont 是以表格保存度量的字体，描述文件与测试都用它。
type TableFont struct {
	name   string
	size   layout.Scaled
	glyphs map[rune]GlyphMetrics
	kerns  map[[2]rune]layout.Scaled
	next   map[rune]rune
}

var (
	_ Font      = (*TableFont)(nil)
	_ Successor = (*TableFont)(nil)
)

// NewTableFont 创建空字体；size 为零的字体被视为未定义。
func NewTableFont(name string, size layout.Scaled) *TableFont {
	return &TableFont{
		name:   name,
		size:   size,
		glyphs: map[rune]GlyphMetrics{},
		kerns:  map[[2]rune]layout.Scaled{},
		next:   map[rune]rune{},
	}
}

// SetGlyph 定义或覆盖字形度量。
func (f *TableFont) SetGlyph(r rune, m GlyphMetrics) *TableFont {
	f.glyphs[r] = m
	return f
}

// SetKern 定义 kerning 对。
func (f *TableFont) SetKern(left, right rune, amount layout.Scaled) *TableFont {
	f.kerns[[2]rune{left, right}] = amount
	return f
}

// SetSuccessor 把 larger 登记为 r 的下一个更大变体。
func (f *TableFont) SetSuccessor(r, larger rune) *TableFont {
	f.next[r] = larger
	return f
}

func (f *TableFont) Name() string              { return f.name }
func (f *TableFont) DesignSize() layout.Scaled { return f.size }

func (f *TableFont) HasGlyph(r rune) bool {
	_, ok := f.glyphs[r]
	return ok
}

func (f *TableFont) Width(r rune) layout.Scaled  { return f.glyphs[r].Width }
func (f *TableFont) Height(r rune) layout.Scaled { return f.glyphs[r].Height }
func (f *TableFont) Depth(r rune) layout.Scaled  { return f.glyphs[r].Depth }
func (f *TableFont) Italic(r rune) layout.Scaled { return f.glyphs[r].Italic }

func (f *TableFont) Kerning(left, right rune) layout.Scaled {
	return f.kerns[[2]rune{left, right}]
}

func (f *TableFont) Successor(r rune) (rune, bool) {
	n, ok := f.next[r]
	if !ok || !f.HasGlyph(n) {
		return 0, false
	}
	return n, true
}
