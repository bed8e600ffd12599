package metrics

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/papyrus-tex/layout"
)

// SFNTFont reads metrics from a TrueType/OpenType font at a fixed size.
// One em equals the design size; 26.6 fixed values are converted to scaled points.
type SFNTFont struct {
	name string
	size layout.Scaled
	ppem fixed.Int26_6

	mu    sync.Mutex
	font  *sfnt.Font
	buf   sfnt.Buffer
	cache map[rune]*sfntGlyph
}

type sfntGlyph struct {
	index sfnt.GlyphIndex
	m     GlyphMetrics
}

var _ Font = (*SFNTFont)(nil)

// ParseSFNT parses font data; size is the design size the font is used at.
func ParseSFNT(name string, data []byte, size layout.Scaled) (*SFNTFont, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font %s: design size must be positive, got %s", name, size)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	return &SFNTFont{
		name:  name,
		size:  size,
		ppem:  toFixed(size),
		font:  f,
		cache: map[rune]*sfntGlyph{},
	}, nil
}

func (f *SFNTFont) Name() string              { return f.name }
func (f *SFNTFont) DesignSize() layout.Scaled { return f.size }

func (f *SFNTFont) HasGlyph(r rune) bool { return f.glyph(r) != nil }

func (f *SFNTFont) Width(r rune) layout.Scaled  { return f.metrics(r).Width }
func (f *SFNTFont) Height(r rune) layout.Scaled { return f.metrics(r).Height }
func (f *SFNTFont) Depth(r rune) layout.Scaled  { return f.metrics(r).Depth }

// Italic is always zero: SFNT fonts carry no TFM-style italic correction.
func (f *SFNTFont) Italic(rune) layout.Scaled { return 0 }

// Kerning reads the legacy kern table; fonts with GPOS-only kerning report zero.
func (f *SFNTFont) Kerning(left, right rune) layout.Scaled {
	l, r := f.glyph(left), f.glyph(right)
	if l == nil || r == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k, err := f.font.Kern(&f.buf, l.index, r.index, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(k)
}

// XHeight returns the font's x-height, or zero when the font does not record one.
func (f *SFNTFont) XHeight() layout.Scaled {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.font.Metrics(&f.buf, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(m.XHeight)
}

func (f *SFNTFont) metrics(r rune) GlyphMetrics {
	if g := f.glyph(r); g != nil {
		return g.m
	}
	return GlyphMetrics{}
}

func (f *SFNTFont) glyph(r rune) *sfntGlyph {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.cache[r]; ok {
		return g
	}
	g, err := f.load(r)
	if err != nil {
		g = nil
	}
	f.cache[r] = g
	return g
}

// load must be called with f.mu held.
func (f *SFNTFont) load(r rune) (*sfntGlyph, error) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, errors.New("glyph not found")
	}
	bounds, advance, err := f.font.GlyphBounds(&f.buf, idx, f.ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}
	// Y grows downwards: Min.Y is minus the height above the baseline.
	g := &sfntGlyph{index: idx, m: GlyphMetrics{Width: fromFixed(advance)}}
	if bounds.Min.Y < 0 {
		g.m.Height = fromFixed(-bounds.Min.Y)
	}
	if bounds.Max.Y > 0 {
		g.m.Depth = fromFixed(bounds.Max.Y)
	}
	return g, nil
}

// 1/64pt <-> 1/65536pt
func toFixed(s layout.Scaled) fixed.Int26_6   { return fixed.Int26_6(s >> 10) }
func fromFixed(v fixed.Int26_6) layout.Scaled { return layout.Scaled(v) << 10 }
