package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/papyrus-tex/fonts"
	"github.com/ByLCY/papyrus-tex/layout"
)

type namedFace string

func (f namedFace) Name() string { return string(f) }

func charNode(r *Renderer, face string, glyph rune, w float64) *layout.Char {
	ch := layout.NewChar(namedFace(face), glyph, layout.Pt(w), layout.Pt(7), layout.Pt(2))
	ch.Context = r.CharContext(namedFace(face), layout.Pt(10), glyph)
	return ch
}

func TestCharContextUsesInk(t *testing.T) {
	ink := layout.Color{R: 10, G: 20, B: 30}
	r := NewRendererWithOptions(Options{Ink: ink})
	ctx := r.CharContext(namedFace("lmmath@10pt"), layout.Pt(10), 'x')
	if ctx.Font != "lmmath@10pt" || ctx.Size != layout.Pt(10) || ctx.Color != ink {
		t.Fatalf("unexpected render context: %+v", ctx)
	}
}

func TestPageSizeIncludesMargins(t *testing.T) {
	box := layout.NewHList(layout.NewRule(layout.Pt(100), layout.Pt(8), layout.Pt(2)))
	w, h := pageSize(box, layout.Pt(10))
	if math.Abs(w-120*layout.PtToMm) > 1e-6 || math.Abs(h-30*layout.PtToMm) > 1e-6 {
		t.Fatalf("unexpected page size: %g x %g mm", w, h)
	}
}

func TestRenderRejectsNil(t *testing.T) {
	if _, err := NewRenderer(".").Render(nil); err == nil {
		t.Fatalf("expected error for nil box")
	}
}

func TestRenderHListWithFallbackFont(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRendererWithOptions(Options{Logger: zap.New(core), Info: Info{Title: "t", Creator: "Papyrus"}})
	box := layout.NewHList(
		charNode(r, "table-rm", 'a', 5),
		layout.NewKern(layout.Pt(1), layout.KernFont),
		charNode(r, "table-rm", 'b', 5.5),
		layout.NewRule(layout.Pt(20), layout.Pt(0.4), 0),
	)
	box.Pack(nil)

	data, err := r.Render(box)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	// 同一字体只回退一次
	if logs.FilterMessage("font has no data, using fallback").Len() != 1 {
		t.Fatalf("expected one fallback log entry, got %d", logs.Len())
	}
}

func TestRenderNestedListsWithInjectedFont(t *testing.T) {
	data, err := fonts.Load("lmmath")
	if err != nil {
		t.Fatalf("load font: %v", err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"lmmath@10pt": {Bytes: data}}})

	sup := layout.NewHList(charNode(r, "lmmath@10pt", '2', 3.5))
	sup.Shift = -layout.Pt(3.6)
	first := layout.NewHList(charNode(r, "lmmath@10pt", 'x', 5.3), sup)
	first.Pack(nil)

	stack := layout.NewVList(
		layout.NewHList(charNode(r, "lmmath@10pt", '(', 3.9)),
		layout.NewVKern(layout.Pt(3), layout.KernMath),
		layout.NewRule(layout.Pt(10), layout.Pt(0.4), 0),
	)
	stack.Pack(nil)
	second := layout.NewHList(stack)
	second.Pack(nil)

	page := layout.NewVList(first, layout.NewVKern(layout.Pt(12), layout.KernExplicit), second)
	page.Pack(nil)

	out, err := r.Render(page)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty output")
	}
	if _, ok := r.fontFamilies["lmmath@10pt"]; !ok {
		t.Fatalf("injected font should be cached")
	}
	if r.fallbackFamily != nil {
		t.Fatalf("fallback should not be loaded when font data is present")
	}
}

func TestUnreadableFontPathFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRendererWithOptions(Options{
		BaseDir: t.TempDir(),
		Fonts:   map[string]Resource{"missing": {Path: "missing.otf"}},
		Logger:  zap.New(core),
	})
	if logs.FilterMessage("font resource unreadable").Len() != 1 {
		t.Fatalf("expected warning for unreadable font")
	}
	if _, err := r.Render(layout.NewHList(charNode(r, "missing", 'a', 5))); err != nil {
		t.Fatalf("render should fall back: %v", err)
	}
}
