package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/fonts"
	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/renderer"
)

// fallbackFont 用于没有字体数据的字符（例如表格字体）。
const fallbackFont = "lmroman10-regular"

const defaultMargin = 10 * layout.Unity

// Renderer draws typeset boxes via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	ink     layout.Color
	margin  layout.Scaled
	info    Info
	logger  *zap.Logger

	// injected resources
	fontBlobs map[string][]byte // by font name

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer     = (*Renderer)(nil)
	_ layout.ContextFactory = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts 以字体名（与 layout.RenderContext.Font 一致）为键。
	Fonts map[string]Resource
	Ink   layout.Color
	// Margin 为四周留白，零值表示 10pt。
	Margin layout.Scaled
	Info   Info
	Logger *zap.Logger
}

// Info 写入 PDF 文档信息。
type Info struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		ink:          opts.Ink,
		margin:       opts.Margin,
		info:         opts.Info,
		logger:       opts.Logger,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.margin <= 0 {
		r.margin = defaultMargin
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := r.readPath(res.Path)
			if err != nil {
				// 使用时回退到内置字体
				r.logger.Warn("font resource unreadable", zap.String("font", name), zap.Error(err))
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// CharContext 实现 layout.ContextFactory：字体名原样保留，颜色取渲染器的墨色。
func (r *Renderer) CharContext(font layout.Face, size layout.Scaled, _ rune) layout.RenderContext {
	ctx := layout.RenderContext{Size: size, Color: r.ink}
	if font != nil {
		ctx.Font = font.Name()
	}
	return ctx
}

// Render renders the box into a single-page PDF sized to the box plus margins.
func (r *Renderer) Render(box layout.Node) ([]byte, error) {
	if box == nil {
		return nil, fmt.Errorf("渲染内容为空")
	}
	width, height := pageSize(box, r.margin)

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	if err := r.drawRoot(ctx, box); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.info.Keywords, ", ")
	writer.SetInfo(r.info.Title, r.info.Subject, keywords, r.info.Author, r.info.Creator)
}

// pageSize 返回页面宽高（mm）。
func pageSize(box layout.Node, margin layout.Scaled) (float64, float64) {
	w := box.Width().Natural + 2*margin
	h := box.Height().Natural + box.Depth().Natural + 2*margin
	return w.ToMM(), h.ToMM()
}

func (r *Renderer) drawRoot(ctx *canvas.Context, box layout.Node) error {
	switch b := box.(type) {
	case *layout.VList:
		return r.drawVList(ctx, b, r.margin, r.margin)
	default:
		return r.drawNode(ctx, box, r.margin, r.margin+box.Height().Natural)
	}
}

// drawNode 在基线 (x, baseline) 处绘制水平列表中的一个节点。
func (r *Renderer) drawNode(ctx *canvas.Context, n layout.Node, x, baseline layout.Scaled) error {
	switch b := n.(type) {
	case *layout.HList:
		return r.drawHList(ctx, b, x, baseline+b.Shift)
	case *layout.VList:
		return r.drawVList(ctx, b, x, baseline+b.Shift-b.Height().Natural)
	case *layout.Char:
		return r.drawChar(ctx, b, x, baseline)
	case *layout.Rule:
		r.fillRect(ctx, x, baseline-b.Height().Natural, b.Width().Natural, b.Height().Natural+b.Depth().Natural)
	case *layout.Discretionary:
		if b.NoBreak != nil {
			return r.drawHList(ctx, b.NoBreak, x, baseline)
		}
	}
	return nil
}

func (r *Renderer) drawHList(ctx *canvas.Context, l *layout.HList, x, baseline layout.Scaled) error {
	cursor := x
	for _, child := range l.Children {
		if err := r.drawNode(ctx, child, cursor, baseline); err != nil {
			return err
		}
		cursor += child.Width().Natural
	}
	return nil
}

// drawVList 从 (x, top) 开始自上而下绘制；子盒子的 Shift 为水平右移。
func (r *Renderer) drawVList(ctx *canvas.Context, l *layout.VList, x, top layout.Scaled) error {
	cursor := top
	for _, child := range l.Children {
		h, d := child.Height().Natural, child.Depth().Natural
		switch b := child.(type) {
		case *layout.HList:
			if err := r.drawHList(ctx, b, x+b.Shift, cursor+h); err != nil {
				return err
			}
		case *layout.VList:
			if err := r.drawVList(ctx, b, x+b.Shift, cursor); err != nil {
				return err
			}
		case *layout.Rule:
			r.fillRect(ctx, x, cursor, b.Width().Natural, h+d)
		case *layout.Char:
			if err := r.drawChar(ctx, b, x, cursor+h); err != nil {
				return err
			}
		}
		cursor += h + d
	}
	return nil
}

func (r *Renderer) drawChar(ctx *canvas.Context, ch *layout.Char, x, baseline layout.Scaled) error {
	face, err := r.fontFace(ch.Context)
	if err != nil {
		return err
	}
	line := canvas.NewTextLine(face, string(ch.Glyph), canvas.Left)
	ctx.DrawText(x.ToMM(), baseline.ToMM(), line)
	return nil
}

func (r *Renderer) fillRect(ctx *canvas.Context, x, y, w, h layout.Scaled) {
	if w <= 0 || h <= 0 {
		return
	}
	ctx.SetFillColor(colorFromLayout(r.ink))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(x.ToMM(), y.ToMM(), canvas.Rectangle(w.ToMM(), h.ToMM()))
}

func (r *Renderer) fontFace(rc layout.RenderContext) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(rc.Font)
	if err != nil {
		return nil, err
	}
	size := rc.Size.Points()
	if size <= 0 {
		size = 10
	}
	return family.Face(size, colorFromLayout(rc.Color), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	data, ok := r.fontBlobs[name]
	if !ok {
		return r.fallback(name)
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		r.logger.Warn("font load failed, using fallback", zap.String("font", name), zap.Error(err))
		return r.fallback(name)
	}
	r.fontFamilies[name] = family
	return family, nil
}

// fallback 调用方需持有 fontMu。
func (r *Renderer) fallback(name string) (*canvas.FontFamily, error) {
	if r.fallbackFamily == nil {
		data, err := fonts.Load(fallbackFont)
		if err != nil {
			return nil, err
		}
		family := canvas.NewFontFamily("papyrus-fallback")
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载后备字体失败: %w", err)
		}
		r.fallbackFamily = family
	}
	r.logger.Debug("font has no data, using fallback", zap.String("font", name))
	r.fontFamilies[name] = r.fallbackFamily
	return r.fallbackFamily, nil
}

func (r *Renderer) readPath(path string) ([]byte, error) {
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s", path)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
