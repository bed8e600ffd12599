package mlist

import (
	"go.uber.org/zap"

	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// FontSet 将 (风格, 族) 解析为字体。
type FontSet interface {
	Font(style Style, family int) metrics.Font
}

// FamilyFonts 是一个族在三档尺寸下的字体；display 与 text 共用 Text。
type FamilyFonts struct {
	Text         metrics.Font
	Script       metrics.Font
	ScriptScript metrics.Font
}

// Families 是按族号索引的 FontSet。
type Families map[int]FamilyFonts

var _ FontSet = Families(nil)

func (f Families) Font(style Style, family int) metrics.Font {
	ff, ok := f[family]
	if !ok {
		return nil
	}
	switch style {
	case Script:
		return ff.Script
	case ScriptScript:
		return ff.ScriptScript
	default:
		return ff.Text
	}
}

// Settings 是与字体无关的数学排版参数。
type Settings struct {
	Thin               MuGlue
	Medium             MuGlue
	Thick              MuGlue
	NullDelimiterSpace layout.Scaled
	ScriptSpace        layout.Scaled
	DelimiterFactor    int
	DelimiterShortfall layout.Scaled
}

// DefaultSettings 与 plain TeX 的取值一致。
func DefaultSettings() Settings {
	return Settings{
		Thin:               Mu(3, 0, 0),
		Medium:             Mu(4, 2, 4),
		Thick:              Mu(5, 5, 0),
		NullDelimiterSpace: layout.Pt(1.2),
		ScriptSpace:        layout.Pt(0.5),
		DelimiterFactor:    901,
		DelimiterShortfall: layout.Pt(5),
	}
}

// Context 是一次转换所需的环境。除 style 外在转换过程中不变；
// 上下标等嵌套求值通过 WithStyle 得到新的 Context。
type Context struct {
	style    Style
	Fonts    FontSet
	Params   ParamTable
	Factory  layout.ContextFactory
	Settings Settings
	Logger   *zap.Logger
}

// NewContext 用默认设置、无输出日志与 PlainContexts 工厂构造 Context。
func NewContext(style Style, fonts FontSet, params ParamTable) *Context {
	return &Context{
		style:    style,
		Fonts:    fonts,
		Params:   params,
		Factory:  layout.PlainContexts{},
		Settings: DefaultSettings(),
		Logger:   zap.NewNop(),
	}
}

func (c *Context) Style() Style { return c.style }

// WithStyle 返回只改变风格的副本。
func (c *Context) WithStyle(s Style) *Context {
	cp := *c
	cp.style = s
	return &cp
}

// Font 解析当前风格下 family 族的字体，可能为 nil。
func (c *Context) Font(family int) metrics.Font {
	if c.Fonts == nil {
		return nil
	}
	return c.Fonts.Font(c.style, family)
}

// FontParameter 按当前风格与参数所属族查询字体参数，缺失时为零。
func (c *Context) FontParameter(name Param) layout.Scaled {
	if c.Params == nil {
		return 0
	}
	v, _ := c.Params.Lookup(c.style, name.Family(), name)
	return v
}

// Convert 把 mu glue 换算为普通 glue：乘以当前数学字体的 quad 再除以 18。
func (c *Context) Convert(mu MuGlue) layout.Glue {
	quad := c.FontParameter(Quad)
	return layout.Glue(mu).Scale(quad, 18*layout.Unity)
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Context) charContext(f metrics.Font, glyph rune) layout.RenderContext {
	if c.Factory == nil {
		return layout.PlainContexts{}.CharContext(f, f.DesignSize(), glyph)
	}
	return c.Factory.CharContext(f, f.DesignSize(), glyph)
}
