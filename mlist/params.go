package mlist

import (
	"strings"

	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

// 字体参数所在的族：符号参数在 2 族，扩展参数在 3 族。
const (
	SymbolFamily    = 2
	ExtensionFamily = 3
)

// Param 是数学字体参数名。
type Param int

const (
	AxisHeight Param = iota
	DefaultRuleThickness
	Quad
	XHeight
	Sup1
	Sup2
	Sup3
	Sub1
	Sub2
	SupDrop
	SubDrop
	Delim1
	Delim2
)

var paramNames = map[Param]string{
	AxisHeight:           "axis-height",
	DefaultRuleThickness: "rule-thickness",
	Quad:                 "quad",
	XHeight:              "x-height",
	Sup1:                 "sup1",
	Sup2:                 "sup2",
	Sup3:                 "sup3",
	Sub1:                 "sub1",
	Sub2:                 "sub2",
	SupDrop:              "sup-drop",
	SubDrop:              "sub-drop",
	Delim1:               "delim1",
	Delim2:               "delim2",
}

func (p Param) String() string {
	if name, ok := paramNames[p]; ok {
		return name
	}
	return "unknown"
}

// Family 返回参数所在的族。
func (p Param) Family() int {
	if p == DefaultRuleThickness {
		return ExtensionFamily
	}
	return SymbolFamily
}

// ParseParam 按名称查找参数。
func ParseParam(name string) (Param, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range paramNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// ParamTable 是按 (风格, 族, 名称) 查询的字体参数表。
type ParamTable interface {
	Lookup(style Style, family int, name Param) (layout.Scaled, bool)
}

type paramKey struct {
	style  Style
	family int
	name   Param
}

// Params 是 ParamTable 的表格实现。display 风格未设置时回退到 text。
type Params struct {
	values map[paramKey]layout.Scaled
}

var _ ParamTable = (*Params)(nil)

func NewParams() *Params {
	return &Params{values: map[paramKey]layout.Scaled{}}
}

// Set 设置单个参数。
func (p *Params) Set(style Style, family int, name Param, v layout.Scaled) *Params {
	p.values[paramKey{style, family, name}] = v
	return p
}

// SetDefault 把参数设置在它所属的族上。
func (p *Params) SetDefault(style Style, name Param, v layout.Scaled) *Params {
	return p.Set(style, name.Family(), name, v)
}

func (p *Params) Lookup(style Style, family int, name Param) (layout.Scaled, bool) {
	if v, ok := p.values[paramKey{style, family, name}]; ok {
		return v, true
	}
	if style == Display {
		v, ok := p.values[paramKey{Text, family, name}]
		return v, ok
	}
	return 0, false
}

// cmsy10/cmex10 的参数，以设计尺寸（em）为单位的比例。
var defaultRatios = map[Param]float64{
	XHeight:              0.430555,
	Quad:                 1.0,
	Sup1:                 0.412892,
	Sup2:                 0.362892,
	Sup3:                 0.288889,
	Sub1:                 0.15,
	Sub2:                 0.247217,
	SupDrop:              0.386108,
	SubDrop:              0.05,
	Delim1:               2.39,
	Delim2:               1.01,
	AxisHeight:           0.25,
	DefaultRuleThickness: 0.04,
}

// DefaultParams 返回 10pt/7pt/5pt 三档尺寸下的 Computer Modern 数学参数。
func DefaultParams() *Params { return ParamsFor(nil) }

// xHeighter 由能报告 x-height 的字体实现（如 metrics.SFNTFont）。
type xHeighter interface {
	XHeight() layout.Scaled
}

// ParamsFor 按符号族与扩展族字体的设计尺寸换算参数，缺少字体的风格退回 10pt/7pt/5pt。
// 字体自带 x-height 时优先使用。
func ParamsFor(fonts FontSet) *Params {
	p := NewParams()
	fallback := map[Style]layout.Scaled{Text: layout.Pt(10), Script: layout.Pt(7), ScriptScript: layout.Pt(5)}
	for style, size := range fallback {
		for name, ratio := range defaultRatios {
			em := size
			var font metrics.Font
			if fonts != nil {
				font = fonts.Font(style, name.Family())
			}
			if font != nil && font.DesignSize() > 0 {
				em = font.DesignSize()
			}
			v := layout.Pt(ratio * em.Points())
			if name == XHeight {
				if xh, ok := font.(xHeighter); ok && xh.XHeight() > 0 {
					v = xh.XHeight()
				}
			}
			p.SetDefault(style, name, v)
		}
	}
	return p
}
