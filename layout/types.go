package layout

// 该文件定义节点模型：叶子节点与列表节点的公共尺寸契约。

// Kind 区分节点的种类。
type Kind int

const (
	KindChar Kind = iota
	KindRule
	KindKern
	KindSpace
	KindDiscretionary
	KindPassthrough
	KindHList
	KindVList
)

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindRule:
		return "rule"
	case KindKern:
		return "kern"
	case KindSpace:
		return "glue"
	case KindDiscretionary:
		return "disc"
	case KindPassthrough:
		return "passthrough"
	case KindHList:
		return "hlist"
	case KindVList:
		return "vlist"
	default:
		return "unknown"
	}
}

// Node 是所有节点共享的契约。宽、高、深都是 Glue，
// 固定尺寸的节点只是伸缩量为零。
//
// 节点自底向上创建，只在所属列表构造期间被修改；
// 一旦追加进外层列表即视为不可变，且只属于一个列表。
type Node interface {
	Kind() Kind

	Width() Glue
	Height() Glue
	Depth() Glue

	SetWidth(Glue)
	SetHeight(Glue)
	SetDepth(Glue)

	// Max* 仅在新值的自然长度更大时才替换。
	MaxWidth(Glue)
	MaxHeight(Glue)
	MaxDepth(Glue)

	AddWidthTo(*WideGlue)
	AddHeightTo(*WideGlue)
	AddDepthTo(*WideGlue)
}

// Face 标识一个已解析的字体，用于判断两个字符是否同字体。
type Face interface {
	Name() string
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// RenderContext 是字符的渲染属性（字体与颜色），由外部排版上下文工厂生成。
type RenderContext struct {
	Font  string `json:"font"`
	Size  Scaled `json:"size"`
	Color Color  `json:"color"`
}

type box struct {
	w, h, d Glue
}

func (b *box) Width() Glue  { return b.w }
func (b *box) Height() Glue { return b.h }
func (b *box) Depth() Glue  { return b.d }

func (b *box) SetWidth(g Glue)  { b.w = g }
func (b *box) SetHeight(g Glue) { b.h = g }
func (b *box) SetDepth(g Glue)  { b.d = g }

func (b *box) MaxWidth(g Glue) {
	if g.Natural > b.w.Natural {
		b.w = g
	}
}

func (b *box) MaxHeight(g Glue) {
	if g.Natural > b.h.Natural {
		b.h = g
	}
}

func (b *box) MaxDepth(g Glue) {
	if g.Natural > b.d.Natural {
		b.d = g
	}
}

func (b *box) AddWidthTo(acc *WideGlue)  { acc.Add(b.w) }
func (b *box) AddHeightTo(acc *WideGlue) { acc.Add(b.h) }
func (b *box) AddDepthTo(acc *WideGlue)  { acc.Add(b.d) }

// Char 是一个字形。
type Char struct {
	box
	Font    Face
	Glyph   rune
	Context RenderContext
}

// NewChar 用字体度量构造字符节点。
func NewChar(font Face, glyph rune, width, height, depth Scaled) *Char {
	return &Char{box: box{w: FixedGlue(width), h: FixedGlue(height), d: FixedGlue(depth)}, Font: font, Glyph: glyph}
}

func (*Char) Kind() Kind { return KindChar }

// Rule 是实心矩形。
type Rule struct {
	box
}

func NewRule(width, height, depth Scaled) *Rule {
	return &Rule{box: box{w: FixedGlue(width), h: FixedGlue(height), d: FixedGlue(depth)}}
}

func (*Rule) Kind() Kind { return KindRule }

// KernKind 记录 kern 的来源。
type KernKind int

const (
	KernExplicit KernKind = iota
	KernItalic            // 斜体校正
	KernFont              // 字体 kerning 对
	KernMath              // 数学排版插入的间距
)

func (k KernKind) String() string {
	switch k {
	case KernItalic:
		return "italic"
	case KernFont:
		return "font"
	case KernMath:
		return "math"
	default:
		return "explicit"
	}
}

// Kern 是不可伸缩的间距。水平列表中长度记在宽度上，垂直列表中记在高度上。
type Kern struct {
	box
	Subtype  KernKind
	Vertical bool
}

func NewKern(amount Scaled, kind KernKind) *Kern {
	return &Kern{box: box{w: FixedGlue(amount)}, Subtype: kind}
}

// NewVKern 构造用于垂直列表的 kern。
func NewVKern(amount Scaled, kind KernKind) *Kern {
	return &Kern{box: box{h: FixedGlue(amount)}, Subtype: kind, Vertical: true}
}

// Amount 返回 kern 在主轴上的长度。
func (k *Kern) Amount() Scaled {
	if k.Vertical {
		return k.h.Natural
	}
	return k.w.Natural
}

func (*Kern) Kind() Kind { return KindKern }

// Implicit 表示该 kern 不是作者显式写出的。
func (k *Kern) Implicit() bool { return k.Subtype != KernExplicit }

// Space 是可伸缩的 glue 节点。
type Space struct {
	box
}

func NewSpace(g Glue) *Space { return &Space{box: box{w: g}} }

func (*Space) Kind() Kind { return KindSpace }

// Discretionary 记录断行前、断行后与不断行三种内容。宽度取不断行内容。
type Discretionary struct {
	box
	Pre     *HList
	Post    *HList
	NoBreak *HList
}

func NewDiscretionary(pre, post, noBreak *HList) *Discretionary {
	d := &Discretionary{Pre: pre, Post: post, NoBreak: noBreak}
	if noBreak != nil {
		d.w = noBreak.Width()
		d.h = noBreak.Height()
		d.d = noBreak.Depth()
	}
	return d
}

func (*Discretionary) Kind() Kind { return KindDiscretionary }

// Passthrough 原样携带外部负载，尺寸为零。
type Passthrough struct {
	box
	Payload any
}

func NewPassthrough(payload any) *Passthrough { return &Passthrough{Payload: payload} }

func (*Passthrough) Kind() Kind { return KindPassthrough }

// IsGlueLike 表示节点是 glue 或 kern，数学排版中的 kill 规则只作用于这两类。
func IsGlueLike(n Node) bool {
	if n == nil {
		return false
	}
	k := n.Kind()
	return k == KindSpace || k == KindKern
}
