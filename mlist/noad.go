package mlist

import "github.com/ByLCY/papyrus-tex/layout"

// Noad 是公式中尚未转换为盒子的原子：核、可选的上下标与间距类别。
// noad 树在转换前构造一次，转换时从左到右只读消费一次。
type Noad struct {
	Nucleus Body
	Sub     *Noad
	Sup     *Noad
	Class   Class
}

// Body 是核的封闭和类型，只有本包中的类型可以实现。
type Body interface {
	isBody()
}

// MuGlue 是以 mu 为单位的 glue，18mu 等于当前数学字体的 quad。
type MuGlue layout.Glue

// Mu 构造有限阶的 mu glue，参数以 mu 计。
func Mu(natural, stretch, shrink float64) MuGlue {
	return MuGlue(layout.NewGlue(layout.Pt(natural), layout.Pt(stretch), layout.Pt(shrink)))
}

// Char 是某个族中的一个字形。
type Char struct {
	Family int
	Glyph  rune
}

// Glue 是数学 glue；Kill 标记（\nonscript）会在 script 风格下取消紧随其后的 glue 或 kern。
type Glue struct {
	Amount MuGlue
	Kill   bool
}

// List 是子公式。
type List struct {
	Noads []*Noad
}

// Choice 按当前风格四选一，其余分支不会被求值。
type Choice struct {
	Display      *Noad
	Text         *Noad
	Script       *Noad
	ScriptScript *Noad
}

// DelimKind 区分 left/middle/right。
type DelimKind int

const (
	Left DelimKind = iota
	Middle
	Right
)

func (k DelimKind) String() string {
	switch k {
	case Left:
		return "left"
	case Middle:
		return "middle"
	default:
		return "right"
	}
}

// DelimSpec 给出定界符的小号与大号字形；两者都为零表示空定界符。
type DelimSpec struct {
	SmallFamily int
	Small       rune
	LargeFamily int
	Large       rune
}

// IsNull 表示空定界符（如 \left.）。
func (d DelimSpec) IsNull() bool { return d.Small == 0 && d.Large == 0 }

// Delimiter 包裹定界符之前与之后的材料。定界符的尺寸取决于两侧（以及嵌套定界符）的全部内容，
// 因此转换时先测量 Post，再排 Pre，最后才确定定界符本身。
type Delimiter struct {
	Kind  DelimKind
	Pre   *Noad
	Post  *Noad
	Delim DelimSpec
}

// Underline 在核下方加一条横线。
type Underline struct {
	Nucleus *Noad
}

// VCenter 将核在数学轴上垂直居中。
type VCenter struct {
	Nucleus *Noad
}

// Raw 原样传递一个预先构造好的节点。
type Raw struct {
	Node layout.Node
}

func (*Char) isBody()      {}
func (*Glue) isBody()      {}
func (*List) isBody()      {}
func (*Choice) isBody()    {}
func (*Delimiter) isBody() {}
func (*Underline) isBody() {}
func (*VCenter) isBody()   {}
func (*Raw) isBody()       {}

// NewChar 构造带类别的字符 noad。
func NewChar(class Class, family int, glyph rune) *Noad {
	return &Noad{Nucleus: &Char{Family: family, Glyph: glyph}, Class: class}
}

// NewGlue 构造 glue noad，类别为 None。
func NewGlue(g MuGlue, kill bool) *Noad {
	return &Noad{Nucleus: &Glue{Amount: g, Kill: kill}}
}

// NewList 构造 Ord 类别的子公式。
func NewList(noads ...*Noad) *Noad {
	return &Noad{Nucleus: &List{Noads: noads}, Class: Ord}
}

// NewRaw 包裹现成节点。
func NewRaw(class Class, n layout.Node) *Noad {
	return &Noad{Nucleus: &Raw{Node: n}, Class: class}
}

// NewDelimiter 构造定界符 noad。right 所在的 noad 代表整个 left…right 组，
// 在外层按 Inner 参与间距；left 为 Open，middle 为 Inner。
func NewDelimiter(kind DelimKind, spec DelimSpec, pre, post *Noad) *Noad {
	class := Inner
	if kind == Left {
		class = Open
	}
	return &Noad{Nucleus: &Delimiter{Kind: kind, Pre: pre, Post: post, Delim: spec}, Class: class}
}

// WithScripts 设置上下标并返回 n 本身。
func (n *Noad) WithScripts(sub, sup *Noad) *Noad {
	n.Sub, n.Sup = sub, sup
	return n
}

// pick 返回 style 对应的分支。
func (c *Choice) pick(style Style) (*Noad, bool) {
	switch style {
	case Display:
		return c.Display, true
	case Text:
		return c.Text, true
	case Script:
		return c.Script, true
	case ScriptScript:
		return c.ScriptScript, true
	default:
		return nil, false
	}
}

// classIn 返回 n 在 style 下的类别：Choice 采用被选中分支的类别。
func (n *Noad) classIn(style Style) Class {
	if c, ok := n.Nucleus.(*Choice); ok {
		alt, ok := c.pick(style)
		if !ok || alt == nil {
			return None
		}
		return alt.classIn(style)
	}
	return n.Class
}

// isKill 表示 n 是带 Kill 标记的 glue noad。
func (n *Noad) isKill() bool {
	if n == nil {
		return false
	}
	g, ok := n.Nucleus.(*Glue)
	return ok && g.Kill
}

// isGlueLike 表示 n 会贡献 glue 或 kern：普通 glue noad，或包裹 glue/kern 的 Raw。
func (n *Noad) isGlueLike() bool {
	switch b := n.Nucleus.(type) {
	case *Glue:
		return true
	case *Raw:
		return layout.IsGlueLike(b.Node)
	default:
		return false
	}
}
