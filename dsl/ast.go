package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document 是描述文件的根节点：`doc <name> <version> { 段落... }`。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落：meta、fonts 或 formula 之一。
type Section struct {
	Meta    *MetaSection    `parser:"  @@"`
	Fonts   *FontsSection   `parser:"| @@"`
	Formula *FormulaSection `parser:"| @@"`
}

// Kind 返回段落类型名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Fonts != nil:
		return "fonts"
	case s.Formula != nil:
		return "formula"
	default:
		return "unknown"
	}
}

// Formulas 按出现顺序返回全部 formula 段落。
func (d *Document) Formulas() []*FormulaSection {
	var out []*FormulaSection
	for _, s := range d.Sections {
		if s.Formula != nil {
			out = append(out, s.Formula)
		}
	}
	return out
}

// MetaSection 只包含 `key: value` 赋值。
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// FontsSection 声明字体、族、字体参数与数学设置。
type FontsSection struct {
	Block *Block `parser:"'fonts' @@"`
}

// FormulaSection 是一个公式；头部记号给出起始风格与可选的目标宽度。
type FormulaSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Lexeme      `parser:"'formula' @@*"`
	Block  *Block         `parser:"@@"`
}

// Block 是花括号内以换行或分号分隔的语句序列。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值、命令或裸字符串之一。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Fields 把 `key: v1 v2` 与 `key v1 v2` 统一为小写键与取值序列，裸字符串返回空键。
func (s *Statement) Fields() (string, []string) {
	switch {
	case s.Assignment != nil:
		return strings.ToLower(s.Assignment.Key), strings.Fields(s.Assignment.Value.Text())
	case s.Command != nil:
		return strings.ToLower(s.Command.Name), s.Command.Values()
	default:
		return "", nil
	}
}

// Assignment 是 `key: value`。
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 是声明或 noad：名称、位置参数与可选的语句体。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Values 返回全部参数的取值（字符串已去掉引号）。
func (c *Command) Values() []string {
	out := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		out = append(out, a.Value)
	}
	return out
}

// Options 把 from 之后的参数按 `key value` 成对解析。
func (c *Command) Options(from int) map[string]string {
	if from >= len(c.Args) {
		return map[string]string{}
	}
	return Pairs(c.Args[from:])
}

// Pairs 把记号按 `key value` 成对解析，键转为小写；落单的末尾记号被忽略。
func Pairs(args []*Lexeme) map[string]string {
	out := map[string]string{}
	for i := 0; i+1 < len(args); i += 2 {
		out[strings.ToLower(args[i].Value)] = args[i+1].Value
	}
	return out
}

// Where 返回 `name (行:列)`，用于错误信息。
func (c *Command) Where() string {
	return fmt.Sprintf("%s (%d:%d)", c.Name, c.Pos.Line, c.Pos.Column)
}

// TextLiteral 是语句位置上的裸字符串。
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是赋值右侧：字符串、颜色、数组或一串记号（例如 `4mu plus 2mu`）。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Parts  []*Lexeme      `parser:"| @@+"`
}

// Text 返回取值的文本形式；记号序列以空格连接，数组返回空串。
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Color != nil:
		return *v.Color
	case len(v.Parts) > 0:
		parts := make([]string, 0, len(v.Parts))
		for _, p := range v.Parts {
			parts = append(parts, p.Value)
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Strings 把数组展开为非空字符串列表，单个取值视为只有一项的列表。
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ArrayValue 是 `[a, b]`，元素之间可用逗号、分号或换行分隔。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Lexeme 是一个原样保留的记号，Type 为记号类型名。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// StringLiteral 在捕获时按 Go 语法去掉引号。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}
