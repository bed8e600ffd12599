package dsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// descLexer 把描述文件切分为记号。长度带单位时整体作为一个 Number，
// 例如 -1.5pt、4mu；# 后紧跟合法十六进制时是颜色，否则是注释。
var descLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|sp|bp|mm|cm|in|mu)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),;:=+*/<>-]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

var (
	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range descLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	newlineToken = tokenType("Newline")
	lbraceToken  = tokenType("LBrace")
	rbraceToken  = tokenType("RBrace")
	symbolToken  = tokenType("Symbol")
	stringToken  = tokenType("String")
)

func tokenType(name string) lexer.TokenType {
	tt, ok := descLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}

// endsLexeme 判断 tok 是否结束一串参数：换行、花括号以及 ; , ] 三个分隔符。
func endsLexeme(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineToken, lbraceToken, rbraceToken:
		return true
	case symbolToken:
		return tok.Value == ";" || tok.Value == "," || tok.Value == "]"
	}
	return false
}
