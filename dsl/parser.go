// Package dsl 解析公式描述文件：字体表、族、字体参数、数学设置与 noad 树。
//
// 语法只描述结构，命令的含义由 mlist.Build 解释。
package dsl

import (
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var documentParser = participle.MustBuild[Document](
	participle.Lexer(descLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
)

// Parse parses a description from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a description from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Parse implements participle.Parseable：每次吞掉一个记号，遇到 endsLexeme 时交还给语法。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsLexeme(lex.Peek()) {
		return participle.NextMatch
	}
	tok := lex.Next()
	val := tok.Value
	if tok.Type == stringToken {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return err
		}
		val = unquoted
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = strconv.Itoa(int(tok.Type))
	}
	*l = Lexeme{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}
	return nil
}
