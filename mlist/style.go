package mlist

import (
	"fmt"
	"strings"
)

// Style 是数学公式的排版风格。
type Style int

const (
	Display Style = iota
	Text
	Script
	ScriptScript
)

func (s Style) String() string {
	switch s {
	case Display:
		return "display"
	case Text:
		return "text"
	case Script:
		return "script"
	case ScriptScript:
		return "scriptscript"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// Valid 表示 s 是四种风格之一。
func (s Style) Valid() bool { return s >= Display && s <= ScriptScript }

// IsScript 对 script 与 scriptscript 返回 true。
func (s Style) IsScript() bool { return s == Script || s == ScriptScript }

// Sup 返回上标使用的风格。
func (s Style) Sup() Style {
	if s == Display || s == Text {
		return Script
	}
	return ScriptScript
}

// Sub 返回下标使用的风格。
func (s Style) Sub() Style { return s.Sup() }

// ParseStyle 解析风格名称。
func ParseStyle(v string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "display", "d":
		return Display, nil
	case "", "text", "t":
		return Text, nil
	case "script", "s":
		return Script, nil
	case "scriptscript", "ss":
		return ScriptScript, nil
	default:
		return Text, fmt.Errorf("未知的数学风格 %q", v)
	}
}
