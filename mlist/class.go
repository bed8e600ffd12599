package mlist

import "strings"

// Class 是原子的间距类别。None 表示不参与类别间距（如 glue）。
type Class int

const (
	None Class = iota
	Ord
	Op
	Bin
	Rel
	Open
	Close
	Punct
	Inner
)

var classNames = []string{"none", "ord", "op", "bin", "rel", "open", "close", "punct", "inner"}

func (c Class) String() string {
	if c < None || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ParseClass 解析类别名称，未知名称返回 false。
func ParseClass(v string) (Class, bool) {
	v = strings.ToLower(v)
	for i, name := range classNames {
		if name == v {
			return Class(i), true
		}
	}
	return None, false
}

// spacing 是 Ord..Inner 之间的间距表，行为左侧原子，列为右侧原子。
//
//	0 无间距；1 细空（script 风格下取消）；2 细空；
//	3 中空（script 风格下取消）；4 粗空（script 风格下取消）；* 不可能出现。
const spacing = "02340001" +
	"22*40001" +
	"33**3**3" +
	"44*04004" +
	"00*00000" +
	"02340001" +
	"11*11111" +
	"12341011"

// clearance 返回 left 与 right 两个原子之间应插入的 mu glue。
func clearance(left, right Class, style Style, s Settings) (MuGlue, bool) {
	if left == None || right == None || left > Inner || right > Inner {
		return MuGlue{}, false
	}
	switch spacing[int(left-Ord)*8+int(right-Ord)] {
	case '1':
		if !style.IsScript() {
			return s.Thin, true
		}
	case '2':
		return s.Thin, true
	case '3':
		if !style.IsScript() {
			return s.Medium, true
		}
	case '4':
		if !style.IsScript() {
			return s.Thick, true
		}
	}
	return MuGlue{}, false
}

// resolveClasses 计算每个 noad 实际参与间距的类别：
// Choice 采用被选中分支的类别；Bin 位于开头或跟在 Bin/Op/Rel/Open/Punct 之后时变为 Ord，
// 位于 Rel/Close/Punct 之前或列表末尾时同样变为 Ord。
func resolveClasses(noads []*Noad, style Style) []Class {
	out := make([]Class, len(noads))
	last := -1
	for i, n := range noads {
		if n == nil {
			continue
		}
		c := n.classIn(style)
		switch c {
		case Bin:
			if last < 0 {
				c = Ord
				break
			}
			switch out[last] {
			case Bin, Op, Rel, Open, Punct:
				c = Ord
			}
		case Rel, Close, Punct:
			if last >= 0 && out[last] == Bin {
				out[last] = Ord
			}
		}
		out[i] = c
		if c != None {
			last = i
		}
	}
	if last >= 0 && out[last] == Bin {
		out[last] = Ord
	}
	return out
}
