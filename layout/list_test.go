package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type testFace string

func (f testFace) Name() string { return string(f) }

// TestHListNaturalDimensions 断言：宽度为子节点之和，高深取最大值（考虑 Shift）。
func TestHListNaturalDimensions(t *testing.T) {
	inner := NewHList(NewRule(Pt(2), Pt(4), Pt(1)))
	inner.Shift = Pt(2) // 向下移动 2pt
	l := NewHList(
		NewChar(testFace("cmr"), 'a', Pt(5), Pt(4.5), 0),
		NewKern(Pt(1), KernFont),
		inner,
	)
	if l.Width().Natural != Pt(8) {
		t.Fatalf("宽度应为 8pt，实际 %s", l.Width().Natural)
	}
	if l.Height().Natural != Pt(4.5) {
		t.Fatalf("高度应为 4.5pt，实际 %s", l.Height().Natural)
	}
	if l.Depth().Natural != Pt(3) {
		t.Fatalf("深度应为 1pt+2pt，实际 %s", l.Depth().Natural)
	}
	if l.Last() != inner || l.Len() != 3 {
		t.Fatalf("Last/Len 不正确")
	}
}

func TestHListExtendMovesChildren(t *testing.T) {
	src := NewHList(NewRule(Pt(1), Pt(1), 0), NewRule(Pt(2), Pt(3), 0))
	dst := NewHList(NewKern(Pt(1), KernExplicit))
	dst.Extend(src)
	if dst.Len() != 3 || src.Len() != 0 {
		t.Fatalf("Extend 应移动全部子节点: dst=%d src=%d", dst.Len(), src.Len())
	}
	if dst.Width().Natural != Pt(4) || dst.Height().Natural != Pt(3) {
		t.Fatalf("尺寸未更新: %s x %s", dst.Width().Natural, dst.Height().Natural)
	}
}

func TestMaxRaisesOnlyWhenGreater(t *testing.T) {
	r := NewRule(Pt(1), Pt(5), Pt(1))
	r.MaxHeight(FixedGlue(Pt(3)))
	r.MaxDepth(FixedGlue(Pt(2)))
	if r.Height().Natural != Pt(5) || r.Depth().Natural != Pt(2) {
		t.Fatalf("Max 语义错误: h=%s d=%s", r.Height().Natural, r.Depth().Natural)
	}
}

func TestDiscretionaryTakesNoBreakSize(t *testing.T) {
	nb := NewHList(NewRule(Pt(3), Pt(2), 0))
	d := NewDiscretionary(NewHList(), NewHList(), nb)
	if d.Width().Natural != Pt(3) || d.Height().Natural != Pt(2) {
		t.Fatalf("断行节点应取不断行内容的尺寸")
	}
	if !IsGlueLike(NewKern(1, KernMath)) || IsGlueLike(d) || IsGlueLike(nil) {
		t.Fatalf("IsGlueLike 判定错误")
	}
}

// TestWriteDebugJSON 验证调试 JSON 包含节点类型与子节点。
func TestWriteDebugJSON(t *testing.T) {
	l := NewHList(NewChar(testFace("cmr"), 'x', Pt(5), Pt(4), 0), NewSpace(NewGlue(Pt(3), Pt(1), 0)))
	l.Pack(ptr(Pt(9)))
	path := filepath.Join(t.TempDir(), "box.json")
	if err := WriteDebugJSON(l, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	var got DebugNode
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("JSON 无法解析: %v", err)
	}
	if got.Type != "hlist" || len(got.Children) != 2 {
		t.Fatalf("根节点错误: %+v", got)
	}
	if got.Children[0].Glyph != "x" || got.Children[0].Font != "cmr" {
		t.Fatalf("字符节点信息缺失: %+v", got.Children[0])
	}
	if got.Report == nil || got.Report.Diff != Pt(1) {
		t.Fatalf("应输出打包报告: %+v", got.Report)
	}
}

func TestPassthroughHasNoSize(t *testing.T) {
	p := NewPassthrough("mark")
	l := NewHList(NewRule(Pt(2), Pt(3), 0), p)
	if l.Width().Natural != Pt(2) || p.Kind() != KindPassthrough {
		t.Fatalf("透传节点不应占用空间")
	}
	if got := Debug(p).Payload; got != "mark" {
		t.Fatalf("调试输出缺少负载: %v", got)
	}
}
