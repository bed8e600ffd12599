package mlist

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/papyrus-tex/fonts"
	"github.com/ByLCY/papyrus-tex/layout"
	"github.com/ByLCY/papyrus-tex/metrics"
)

var parens = DelimSpec{SmallFamily: famExt, Small: parenSmall, LargeFamily: famExt, Large: parenMedium}

func TestDelimiterPicksSmallVariant(t *testing.T) {
	n := NewDelimiter(Left, parens, nil, rawRule(1, 5, 0))
	out, err := Convert([]*Noad{n}, newTestContext(Text))
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("应输出定界符与后续材料，实际 %d 个节点", out.Len())
	}
	box := out.Children[0].(*layout.HList)
	if glyphOf(t, box) != parenSmall {
		t.Fatalf("内容较小时应选用小号字形")
	}
	if box.Shift != 0 {
		t.Fatalf("小号字形已在轴上居中，Shift 应为 0，实际 %s", box.Shift)
	}
}

// TestNestedDelimitersShareExtent 断言 left 在确定尺寸前已经看到 middle 之后的材料。
func TestNestedDelimitersShareExtent(t *testing.T) {
	left := NewDelimiter(Left, parens, nil, rawRule(1, 5, 0))
	middle := NewDelimiter(Middle, parens, left, rawRule(1, 14, 4))
	right := NewDelimiter(Right, parens, middle, nil)

	out, err := Convert([]*Noad{right}, newTestContext(Text))
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if out.Len() != 5 {
		t.Fatalf("应输出 left A middle B right，实际 %d 个节点", out.Len())
	}
	for _, i := range []int{0, 2, 4} {
		box, ok := out.Children[i].(*layout.HList)
		if !ok {
			t.Fatalf("第 %d 个节点应为定界符盒子: %T", i, out.Children[i])
		}
		if glyphOf(t, box) != parenLarge {
			t.Fatalf("第 %d 个定界符应放大到最大变体，实际 %q", i, glyphOf(t, box))
		}
		// (20pt - 10pt)/2 - 2.5pt
		if box.Shift != layout.Pt(2.5) {
			t.Fatalf("定界符应以轴为中心，Shift=%s", box.Shift)
		}
	}
	if out.Children[1].Height().Natural != layout.Pt(5) || out.Children[3].Height().Natural != layout.Pt(14) {
		t.Fatalf("材料顺序错误")
	}
}

func TestDelimiterFallsBackToLargest(t *testing.T) {
	n := NewDelimiter(Left, parens, nil, rawRule(1, 60, 0))
	out, err := Convert([]*Noad{n}, newTestContext(Text))
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if glyphOf(t, out.Children[0]) != parenLarge {
		t.Fatalf("没有足够大的变体时应取最大的一个")
	}
}

func TestNullDelimiter(t *testing.T) {
	ctx := newTestContext(Text)
	n := NewDelimiter(Right, DelimSpec{}, rawRule(1, 5, 0), nil)
	out, err := Convert([]*Noad{n}, ctx)
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("实际 %d 个节点", out.Len())
	}
	if w := out.Children[1].Width().Natural; w != ctx.Settings.NullDelimiterSpace {
		t.Fatalf("空定界符宽度应为 null-delimiter-space，实际 %s", w)
	}
}

func TestDelimiterWithUndefinedFamily(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := newTestContext(Text)
	ctx.Logger = zap.New(core)

	spec := DelimSpec{SmallFamily: 8, Small: '('}
	out, err := Convert([]*Noad{NewDelimiter(Left, spec, nil, nil)}, ctx)
	if err != nil {
		t.Fatalf("找不到字形不应是错误: %v", err)
	}
	if out.Width().Natural != ctx.Settings.NullDelimiterSpace {
		t.Fatalf("应退化为空定界符")
	}
	if logs.FilterMessage("no delimiter glyph").Len() != 1 {
		t.Fatalf("应记录警告日志")
	}
}

func TestExtentFold(t *testing.T) {
	var e Extent
	e.Fold(layout.NewRule(0, layout.Pt(3), layout.Pt(1)))
	e.Fold(layout.NewRule(0, layout.Pt(2), layout.Pt(4)))
	e.Fold(nil)
	if e.Height != layout.Pt(3) || e.Depth != layout.Pt(4) {
		t.Fatalf("Fold 应分别取最大值: %+v", e)
	}
}

// TestDelimiterGroupSpacesAsInner 断言 left…right 组在外层按 Inner 参与间距：
// rel 之后保留粗空，前面的 bin 不会被改成 ord。
func TestDelimiterGroupSpacesAsInner(t *testing.T) {
	group := func() *Noad {
		left := NewDelimiter(Left, parens, nil, NewChar(Ord, famRoman, 'a'))
		return NewDelimiter(Right, parens, left, nil)
	}
	ctx := newTestContext(Text)
	tests := []struct {
		name  string
		op    *Noad
		space layout.Glue
	}{
		{"rel", NewChar(Rel, famRoman, '='), ctx.Convert(ctx.Settings.Thick)},
		{"bin", NewChar(Bin, famRoman, '+'), ctx.Convert(ctx.Settings.Medium)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert([]*Noad{NewChar(Ord, famRoman, 'a'), tt.op, group()}, ctx)
			if err != nil {
				t.Fatalf("转换失败: %v", err)
			}
			if out.Len() < 4 {
				t.Fatalf("输出节点过少: %d", out.Len())
			}
			for _, i := range []int{1, 3} {
				sp, ok := out.Children[i].(*layout.Space)
				if !ok || sp.Width().Compare(tt.space) != 0 {
					t.Fatalf("第 %d 个节点应为 %s 的间距，实际 %T %s", i, tt.space, out.Children[i], out.Children[i].Width())
				}
			}
		})
	}
}

// TestSFNTDelimiterKeepsBaseGlyph 断言 SFNT 字体没有变体链时使用基本字形并记录尺寸不足。
func TestSFNTDelimiterKeepsBaseGlyph(t *testing.T) {
	data, err := fonts.Load("lmmath")
	if err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	lm, err := metrics.ParseSFNT("lmmath", data, layout.Pt(10))
	if err != nil {
		t.Fatalf("解析字体失败: %v", err)
	}
	if _, ok := any(lm).(metrics.Successor); ok {
		t.Fatalf("SFNTFont 不提供变体链")
	}
	fams := testFamilies()
	fams[famExt] = FamilyFonts{Text: lm, Script: lm, ScriptScript: lm}
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := NewContext(Text, fams, DefaultParams())
	ctx.Logger = zap.New(core)

	spec := DelimSpec{SmallFamily: famExt, Small: '('}
	n := NewDelimiter(Left, spec, nil, rawRule(1, 40, 10))
	out, err := Convert([]*Noad{n}, ctx)
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if glyphOf(t, out.Children[0]) != '(' {
		t.Fatalf("应使用基本字形")
	}
	sized := logs.FilterMessage("delimiter sized").All()
	if len(sized) != 1 || sized[0].ContextMap()["large_enough"] != false {
		t.Fatalf("应记录字形尺寸不足: %+v", sized)
	}
}
