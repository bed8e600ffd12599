package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthScaled 覆盖常见单位到 sp 的换算。
func TestLengthScaled(t *testing.T) {
	cases := []struct {
		in   string
		want Scaled
	}{
		{"1pt", Unity},
		{"1.5pt", 3 * Unity / 2},
		{"-2pt", -2 * Unity},
		{"65536sp", Unity},
		{"72.27pt", Pt(72.27)},
		{"1in", Pt(72.27)},
		{"2.54cm", Pt(72.27)},
		{"25.4mm", Pt(72.27)},
		{"72bp", Pt(72.27)},
		{"18mu", 18 * Unity},
		{"3", 3 * Unity},
	}
	for _, c := range cases {
		got, err := ParseScaled(c.in)
		if err != nil {
			t.Fatalf("%s 解析失败: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%s 期望 %d sp，实际 %d sp", c.in, c.want, got)
		}
	}
}

func TestParseScaledRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "pt", "abc", "1..2pt"} {
		if _, err := ParseScaled(in); err == nil {
			t.Fatalf("%q 应当解析失败", in)
		}
	}
}

// TestHalf 与 TeX 的 half() 一致：奇数向远离零方向取整。
func TestHalf(t *testing.T) {
	cases := map[Scaled]Scaled{0: 0, 2: 1, 3: 2, 24 * Unity: 12 * Unity}
	for in, want := range cases {
		if got := Half(in); got != want {
			t.Fatalf("Half(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestScaledString(t *testing.T) {
	if got := (3 * Unity / 2).String(); got != "1.5pt" {
		t.Fatalf("期望 1.5pt，实际 %s", got)
	}
}

func TestLengthStringKeepsUnit(t *testing.T) {
	l, err := ParseRawLength("-3MU")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got := l.String(); got != "-3mu" {
		t.Fatalf("期望 -3mu，实际 %s", got)
	}
}
