package layout

import "fmt"

// Order 表示伸缩的阶：Normal 为有限量，Fil/Fill/Filll 为逐级更高的无穷。
type Order uint8

const (
	Normal Order = iota
	Fil
	Fill
	Filll
)

// NumOrders 是阶的个数，用于 WideGlue 的分桶。
const NumOrders = 4

func (o Order) String() string {
	switch o {
	case Normal:
		return ""
	case Fil:
		return "fil"
	case Fill:
		return "fill"
	case Filll:
		return "filll"
	default:
		return fmt.Sprintf("order(%d)", uint8(o))
	}
}

// Elastic 是带阶的伸缩量。
type Elastic struct {
	Amount Scaled `json:"amount"`
	Order  Order  `json:"order"`
}

// Add 合并两个伸缩量：同阶相加，不同阶时高阶量完全支配低阶量。
func (e Elastic) Add(o Elastic) Elastic {
	switch {
	case o.Amount == 0:
		return e
	case e.Amount == 0:
		return o
	case e.Order == o.Order:
		return Elastic{Amount: e.Amount + o.Amount, Order: e.Order}
	case o.Order > e.Order:
		return o
	default:
		return e
	}
}

func (e Elastic) compare(o Elastic) int {
	if e.Order != o.Order {
		if e.Order < o.Order {
			return -1
		}
		return 1
	}
	return cmpScaled(e.Amount, o.Amount)
}

// Glue 是自然长度加上独立的伸长与收缩量。构造后按值传递，不可变。
type Glue struct {
	Natural Scaled  `json:"natural"`
	Stretch Elastic `json:"stretch"`
	Shrink  Elastic `json:"shrink"`
}

// FixedGlue 由普通长度构造一个没有弹性的 Glue。
func FixedGlue(s Scaled) Glue { return Glue{Natural: s} }

// NewGlue 构造有限阶的 Glue。
func NewGlue(natural, stretch, shrink Scaled) Glue {
	return Glue{Natural: natural, Stretch: Elastic{Amount: stretch}, Shrink: Elastic{Amount: shrink}}
}

func (g Glue) IsZero() bool {
	return g.Natural == 0 && g.Stretch.Amount == 0 && g.Shrink.Amount == 0
}

// IsFixed 表示没有任何伸缩能力。
func (g Glue) IsFixed() bool { return g.Stretch.Amount == 0 && g.Shrink.Amount == 0 }

func (g Glue) Add(o Glue) Glue {
	return Glue{
		Natural: g.Natural + o.Natural,
		Stretch: g.Stretch.Add(o.Stretch),
		Shrink:  g.Shrink.Add(o.Shrink),
	}
}

func (g Glue) Negate() Glue {
	return Glue{
		Natural: -g.Natural,
		Stretch: Elastic{Amount: -g.Stretch.Amount, Order: g.Stretch.Order},
		Shrink:  Elastic{Amount: -g.Shrink.Amount, Order: g.Shrink.Order},
	}
}

// Compare 依次比较自然长度、伸长、收缩，返回 -1/0/1。
func (g Glue) Compare(o Glue) int {
	if c := cmpScaled(g.Natural, o.Natural); c != 0 {
		return c
	}
	if c := g.Stretch.compare(o.Stretch); c != 0 {
		return c
	}
	return g.Shrink.compare(o.Shrink)
}

// Max 返回较大的一方（按 Compare）。
func (g Glue) Max(o Glue) Glue {
	if o.Compare(g) > 0 {
		return o
	}
	return g
}

// WithNatural 返回只替换自然长度的副本。
func (g Glue) WithNatural(s Scaled) Glue {
	g.Natural = s
	return g
}

// Scale 将各分量乘以 n/d，用于 mu 单位换算。
func (g Glue) Scale(n, d Scaled) Glue {
	return Glue{
		Natural: MulDiv(g.Natural, n, d),
		Stretch: Elastic{Amount: stretchScale(g.Stretch, n, d), Order: g.Stretch.Order},
		Shrink:  Elastic{Amount: stretchScale(g.Shrink, n, d), Order: g.Shrink.Order},
	}
}

// 无穷阶的量与字体尺寸无关，不参与换算。
func stretchScale(e Elastic, n, d Scaled) Scaled {
	if e.Order != Normal {
		return e.Amount
	}
	return MulDiv(e.Amount, n, d)
}

func (g Glue) String() string {
	s := g.Natural.String()
	if g.Stretch.Amount != 0 {
		s += " plus " + elasticString(g.Stretch)
	}
	if g.Shrink.Amount != 0 {
		s += " minus " + elasticString(g.Shrink)
	}
	return s
}

func elasticString(e Elastic) string {
	if e.Order == Normal {
		return e.Amount.String()
	}
	return fmt.Sprintf("%g%s", e.Amount.Points(), e.Order)
}

// WideGlue 是打包时使用的累加器：自然长度之和以及按阶分桶的伸缩总量。
type WideGlue struct {
	Natural Scaled
	Stretch [NumOrders]Scaled
	Shrink  [NumOrders]Scaled
}

// Add 把一个 Glue 折入累加器；伸长与收缩各自只落入一个桶。
func (w *WideGlue) Add(g Glue) {
	w.Natural += g.Natural
	w.Stretch[g.Stretch.Order] += g.Stretch.Amount
	w.Shrink[g.Shrink.Order] += g.Shrink.Amount
}

// StretchOrder 返回伸长总量非零的最高阶，全为零时为 Normal。
func (w *WideGlue) StretchOrder() Order { return highestOrder(w.Stretch) }

// ShrinkOrder 返回收缩总量非零的最高阶，全为零时为 Normal。
func (w *WideGlue) ShrinkOrder() Order { return highestOrder(w.Shrink) }

// Glue 将累加器折叠为普通 Glue，只保留主导阶。
func (w *WideGlue) Glue() Glue {
	so, ko := w.StretchOrder(), w.ShrinkOrder()
	return Glue{
		Natural: w.Natural,
		Stretch: Elastic{Amount: w.Stretch[so], Order: so},
		Shrink:  Elastic{Amount: w.Shrink[ko], Order: ko},
	}
}

func highestOrder(totals [NumOrders]Scaled) Order {
	for o := Filll; o > Normal; o-- {
		if totals[o] != 0 {
			return o
		}
	}
	return Normal
}

func cmpScaled(a, b Scaled) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
