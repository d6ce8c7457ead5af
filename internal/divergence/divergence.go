// Package divergence flags RSI/price divergence over a trailing window.
package divergence

// Kind is the divergence direction
type Kind string

const (
	None    Kind = "none"
	Bullish Kind = "bullish"
	Bearish Kind = "bearish"
)

const (
	DefaultLookback = 30
	DefaultOrder    = 5
)

// Result is the detector outcome with its descriptive pattern labels
type Result struct {
	Kind         Kind   `json:"kind"`
	Type         string `json:"divergence_type,omitempty"`
	PricePattern string `json:"price_pattern,omitempty"`
	RSIPattern   string `json:"rsi_pattern,omitempty"`
}

// Found reports whether any divergence was detected
func (r Result) Found() bool {
	return r.Kind == Bullish || r.Kind == Bearish
}

// Detector finds local extrema in the last Lookback bars. A point is an
// extremum when it is <= (lows) or >= (highs) every neighbour within Order
// bars on both sides; neighbours past the window edge are clipped to the edge.
type Detector struct {
	Lookback int
	Order    int
}

// New returns a detector with a 30-bar window and order 5
func New() *Detector {
	return &Detector{Lookback: DefaultLookback, Order: DefaultOrder}
}

// Detect compares the two most recent price lows (then highs) with RSI at
// the same positions. Bullish is checked before bearish.
func (d *Detector) Detect(prices, rsi []float64) Result {
	none := Result{Kind: None}
	if d.Lookback <= 0 || d.Order <= 0 {
		return none
	}
	if len(prices) < d.Lookback || len(rsi) < d.Lookback {
		return none
	}

	p := prices[len(prices)-d.Lookback:]
	r := rsi[len(rsi)-d.Lookback:]
	if len(p) < d.Order*2 {
		return none
	}

	priceLows := extrema(p, d.Order, lessEqual)
	rsiLows := extrema(r, d.Order, lessEqual)
	if len(priceLows) >= 2 && len(rsiLows) >= 2 {
		last, prev := priceLows[len(priceLows)-1], priceLows[len(priceLows)-2]
		if p[last] < p[prev] && r[last] > r[prev] {
			return Result{
				Kind:         Bullish,
				Type:         "Bullish Divergence",
				PricePattern: "Lower Low",
				RSIPattern:   "Higher Low",
			}
		}
	}

	priceHighs := extrema(p, d.Order, greaterEqual)
	rsiHighs := extrema(r, d.Order, greaterEqual)
	if len(priceHighs) >= 2 && len(rsiHighs) >= 2 {
		last, prev := priceHighs[len(priceHighs)-1], priceHighs[len(priceHighs)-2]
		if p[last] > p[prev] && r[last] < r[prev] {
			return Result{
				Kind:         Bearish,
				Type:         "Bearish Divergence",
				PricePattern: "Higher High",
				RSIPattern:   "Lower High",
			}
		}
	}

	return none
}

func lessEqual(a, b float64) bool    { return a <= b }
func greaterEqual(a, b float64) bool { return a >= b }

// extrema returns ascending indices i where cmp(s[i], s[j]) holds for every
// j within order of i, with j clipped into range
func extrema(s []float64, order int, cmp func(a, b float64) bool) []int {
	n := len(s)
	var out []int
	for i := 0; i < n; i++ {
		ok := true
		for k := 1; k <= order && ok; k++ {
			ok = cmp(s[i], s[clip(i+k, n)]) && cmp(s[i], s[clip(i-k, n)])
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func clip(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
