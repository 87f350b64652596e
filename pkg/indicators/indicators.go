// Package indicators computes chart overlays using cinar/indicator.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

// DefaultSMAPeriod is the SMA window drawn on charts.
const DefaultSMAPeriod = 20

// Series indicator values aligned to the source series.
type Series struct {
	// Values holds one value per source point starting at Offset.
	Values []float64
	// Offset is the index of the first source point that has a value.
	Offset int
}

// At returns the value for the source index i.
func (s Series) At(i int) (float64, bool) {
	j := i - s.Offset
	if j < 0 || j >= len(s.Values) {
		return 0, false
	}
	return s.Values[j], true
}

// Len returns the number of computed values.
func (s Series) Len() int {
	return len(s.Values)
}

// CalculateSMA calculates the Simple Moving Average for the given period.
// It fails when there are fewer points than the period.
func CalculateSMA(closes []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, fmt.Errorf("invalid SMA period %d", period)
	}
	if len(closes) < period {
		return Series{}, fmt.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(closes)))

	return Series{Values: out, Offset: len(closes) - len(out)}, nil
}

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(closes []float64, period int) (Series, error) {
	if period <= 0 {
		return Series{}, fmt.Errorf("invalid EMA period %d", period)
	}
	if len(closes) < period {
		return Series{}, fmt.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	out := helper.ChanToSlice(ema.Compute(helper.SliceToChan(closes)))

	return Series{Values: out, Offset: len(closes) - len(out)}, nil
}
