// Package analysis computes technical indicators over daily bar series.
package analysis

import (
	"log"
	"math"

	"roboadvisor_backend/services/marketdata"
)

// Indicator periods
const (
	RSIPeriod   = 14
	MACDFast    = 12
	MACDSlow    = 26
	MAPeriod    = 20
	ChartLength = 30

	// MinBars is the shortest series the engine will evaluate
	MinBars = MACDSlow
)

// IndicatorSet is the computed snapshot for one symbol
type IndicatorSet struct {
	RSI   float64   `json:"rsi"`
	MACD  float64   `json:"macd"`
	MA20  float64   `json:"ma20"`
	Chart []float64 `json:"chart"`
}

// EmptyIndicators returns the value used when indicators cannot be computed
func EmptyIndicators() IndicatorSet {
	return IndicatorSet{Chart: []float64{}}
}

// Compute evaluates RSI(14), MACD(12,26), MA20 and the 30-close chart.
// It never panics; short or degenerate input yields EmptyIndicators.
func Compute(bars []marketdata.Bar) (set IndicatorSet) {
	if len(bars) < MinBars {
		return EmptyIndicators()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] indicator computation panicked: %v", r)
			set = EmptyIndicators()
		}
	}()

	closes := ExtractCloses(bars)

	set = IndicatorSet{
		RSI:  CalculateRSI(closes, RSIPeriod),
		MACD: CalculateMACD(closes, MACDFast, MACDSlow),
		MA20: CalculateSMA(closes, MAPeriod),
	}
	if !finite(set.RSI) || !finite(set.MACD) || !finite(set.MA20) {
		log.Printf("[WARN] non-finite indicator result: rsi=%v macd=%v ma20=%v", set.RSI, set.MACD, set.MA20)
		return EmptyIndicators()
	}

	from := len(closes) - ChartLength
	if from < 0 {
		from = 0
	}
	set.Chart = make([]float64, len(closes)-from)
	copy(set.Chart, closes[from:])

	return set
}

// ExtractCloses returns the close prices in series order
func ExtractCloses(bars []marketdata.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// CalculateSMA returns the mean of the last period values, or 0 if there are fewer
func CalculateSMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// CalculateEMA returns the EMA series seeded with the first value
func CalculateEMA(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return []float64{}
	}
	k := 2.0 / float64(period+1)
	ema := make([]float64, len(values))
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = ema[i-1] + k*(values[i]-ema[i-1])
	}
	return ema
}

// CalculateMACD returns EMA(fast) - EMA(slow) at the last index
func CalculateMACD(values []float64, fast, slow int) float64 {
	if len(values) == 0 {
		return 0
	}
	f := CalculateEMA(values, fast)
	s := CalculateEMA(values, slow)
	return f[len(f)-1] - s[len(s)-1]
}

// CalculateRSI returns Wilder's RSI at the last index.
// A series with no losses reads 100.
func CalculateRSI(values []float64, period int) float64 {
	if period <= 0 || len(values) <= period {
		return 0
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		var g, l float64
		if change > 0 {
			g = change
		} else {
			l = -change
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
