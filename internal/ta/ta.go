// Package ta implements the indicator math the bot consumes. All series
// functions return a slice aligned with their input; positions inside an
// indicator's warm-up window hold NaN.
package ta

import "math"

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA returns the simple moving average over the trailing n values.
func SMA(vals []float64, n int) []float64 {
	out := nans(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= n {
			sum -= vals[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMA returns the exponential moving average with the given span, seeded
// with the simple average of the first span values.
func EMA(vals []float64, span int) []float64 {
	out := nans(len(vals))
	if span <= 0 || len(vals) < span {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	sum := 0.0
	for i := 0; i < span; i++ {
		sum += vals[i]
	}
	out[span-1] = sum / float64(span)
	for i := span; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index.
func RSI(closes []float64, period int) []float64 {
	out := nans(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	gain, loss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// ATR returns the Wilder-smoothed average true range.
func ATR(highs, lows, closes []float64, period int) []float64 {
	out := nans(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
	}
	atr := sum / float64(period)
	out[period] = atr
	for i := period + 1; i < len(closes); i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
		out[i] = atr
	}
	return out
}

// MACDHist returns the MACD histogram (MACD line minus its signal line)
// for the standard fast/slow/signal spans.
func MACDHist(closes []float64, fast, slow, signal int) []float64 {
	out := nans(len(closes))
	if len(closes) < slow+signal {
		return out
	}
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	macd := nans(len(closes))
	for i := range closes {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}
	sig := emaSkipNaN(macd, signal)
	for i := range closes {
		if !math.IsNaN(macd[i]) && !math.IsNaN(sig[i]) {
			out[i] = macd[i] - sig[i]
		}
	}
	return out
}

// emaSkipNaN is EMA over a series with a NaN warm-up prefix.
func emaSkipNaN(vals []float64, span int) []float64 {
	out := nans(len(vals))
	start := -1
	for i, v := range vals {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start < 0 || len(vals)-start < span {
		return out
	}
	sub := EMA(vals[start:], span)
	copy(out[start:], sub)
	return out
}

// ADX returns the Wilder average directional index. Values are defined
// from index 2*period onward.
func ADX(highs, lows, closes []float64, period int) []float64 {
	out := nans(len(closes))
	if period <= 0 || len(closes) < 2*period+1 {
		return out
	}
	n := len(closes)
	var trSum, plusSum, minusSum float64
	trS := make([]float64, n)
	plusS := make([]float64, n)
	minusS := make([]float64, n)
	dx := nans(n)

	for i := 1; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		plusDM, minusDM := 0.0, 0.0
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}
		tr := trueRange(highs[i], lows[i], closes[i-1])

		if i <= period {
			trSum += tr
			plusSum += plusDM
			minusSum += minusDM
			if i == period {
				trS[i], plusS[i], minusS[i] = trSum, plusSum, minusSum
			}
		} else {
			trS[i] = trS[i-1] - trS[i-1]/float64(period) + tr
			plusS[i] = plusS[i-1] - plusS[i-1]/float64(period) + plusDM
			minusS[i] = minusS[i-1] - minusS[i-1]/float64(period) + minusDM
		}
		if i >= period && trS[i] > 0 {
			plusDI := 100.0 * plusS[i] / trS[i]
			minusDI := 100.0 * minusS[i] / trS[i]
			if sum := plusDI + minusDI; sum > 0 {
				dx[i] = 100.0 * math.Abs(plusDI-minusDI) / sum
			} else {
				dx[i] = 0
			}
		}
	}

	sum := 0.0
	for i := period + 1; i <= 2*period; i++ {
		sum += dx[i]
	}
	adx := sum / float64(period)
	out[2*period] = adx
	for i := 2*period + 1; i < n; i++ {
		adx = (adx*float64(period-1) + dx[i]) / float64(period)
		out[i] = adx
	}
	return out
}

// Stochastic returns the slow %K and %D lines: raw %K over kPeriod bars,
// smoothed by kSmooth, with %D an SMA of %K over dPeriod.
func Stochastic(highs, lows, closes []float64, kPeriod, kSmooth, dPeriod int) (k, d []float64) {
	n := len(closes)
	raw := nans(n)
	for i := kPeriod - 1; i < n; i++ {
		hi, lo := highs[i], lows[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if highs[j] > hi {
				hi = highs[j]
			}
			if lows[j] < lo {
				lo = lows[j]
			}
		}
		if hi == lo {
			raw[i] = 50.0
		} else {
			raw[i] = 100.0 * (closes[i] - lo) / (hi - lo)
		}
	}
	k = smaSkipNaN(raw, kSmooth)
	d = smaSkipNaN(k, dPeriod)
	return k, d
}

func smaSkipNaN(vals []float64, n int) []float64 {
	out := nans(len(vals))
	start := -1
	for i, v := range vals {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start < 0 || len(vals)-start < n {
		return out
	}
	sub := SMA(vals[start:], n)
	copy(out[start:], sub)
	return out
}

// BollingerPosition returns where the close sits inside the n-period,
// k-sigma band: 0 at the lower band, 1 at the upper band.
func BollingerPosition(closes []float64, n int, k float64) []float64 {
	out := nans(len(closes))
	if n <= 0 || len(closes) < n {
		return out
	}
	mid := SMA(closes, n)
	for i := n - 1; i < len(closes); i++ {
		s := 0.0
		for j := i - n + 1; j <= i; j++ {
			d := closes[j] - mid[i]
			s += d * d
		}
		sd := math.Sqrt(s / float64(n))
		if sd == 0 {
			out[i] = 0.5
			continue
		}
		lower := mid[i] - k*sd
		out[i] = (closes[i] - lower) / (2 * k * sd)
	}
	return out
}

// VolumeRatio returns volume relative to its trailing n-bar average.
// NaN where the average is undefined or zero (volume-less feeds).
func VolumeRatio(vols []float64, n int) []float64 {
	out := nans(len(vols))
	avg := SMA(vols, n)
	for i := range vols {
		if !math.IsNaN(avg[i]) && avg[i] > 0 {
			out[i] = vols[i] / avg[i]
		}
	}
	return out
}
