package analysis

import "math"

// Mean calculates the arithmetic mean
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stddev calculates population standard deviation
func Stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Pearson calculates the Pearson correlation coefficient of two equal-length
// series. Returns 0 when either series has zero variance.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	meanA := Mean(a)
	meanB := Mean(b)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}

	return cov / math.Sqrt(varA*varB)
}

// Regression is the result of an ordinary least-squares fit of values
// against their row index.
type Regression struct {
	Slope     float64
	Intercept float64
	R         float64 // Pearson r between index and value
}

// LinearRegression fits values against row index 0..n-1
func LinearRegression(values []float64) Regression {
	n := len(values)
	if n < 2 {
		return Regression{}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	meanX := Mean(x)
	meanY := Mean(values)

	var cov, varX float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		cov += dx * (values[i] - meanY)
		varX += dx * dx
	}

	if varX == 0 {
		return Regression{Intercept: meanY}
	}

	slope := cov / varX
	return Regression{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
		R:         Pearson(x, values),
	}
}

// PercentChange computes (last-first)/|first|*100, 0 when first is zero
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return (last - first) / math.Abs(first) * 100
}

// ClampFloat64 constrains a value to a range
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
