package analytics

import "math"

// pearson computes the Pearson correlation coefficient of two equal-length
// sequences. Returns ok == false when either column has zero variance or
// fewer than two samples.
func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}

	var sumX, sumY, sumXSq, sumYSq, sumXY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXSq += x[i] * x[i]
		sumYSq += y[i] * y[i]
		sumXY += x[i] * y[i]
	}

	num := sumXY - sumX*sumY/float64(n)
	den := math.Sqrt((sumXSq - sumX*sumX/float64(n)) * (sumYSq - sumY*sumY/float64(n)))
	if den == 0 || math.IsNaN(den) {
		return 0, false
	}
	return num / den, true
}

// significance computes the two-tailed p-value for a correlation r over n
// samples using a Student's-t approximation with n-2 degrees of freedom.
// Degenerate inputs (n < 3, |r| == 1) report 1 or 0 rather than NaN.
func significance(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	rr := r * r
	if rr >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-rr))
	return 2 * (1 - studentTCDF(math.Abs(t), df))
}

// studentTCDF evaluates the cumulative distribution of Student's t with df
// degrees of freedom at t >= 0, via the regularized incomplete beta function.
func studentTCDF(t, df float64) float64 {
	if t <= 0 {
		return 0.5
	}
	x := df / (df + t*t)
	return 1 - 0.5*regIncBeta(df/2, 0.5, x)
}

// regIncBeta is the regularized incomplete beta function I_x(a, b), computed
// with Lentz's continued fraction.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnBeta := lgamma(a) + lgamma(b) - lgamma(a+b)
	front := math.Exp(a*math.Log(x)+b*math.Log(1-x)-lnBeta) / a

	if x > (a+1)/(a+b+2) {
		return 1 - regIncBeta(b, a, 1-x)
	}

	const (
		maxIterations = 200
		epsilon       = 1e-12
		tiny          = 1e-30
	)
	f, c, d := 1.0, 1.0, 0.0
	for i := 0; i <= maxIterations; i++ {
		m := float64(i / 2)
		var numerator float64
		switch {
		case i == 0:
			numerator = 1
		case i%2 == 0:
			numerator = m * (b - m) * x / ((a + 2*m - 1) * (a + 2*m))
		default:
			numerator = -(a + m) * (a + b + m) * x / ((a + 2*m) * (a + 2*m + 1))
		}

		d = 1 + numerator*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		d = 1 / d

		c = 1 + numerator/c
		if math.Abs(c) < tiny {
			c = tiny
		}

		cd := c * d
		f *= cd
		if math.Abs(1-cd) < epsilon {
			break
		}
	}
	return front * (f - 1)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
