package gage

// welford accumulates a running mean and second moment. A constant stream
// keeps delta at exactly zero, so its variance stays exactly zero.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) update(value float64) {
	w.count++
	delta := value - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (value - w.mean)
}

// popVariance is the ddof = 0 variance, 0 for fewer than 2 values
func (w *welford) popVariance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count)
}

func popVariance(values []float64) float64 {
	var w welford
	for _, v := range values {
		w.update(v)
	}
	return w.popVariance()
}
