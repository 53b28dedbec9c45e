package forecast

// EMA is an online exponential moving average. The zero value is unusable;
// construct with NewEMA.
type EMA struct {
	alpha  float64
	level  float64
	seeded bool
}

// NewEMA creates an EMA with the given smoothing factor in (0, 1].
// Higher alpha weights recent observations more heavily.
func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha}
}

// Update folds an observation into the average and returns the new level.
// The first observation seeds the level directly.
func (e *EMA) Update(y float64) float64 {
	if !e.seeded {
		e.level = y
		e.seeded = true
		return e.level
	}
	e.level = e.alpha*y + (1-e.alpha)*e.level
	return e.level
}

// Predict returns the current level. The boolean is false until the first
// Update has seeded the average.
func (e *EMA) Predict() (float64, bool) {
	return e.level, e.seeded
}

// Kalman1D is a scalar Kalman filter for smoothing a single noisy signal.
// Q is the process noise variance, R the measurement noise variance.
type Kalman1D struct {
	q, r   float64
	x, p   float64
	seeded bool
}

// NewKalman1D creates a filter with the given noise variances.
func NewKalman1D(q, r float64) *Kalman1D {
	return &Kalman1D{q: q, r: r}
}

// Update folds measurement z into the estimate and returns it.
// The first measurement seeds the state with unit covariance.
func (k *Kalman1D) Update(z float64) float64 {
	if !k.seeded {
		k.x = z
		k.p = 1
		k.seeded = true
		return k.x
	}

	// Predict.
	k.p += k.q

	// Update.
	gain := k.p / (k.p + k.r)
	k.x += gain * (z - k.x)
	k.p *= 1 - gain

	return k.x
}

// Estimate returns the current state estimate. The boolean is false until
// the first Update.
func (k *Kalman1D) Estimate() (float64, bool) {
	return k.x, k.seeded
}
