package forecast

// lcg is the seeded pseudo-random generator used by the discretionary and
// variable-income schedulers. The formula is part of the output contract:
// any implementation producing this forecast must use the same constants,
// so forecasts are byte-identical across runtimes for the same seed.
//
//	state = (state*1664525 + 1013904223) mod 2^32
type lcg struct {
	state uint32
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed}
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *lcg) Float64() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / 4294967296.0
}

// Intn returns a value in [0, n). n must be positive.
func (r *lcg) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Norm approximates a standard normal draw as the sum of three uniforms,
// centered and scaled to unit variance.
func (r *lcg) Norm() float64 {
	sum := r.Float64() + r.Float64() + r.Float64()
	return (sum - 1.5) * 2
}

// dateSeed derives the scheduler seed from the analysis date, so forecasts
// are stable within a calendar day and vary across days.
func dateSeed(y int, m int, d int) uint32 {
	return uint32(y*10000 + m*100 + d)
}
