// ABOUTME: Null-skipping mean accumulator and decimal rounding helpers.
// ABOUTME: Rounding is decimal-correct so 0.25 rounds to 0.2, not 0.3.
package analytics

import "strconv"

// mean accumulates a running average, skipping null values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m *mean) addValue(v float64) {
	m.sum += v
	m.n++
}

// value returns the mean, or nil when nothing was added.
func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

// round1 rounds to one decimal place from the exact binary value,
// breaking exact ties to even.
func round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}
