package scale

import (
	"fmt"

	"github.com/aclements/go-moremath/scale"
)

// Range is the pixel interval a scale maps to. Low may exceed High for an
// inverted axis.
type Range struct {
	Low  float64
	High float64
}

// Scale is a linear mapping from a mutable domain to a fixed range.
type Scale struct {
	lin scale.Linear
	rng Range
}

// New returns a scale over d and r.
func New(d Domain, r Range) *Scale {
	return &Scale{
		lin: scale.Linear{Min: d.Min, Max: d.Max},
		rng: r,
	}
}

// Map converts a data value to a pixel position.
func (s *Scale) Map(v float64) float64 {
	return s.rng.Low + s.lin.Map(v)*(s.rng.High-s.rng.Low)
}

// Domain returns the current domain.
func (s *Scale) Domain() Domain {
	return Domain{Min: s.lin.Min, Max: s.lin.Max}
}

// SetDomain replaces the domain in place.
func (s *Scale) SetDomain(d Domain) {
	s.lin.Min, s.lin.Max = d.Min, d.Max
}

// Range returns the pixel range.
func (s *Scale) Range() Range {
	return s.rng
}

// Clone returns an independent copy.
func (s *Scale) Clone() *Scale {
	c := *s
	return &c
}

// Ticks returns at most n major tick values within the domain.
func (s *Scale) Ticks(n int) []float64 {
	return Ticks(s.Domain(), n)
}

func (s *Scale) String() string {
	return fmt.Sprintf("linear [%g,%g] => [%g,%g]", s.lin.Min, s.lin.Max, s.rng.Low, s.rng.High)
}

// Ticks returns at most n major tick values for d.
func Ticks(d Domain, n int) []float64 {
	if !d.Finite() || d.Min >= d.Max || n < 1 {
		return nil
	}
	lin := scale.Linear{Min: d.Min, Max: d.Max}
	major, _ := lin.Ticks(scale.TickOptions{Max: n})
	out := major[:0:0]
	for _, v := range major {
		if d.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
