// Package motion holds the deterministic math behind the page's motion
// effects: the scroll spring and the pointer-reactive filing field.
package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Spring defaults for smooth scrolling.
const (
	DefaultStiffness = 160
	DefaultDamping   = 28
	DefaultMass      = 0.28
	RestDelta        = 0.0008

	settleStep  = time.Millisecond
	settleLimit = 10 * time.Second
	minSamples  = 2
)

// Spring is a damped harmonic oscillator pulled towards 1 from rest at 0.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// DefaultSpring returns the scroll spring.
func DefaultSpring() Spring {
	return Spring{Stiffness: DefaultStiffness, Damping: DefaultDamping, Mass: DefaultMass}
}

// Position returns the progress at t seconds for a unit step.
func (s Spring) Position(t float64) float64 {
	if t <= 0 {
		return 0
	}
	w0 := math.Sqrt(s.Stiffness / s.Mass)
	zeta := s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
	switch {
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		return 1 - env*(math.Cos(wd*t)+zeta*w0/wd*math.Sin(wd*t))
	case zeta == 1:
		return 1 - math.Exp(-w0*t)*(1+w0*t)
	default:
		root := w0 * math.Sqrt(zeta*zeta-1)
		r1 := -zeta*w0 + root
		r2 := -zeta*w0 - root
		return 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}
}

// Settle returns the time after which progress stays within RestDelta of 1.
func (s Spring) Settle() time.Duration {
	last := time.Duration(0)
	for t := settleStep; t <= settleLimit; t += settleStep {
		if math.Abs(1-s.Position(t.Seconds())) >= RestDelta {
			last = t
		}
	}
	return last + settleStep
}

// Curve samples progress evenly over the settle time. The last point is 1.
func (s Spring) Curve(samples int) []float64 {
	samples = max(samples, minSamples)
	d := s.Settle().Seconds()
	out := make([]float64, samples)
	for i := range out {
		out[i] = s.Position(d * float64(i) / float64(samples-1))
	}
	out[samples-1] = 1
	return out
}

// CSSLinear renders the curve as a CSS linear() easing function.
func (s Spring) CSSLinear(samples int) string {
	points := s.Curve(samples)
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.FormatFloat(p, 'f', 4, 64)
	}
	return fmt.Sprintf("linear(%s)", strings.Join(parts, ", "))
}
