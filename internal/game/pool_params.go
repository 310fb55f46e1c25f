package game

import "fmt"

// Params holds the tunable physics of a table. The zero value is not usable;
// start from DefaultParams.
type Params struct {
	BallRadius float64 `json:"ball_radius" yaml:"ball_radius"`
	HoleRadius float64 `json:"hole_radius" yaml:"hole_radius"`
	SimRate    float64 `json:"sim_rate" yaml:"sim_rate"`
	VelEpsilon float64 `json:"vel_epsilon" yaml:"vel_epsilon"`
	Drag       float64 `json:"drag" yaml:"drag"`
	MaxTime    float64 `json:"max_time" yaml:"max_time"`
}

func DefaultParams() Params {
	return Params{
		BallRadius: BallRadius,
		HoleRadius: HoleRadius,
		SimRate:    SimRate,
		VelEpsilon: VelEpsilon,
		Drag:       Drag,
		MaxTime:    MaxTime,
	}
}

// BallDiameter is the centre distance at which two balls touch.
func (p Params) BallDiameter() float64 {
	return 2 * p.BallRadius
}

// Validate rejects parameter sets the segment driver cannot run with.
func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"ball_radius", p.BallRadius},
		{"hole_radius", p.HoleRadius},
		{"sim_rate", p.SimRate},
		{"vel_epsilon", p.VelEpsilon},
		{"drag", p.Drag},
		{"max_time", p.MaxTime},
	}
	for _, c := range checks {
		if !(c.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, c.name, c.value)
		}
	}
	if p.MaxTime <= p.SimRate {
		return fmt.Errorf("%w: max_time (%v) must exceed sim_rate (%v)", ErrInvalidParams, p.MaxTime, p.SimRate)
	}
	return nil
}
