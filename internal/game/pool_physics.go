package game

import (
	"fmt"
	"math"
)

// Distance returns the gap between rolling ball a and object b under the
// default parameters. A negative result means they overlap.
func Distance(a, b Object) (float64, error) {
	return DefaultParams().Distance(a, b)
}

// Distance returns the gap between rolling ball a and object b.
func (p Params) Distance(a, b Object) (float64, error) {
	if isNil(a) || isNil(b) {
		return 0, ErrNilObject
	}
	ball, ok := a.(*RollingBall)
	if !ok {
		return 0, ErrNotRollingBall
	}

	switch o := b.(type) {
	case *RollingBall:
		return Length(Sub(o.Pos, ball.Pos)) - p.BallDiameter(), nil
	case *StillBall:
		return Length(Sub(o.Pos, ball.Pos)) - p.BallDiameter(), nil
	case *Hole:
		return Length(Sub(o.Pos, ball.Pos)) - p.HoleRadius, nil
	case *HCushion:
		return math.Abs(ball.Pos.Y-o.Y) - p.BallRadius, nil
	case *VCushion:
		return math.Abs(ball.Pos.X-o.X) - p.BallRadius, nil
	default:
		return 0, ErrUnknownObject
	}
}

// Roll advances dst to where src would be after t seconds of constant
// acceleration. src is read only. An axis whose velocity changes sign is
// brought to rest: its velocity and acceleration in dst become zero. Drag
// never starts motion: an axis whose acceleration does not oppose its
// velocity moves at its old velocity and is then brought to rest the same way.
func Roll(dst, src *RollingBall, t float64) error {
	if dst == nil || src == nil {
		return ErrNilObject
	}
	if dst == src {
		return ErrAliasedState
	}

	oldPos, oldVel, oldAcc := src.Pos, src.Vel, src.Acc

	dst.Pos.X, dst.Vel.X, dst.Acc.X = rollAxis(oldPos.X, oldVel.X, oldAcc.X, t)
	dst.Pos.Y, dst.Vel.Y, dst.Acc.Y = rollAxis(oldPos.Y, oldVel.Y, oldAcc.Y, t)
	return nil
}

func rollAxis(pos, vel, acc, t float64) (float64, float64, float64) {
	if acc != 0 && vel*acc >= 0 {
		return pos + vel*t, 0, 0
	}
	newPos := pos + vel*t + 0.5*acc*t*t
	newVel := vel + acc*t
	if vel*newVel < 0 {
		return newPos, 0, 0
	}
	return newPos, newVel, acc
}

// Stopped converts the rolling ball in slot i to a still ball when its speed
// has dropped below the stop epsilon, and reports whether it did.
func (t *Table) Stopped(i int) (bool, error) {
	obj, err := t.Object(i)
	if err != nil {
		return false, err
	}
	if obj == nil {
		return false, ErrNilObject
	}
	ball, ok := obj.(*RollingBall)
	if !ok {
		return false, ErrNotRollingBall
	}

	if Length(ball.Vel) >= t.Params.VelEpsilon {
		return false, nil
	}
	t.Objects[i] = ball.Rest()
	return true, nil
}

// Bounce resolves a collision between the rolling ball in slot i and the
// object in slot j.
func (t *Table) Bounce(i, j int) error {
	if i == j {
		return ErrSameSlot
	}
	a, err := t.Object(i)
	if err != nil {
		return err
	}
	b, err := t.Object(j)
	if err != nil {
		return err
	}
	if a == nil || b == nil {
		return ErrNilObject
	}
	ball, ok := a.(*RollingBall)
	if !ok {
		return ErrNotRollingBall
	}

	switch other := b.(type) {
	case *HCushion:
		ball.Vel.Y = -ball.Vel.Y
		ball.Acc.Y = -ball.Acc.Y
		return nil
	case *VCushion:
		ball.Vel.X = -ball.Vel.X
		ball.Acc.X = -ball.Acc.X
		return nil
	case *Hole:
		t.Objects[i] = nil
		return nil
	case *StillBall:
		// The struck ball starts from rest and then takes its share of the
		// impact like any other rolling ball.
		if Length(Sub(ball.Pos, other.Pos)) == 0 {
			return ErrDegenerateCollision
		}
		rolling := other.Roll()
		t.Objects[j] = rolling
		return t.collide(ball, rolling)
	case *RollingBall:
		return t.collide(ball, other)
	default:
		return fmt.Errorf("bounce against slot %d: %w", j, ErrUnknownObject)
	}
}

// collide exchanges the line-of-centres component of velocity between two
// equal-mass balls, then re-aims drag against each new velocity.
func (t *Table) collide(a, b *RollingBall) error {
	rab := Sub(a.Pos, b.Pos)
	dist := Length(rab)
	if dist == 0 {
		return ErrDegenerateCollision
	}

	n := rab.Scale(1 / dist)
	vn := Dot(Sub(a.Vel, b.Vel), n)

	a.Vel = a.Vel.Sub(n.Scale(vn))
	b.Vel = b.Vel.Add(n.Scale(vn))

	t.applyDrag(a)
	t.applyDrag(b)
	return nil
}

func (t *Table) applyDrag(b *RollingBall) {
	speed := Length(b.Vel)
	if speed > t.Params.VelEpsilon {
		b.Acc = b.Vel.Scale(-t.Params.Drag / speed)
	}
}

// Segment simulates forward from t until the first stop or collision and
// returns the resulting table. t itself is not modified.
//
// Every step re-integrates each rolling ball from its state in t over the
// total time elapsed so far. Events are taken in slot order, and a stop is
// checked before collisions of the same ball. If nothing happens before
// MaxTime the copy is returned with its clock advanced.
func (t *Table) Segment() (*Table, error) {
	if t.Rolling() == 0 {
		return nil, ErrNoRollingBalls
	}
	if err := t.Params.Validate(); err != nil {
		return nil, err
	}

	next := t.Copy()
	elapsed := t.Params.SimRate

	for elapsed < t.Params.MaxTime {
		for i := range next.Objects {
			ball, ok := next.Objects[i].(*RollingBall)
			if !ok || ball == nil {
				continue
			}
			src, ok := t.Objects[i].(*RollingBall)
			if !ok {
				return nil, fmt.Errorf("slot %d: %w", i, ErrNotRollingBall)
			}
			if err := Roll(ball, src, elapsed); err != nil {
				return nil, fmt.Errorf("roll slot %d: %w", i, err)
			}
		}

		for j := range next.Objects {
			if b, ok := next.Objects[j].(*RollingBall); !ok || b == nil {
				continue
			}

			stopped, err := next.Stopped(j)
			if err != nil {
				return nil, err
			}
			if stopped {
				next.Time += elapsed
				return next, nil
			}

			for k := range next.Objects {
				other := next.Objects[k]
				if k == j || isNil(other) {
					continue
				}
				d, err := next.Params.Distance(next.Objects[j], other)
				if err != nil {
					return nil, fmt.Errorf("distance %d-%d: %w", j, k, err)
				}
				if d < 0 {
					if err := next.Bounce(j, k); err != nil {
						return nil, fmt.Errorf("bounce %d-%d: %w", j, k, err)
					}
					next.Time += elapsed
					return next, nil
				}
			}
		}

		elapsed += t.Params.SimRate
	}

	next.Time += elapsed
	return next, nil
}
