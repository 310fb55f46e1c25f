package game

import (
	"errors"
	"fmt"
)

// Launch builds a rolling ball moving at vel with drag applied against it.
// A ball slower than the stop epsilon gets no acceleration.
func (p Params) Launch(number int, pos, vel Coord) *RollingBall {
	b := &RollingBall{Number: number, Pos: pos, Vel: vel}
	if speed := Length(vel); speed > p.VelEpsilon {
		b.Acc = vel.Scale(-p.Drag / speed)
	}
	return b
}

// Strike sets the resting cue ball rolling at vel.
func (t *Table) Strike(vel Coord) error {
	i, cue, ok := t.CueBall()
	if !ok {
		return ErrNoCueBall
	}
	t.Objects[i] = t.Params.Launch(cue.Number, cue.Pos, vel)
	return nil
}

// Shot is the sequence of segments produced by one strike of the cue ball.
type Shot struct {
	Start    *Table
	Segments []*Table
}

// Final is the table once every ball has come to rest.
func (s *Shot) Final() *Table {
	if len(s.Segments) == 0 {
		return s.Start
	}
	return s.Segments[len(s.Segments)-1]
}

// Shoot strikes the cue ball on a copy of t and runs segments until no ball
// is rolling. t is not modified.
func (t *Table) Shoot(vel Coord) (*Shot, error) {
	start := t.Copy()
	if err := start.Strike(vel); err != nil {
		return nil, err
	}

	shot := &Shot{Start: start}
	cur := start
	for len(shot.Segments) < MaxSegments {
		next, err := cur.Segment()
		if errors.Is(err, ErrNoRollingBalls) {
			return shot, nil
		}
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", len(shot.Segments), err)
		}
		shot.Segments = append(shot.Segments, next)
		cur = next
	}
	if cur.Rolling() > 0 {
		return nil, ErrShotTooLong
	}
	return shot, nil
}

// RollTo returns a standard table holding the balls of t as they would be
// after dt more seconds without any collision. Still balls are copied.
// It fails with ErrTableFull when t holds more balls than a standard table
// has free slots.
func (t *Table) RollTo(dt float64) (*Table, error) {
	out := NewTableWithParams(t.Params)
	out.Time = t.Time + dt
	for i, obj := range t.Objects {
		var ball Object
		switch b := obj.(type) {
		case *RollingBall:
			if b == nil {
				continue
			}
			nb := *b
			if err := Roll(&nb, b, dt); err != nil {
				return nil, fmt.Errorf("roll slot %d: %w", i, err)
			}
			ball = &nb
		case *StillBall:
			if b == nil {
				continue
			}
			ball = NewStillBall(b.Number, b.Pos)
		default:
			continue
		}
		if _, err := out.Add(ball); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return out, nil
}

// Frames samples the shot every interval seconds, segment by segment.
func (s *Shot) Frames(interval float64) ([]*Table, error) {
	if interval <= 0 {
		interval = FrameInterval
	}
	var frames []*Table
	cur := s.Start
	for _, next := range s.Segments {
		count := int((next.Time - cur.Time) / interval)
		for f := 0; f < count; f++ {
			frame, err := cur.RollTo(float64(f) * interval)
			if err != nil {
				return nil, fmt.Errorf("frame at %.3f: %w", cur.Time+float64(f)*interval, err)
			}
			frames = append(frames, frame)
		}
		cur = next
	}
	return append(frames, cur.Copy()), nil
}
