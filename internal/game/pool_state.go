package game

import "fmt"

// ObjectState is the serialisable form of one occupied slot.
type ObjectState struct {
	Slot   int     `json:"slot" csv:"slot"`
	Kind   string  `json:"kind" csv:"kind"`
	Number int     `json:"number,omitempty" csv:"number"`
	X      float64 `json:"x" csv:"x"`
	Y      float64 `json:"y" csv:"y"`
	VX     float64 `json:"vx,omitempty" csv:"vx"`
	VY     float64 `json:"vy,omitempty" csv:"vy"`
	AX     float64 `json:"ax,omitempty" csv:"ax"`
	AY     float64 `json:"ay,omitempty" csv:"ay"`
}

// TableSnapshot is the serialisable form of a table. Empty slots are omitted.
type TableSnapshot struct {
	Time    float64       `json:"time"`
	Params  Params        `json:"params"`
	Objects []ObjectState `json:"objects"`
}

// Snapshot captures the table state.
func (t *Table) Snapshot() TableSnapshot {
	s := TableSnapshot{Time: t.Time, Params: t.Params, Objects: make([]ObjectState, 0, MaxObjects)}
	for i, obj := range t.Objects {
		if isNil(obj) {
			continue
		}
		st := ObjectState{Slot: i, Kind: obj.Kind().String()}
		switch v := obj.(type) {
		case *StillBall:
			st.Number, st.X, st.Y = v.Number, v.Pos.X, v.Pos.Y
		case *RollingBall:
			st.Number, st.X, st.Y = v.Number, v.Pos.X, v.Pos.Y
			st.VX, st.VY, st.AX, st.AY = v.Vel.X, v.Vel.Y, v.Acc.X, v.Acc.Y
		case *Hole:
			st.X, st.Y = v.Pos.X, v.Pos.Y
		case *HCushion:
			st.Y = v.Y
		case *VCushion:
			st.X = v.X
		}
		s.Objects = append(s.Objects, st)
	}
	return s
}

// Balls returns only the ball entries of the snapshot.
func (s TableSnapshot) Balls() []ObjectState {
	balls := make([]ObjectState, 0, NumBalls)
	for _, o := range s.Objects {
		if o.Kind == KindStillBall.String() || o.Kind == KindRollingBall.String() {
			balls = append(balls, o)
		}
	}
	return balls
}

// FromSnapshot rebuilds a table. Slots must be in range and unique.
// A zero Params value is replaced by DefaultParams.
func FromSnapshot(s TableSnapshot) (*Table, error) {
	t := &Table{Time: s.Time, Params: s.Params}
	if t.Params == (Params{}) {
		t.Params = DefaultParams()
	}
	if err := t.Params.Validate(); err != nil {
		return nil, err
	}

	for _, st := range s.Objects {
		if st.Slot < 0 || st.Slot >= MaxObjects {
			return nil, fmt.Errorf("%w: slot %d out of range", ErrInvalidSnapshot, st.Slot)
		}
		if t.Objects[st.Slot] != nil {
			return nil, fmt.Errorf("%w: slot %d used twice", ErrInvalidSnapshot, st.Slot)
		}
		obj, err := st.object()
		if err != nil {
			return nil, err
		}
		t.Objects[st.Slot] = obj
	}
	return t, nil
}

func (st ObjectState) object() (Object, error) {
	kind, ok := ParseKind(st.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: slot %d has kind %q", ErrInvalidSnapshot, st.Slot, st.Kind)
	}
	switch kind {
	case KindStillBall:
		return NewStillBall(st.Number, Coord{st.X, st.Y}), nil
	case KindRollingBall:
		return &RollingBall{
			Number: st.Number,
			Pos:    Coord{st.X, st.Y},
			Vel:    Coord{st.VX, st.VY},
			Acc:    Coord{st.AX, st.AY},
		}, nil
	case KindHole:
		return NewHole(Coord{st.X, st.Y}), nil
	case KindHCushion:
		return NewHCushion(st.Y), nil
	case KindVCushion:
		return NewVCushion(st.X), nil
	}
	return nil, ErrUnknownObject
}

// FrameRow is one ball in one frame of a recorded shot.
type FrameRow struct {
	Frame  int     `csv:"frame"`
	Time   float64 `csv:"time"`
	Number int     `csv:"number"`
	Kind   string  `csv:"kind"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	VX     float64 `csv:"vx"`
	VY     float64 `csv:"vy"`
}

// FrameRows flattens frames into one row per ball.
func FrameRows(frames []*Table) []FrameRow {
	var rows []FrameRow
	for i, f := range frames {
		for _, b := range f.Snapshot().Balls() {
			rows = append(rows, FrameRow{
				Frame:  i,
				Time:   f.Time,
				Number: b.Number,
				Kind:   b.Kind,
				X:      b.X,
				Y:      b.Y,
				VX:     b.VX,
				VY:     b.VY,
			})
		}
	}
	return rows
}
