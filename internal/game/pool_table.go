package game

import "math"

// Table is a fixed-capacity set of object slots plus the simulation clock.
// Slot order is insertion order; an empty slot holds nil.
type Table struct {
	Time    float64
	Objects [MaxObjects]Object
	Params  Params
}

// NewTable creates the standard table: four cushions and six holes, no balls.
func NewTable() *Table {
	return NewTableWithParams(DefaultParams())
}

// NewTableWithParams creates the standard layout simulated under p.
// Cushion and hole positions always derive from TableLength and TableWidth.
func NewTableWithParams(p Params) *Table {
	t := &Table{Params: p}

	t.Objects[0] = NewHCushion(0)           // top
	t.Objects[1] = NewHCushion(TableLength) // bottom
	t.Objects[2] = NewVCushion(0)           // left
	t.Objects[3] = NewVCushion(TableWidth)  // right

	t.Objects[4] = NewHole(Coord{0, 0})
	t.Objects[5] = NewHole(Coord{0, TableLength / 2})
	t.Objects[6] = NewHole(Coord{0, TableLength})
	t.Objects[7] = NewHole(Coord{TableWidth, 0})
	t.Objects[8] = NewHole(Coord{TableWidth, TableLength / 2})
	t.Objects[9] = NewHole(Coord{TableWidth, TableLength})

	return t
}

// Copy returns a deep copy. No object state is shared with the receiver.
func (t *Table) Copy() *Table {
	c := &Table{Time: t.Time, Params: t.Params}
	for i, obj := range t.Objects {
		if isNil(obj) {
			continue
		}
		c.Objects[i] = obj.clone()
	}
	return c
}

// Add places obj in the first empty slot and returns that slot.
func (t *Table) Add(obj Object) (int, error) {
	if isNil(obj) {
		return -1, ErrNilObject
	}
	for i, cur := range t.Objects {
		if isNil(cur) {
			t.Objects[i] = obj
			return i, nil
		}
	}
	return -1, ErrTableFull
}

// Free releases every object. The table is empty afterwards.
func (t *Table) Free() {
	for i := range t.Objects {
		t.Objects[i] = nil
	}
}

// Object returns the object in slot i, or nil for an empty slot.
func (t *Table) Object(i int) (Object, error) {
	if i < 0 || i >= MaxObjects {
		return nil, ErrSlotOutOfRange
	}
	if isNil(t.Objects[i]) {
		return nil, nil
	}
	return t.Objects[i], nil
}

// Rolling counts the rolling balls on the table.
func (t *Table) Rolling() int {
	n := 0
	for _, obj := range t.Objects {
		if _, ok := obj.(*RollingBall); ok && !isNil(obj) {
			n++
		}
	}
	return n
}

// CueBall finds the resting cue ball.
func (t *Table) CueBall() (int, *StillBall, bool) {
	for i, obj := range t.Objects {
		if b, ok := obj.(*StillBall); ok && b != nil && b.Number == 0 {
			return i, b, true
		}
	}
	return -1, nil, false
}

// NewRackedTable returns the standard table with fifteen object balls racked
// in a triangle and the cue ball resting on the opposite half.
// Positions are fixed so every game starts identically.
func NewRackedTable() *Table {
	t := NewTable()

	spacing := BallDiameter + 4.0
	baseX := TableWidth / 2
	baseY := TableWidth / 2

	number := 15
	for row, count := range []int{5, 4, 3, 2, 1} {
		y := baseY + float64(row)*math.Sqrt(3)/2*spacing
		offset := float64(count-1) * spacing / 2
		for i := 0; i < count; i++ {
			x := baseX - offset + float64(i)*spacing
			t.Add(NewStillBall(number, Coord{x, y}))
			number--
		}
	}

	t.Add(NewStillBall(0, Coord{baseX, TableLength - TableWidth/2}))
	return t
}
