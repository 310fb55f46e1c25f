package game

// Kind identifies which variant an Object is.
type Kind int

const (
	KindStillBall Kind = iota
	KindRollingBall
	KindHole
	KindHCushion
	KindVCushion
)

var kindNames = [...]string{
	KindStillBall:   "STILL_BALL",
	KindRollingBall: "ROLLING_BALL",
	KindHole:        "HOLE",
	KindHCushion:    "HCUSHION",
	KindVCushion:    "VCUSHION",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Object is one thing on the table. The set of implementations is closed:
// *StillBall, *RollingBall, *Hole, *HCushion and *VCushion.
type Object interface {
	Kind() Kind
	String() string
	clone() Object
}

// StillBall is a ball at rest.
type StillBall struct {
	Number int   `json:"number"`
	Pos    Coord `json:"pos"`
}

// RollingBall is a ball in motion. Acc is the drag deceleration and points
// against Vel once it is non-zero.
type RollingBall struct {
	Number int   `json:"number"`
	Pos    Coord `json:"pos"`
	Vel    Coord `json:"vel"`
	Acc    Coord `json:"acc"`
}

// Hole is a pocket with a fixed capture radius.
type Hole struct {
	Pos Coord `json:"pos"`
}

// HCushion is an infinite horizontal boundary at Y.
type HCushion struct {
	Y float64 `json:"y"`
}

// VCushion is an infinite vertical boundary at X.
type VCushion struct {
	X float64 `json:"x"`
}

func NewStillBall(number int, pos Coord) *StillBall {
	return &StillBall{Number: number, Pos: pos}
}

// NewRollingBall fails with ErrNilArgument when any of the vectors is missing.
func NewRollingBall(number int, pos, vel, acc *Coord) (*RollingBall, error) {
	if pos == nil || vel == nil || acc == nil {
		return nil, ErrNilArgument
	}
	return &RollingBall{Number: number, Pos: *pos, Vel: *vel, Acc: *acc}, nil
}

func NewHole(pos Coord) *Hole {
	return &Hole{Pos: pos}
}

func NewHCushion(y float64) *HCushion {
	return &HCushion{Y: y}
}

func NewVCushion(x float64) *VCushion {
	return &VCushion{X: x}
}

func (*StillBall) Kind() Kind   { return KindStillBall }
func (*RollingBall) Kind() Kind { return KindRollingBall }
func (*Hole) Kind() Kind        { return KindHole }
func (*HCushion) Kind() Kind    { return KindHCushion }
func (*VCushion) Kind() Kind    { return KindVCushion }

func (b *StillBall) clone() Object   { c := *b; return &c }
func (b *RollingBall) clone() Object { c := *b; return &c }
func (h *Hole) clone() Object        { c := *h; return &c }
func (c *HCushion) clone() Object    { d := *c; return &d }
func (c *VCushion) clone() Object    { d := *c; return &d }

func (b *StillBall) String() string   { return FormatObject(b) }
func (b *RollingBall) String() string { return FormatObject(b) }
func (h *Hole) String() string        { return FormatObject(h) }
func (c *HCushion) String() string    { return FormatObject(c) }
func (c *VCushion) String() string    { return FormatObject(c) }

// Roll starts a resting ball with zero velocity and acceleration.
func (b *StillBall) Roll() *RollingBall {
	return &RollingBall{Number: b.Number, Pos: b.Pos}
}

// Rest drops the kinematic state of a rolling ball.
func (b *RollingBall) Rest() *StillBall {
	return &StillBall{Number: b.Number, Pos: b.Pos}
}

// isNil reports whether o is absent, including typed nil pointers.
func isNil(o Object) bool {
	switch v := o.(type) {
	case nil:
		return true
	case *StillBall:
		return v == nil
	case *RollingBall:
		return v == nil
	case *Hole:
		return v == nil
	case *HCushion:
		return v == nil
	case *VCushion:
		return v == nil
	}
	return false
}
