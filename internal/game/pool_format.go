package game

import (
	"fmt"
	"strings"
)

// FormatObject renders o in the fixed inspection layout, or "NULL;" when the
// slot is empty.
func FormatObject(o Object) string {
	if isNil(o) {
		return "NULL;"
	}
	switch v := o.(type) {
	case *StillBall:
		return fmt.Sprintf("STILL_BALL (%d,%6.1f,%6.1f)", v.Number, v.Pos.X, v.Pos.Y)
	case *RollingBall:
		return fmt.Sprintf("ROLLING_BALL (%d,%6.1f,%6.1f,%6.1f,%6.1f,%6.1f,%6.1f)",
			v.Number, v.Pos.X, v.Pos.Y, v.Vel.X, v.Vel.Y, v.Acc.X, v.Acc.Y)
	case *Hole:
		return fmt.Sprintf("HOLE (%6.1f,%6.1f)", v.Pos.X, v.Pos.Y)
	case *HCushion:
		return fmt.Sprintf("HCUSHION (%6.1f)", v.Y)
	case *VCushion:
		return fmt.Sprintf("VCUSHION (%6.1f)", v.X)
	}
	return "UNKNOWN;"
}

func (t *Table) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "time = %6.1f;\n", t.Time)
	for i, obj := range t.Objects {
		fmt.Fprintf(&sb, "  [%02d] = %s\n", i, FormatObject(obj))
	}
	return sb.String()
}
