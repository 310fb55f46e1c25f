package game

import "errors"

var (
	ErrNilObject           = errors.New("object is nil")
	ErrNilArgument         = errors.New("required argument is nil")
	ErrNotRollingBall      = errors.New("object is not a rolling ball")
	ErrUnknownObject       = errors.New("unknown object kind")
	ErrAliasedState        = errors.New("source and destination state are the same object")
	ErrDegenerateCollision = errors.New("colliding balls share a centre")
	ErrSameSlot            = errors.New("object cannot collide with itself")
	ErrSlotOutOfRange      = errors.New("slot index out of range")
	ErrTableFull           = errors.New("table has no free slot")
	ErrNoRollingBalls      = errors.New("no rolling balls on table")
	ErrNoCueBall           = errors.New("no resting cue ball on table")
	ErrShotTooLong         = errors.New("shot did not settle within segment limit")
	ErrInvalidParams       = errors.New("invalid physics parameters")
	ErrInvalidSnapshot     = errors.New("invalid table snapshot")
)
