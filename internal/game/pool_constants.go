package game

// Table geometry and physics constants. Units are millimetres and seconds.

const (
	BallRadius   = 28.5
	BallDiameter = 2 * BallRadius
	HoleRadius   = 2 * BallDiameter

	TableLength = 2700.0
	TableWidth  = TableLength / 2.0

	SimRate    = 0.0001 // fixed integration timestep
	VelEpsilon = 0.01   // speed below which a ball is at rest
	Drag       = 150.0  // rolling deceleration magnitude
	MaxTime    = 600.0  // upper bound on simulated time per segment

	MaxObjects = 26

	FrameInterval = 0.01
	MaxSegments   = 1000

	NumBalls = 16 // 0=cue, 1-7=solids, 8=eight, 9-15=stripes
)
