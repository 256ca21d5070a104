package game

const (
	// DefaultBoardWidth and DefaultBoardHeight are the arena dimensions of the ruleset.
	DefaultBoardWidth  = 12
	DefaultBoardHeight = 20

	// PointsPerLine is added to the score for every swept row.
	PointsPerLine = 10
)
