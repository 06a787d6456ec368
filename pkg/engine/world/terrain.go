package world

// Terrain is the kind of tile stored in a Cell.
type Terrain int

// Terrain constants
const (
	ImmutableWall Terrain = iota
	Wall
	Floor
	FloorRoom
	FloorHall
	StairsUp
	StairsDown
	Recovery
	Debug
	Unknown
)

// Hardness values with special meaning.
const (
	// HardnessImmutable is stored in every border cell.
	HardnessImmutable uint8 = 255

	// HardnessMaxRock is the hardest rock a generated level contains.
	HardnessMaxRock uint8 = 254
)

// IsPassable reports whether an actor can stand on terrain t without tunneling.
func IsPassable(t Terrain) bool {
	switch t {
	case Floor, FloorRoom, FloorHall, StairsUp, StairsDown, Recovery:
		return true
	default:
		return false
	}
}

// IsPlainFloor reports whether t is walkable floor with nothing placed on it.
func IsPlainFloor(t Terrain) bool {
	return t == Floor || t == FloorRoom || t == FloorHall
}

// String returns the string representation of a terrain
func (t Terrain) String() string {
	switch t {
	case ImmutableWall:
		return "ImmutableWall"
	case Wall:
		return "Wall"
	case Floor:
		return "Floor"
	case FloorRoom:
		return "FloorRoom"
	case FloorHall:
		return "FloorHall"
	case StairsUp:
		return "StairsUp"
	case StairsDown:
		return "StairsDown"
	case Recovery:
		return "Recovery"
	case Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}
