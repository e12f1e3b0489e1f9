package tiled

import "fmt"

// GlobalTileID references a tile across all tilesets of a map.
// Zero means no tile. The high four bits carry flip/rotation flags.
type GlobalTileID uint32

// Flip flags stored in the high bits of a GlobalTileID.
const (
	FlipHorizontal GlobalTileID = 0x80000000
	FlipVertical   GlobalTileID = 0x40000000
	FlipDiagonal   GlobalTileID = 0x20000000
	RotateHex120   GlobalTileID = 0x10000000

	FlipMask = FlipHorizontal | FlipVertical | FlipDiagonal | RotateHex120
)

// ID returns the identifier with flag bits cleared.
func (g GlobalTileID) ID() uint32 {
	return uint32(g &^ FlipMask)
}

// Flags returns only the flag bits.
func (g GlobalTileID) Flags() GlobalTileID {
	return g & FlipMask
}

// IsEmpty reports whether the identifier denotes no tile.
func (g GlobalTileID) IsEmpty() bool {
	return g.ID() == 0
}

// String returns the id, followed by flag letters when any are set.
func (g GlobalTileID) String() string {
	f := g.Flags()
	if f == 0 {
		return fmt.Sprintf("%d", g.ID())
	}
	s := ""
	if f&FlipHorizontal != 0 {
		s += "H"
	}
	if f&FlipVertical != 0 {
		s += "V"
	}
	if f&FlipDiagonal != 0 {
		s += "D"
	}
	if f&RotateHex120 != 0 {
		s += "R"
	}
	return fmt.Sprintf("%d[%s]", g.ID(), s)
}
