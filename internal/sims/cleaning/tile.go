package cleaning

// TileState is the cleanliness of a tile.
type TileState uint8

const (
	Clean TileState = 0
	Dirty TileState = 1
)

func (s TileState) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Tile holds the state of one cell. next is only meaningful when nextTick
// matches the tick being committed.
type Tile struct {
	pos      Point
	state    TileState
	next     TileState
	nextTick int
}

func newTile(state TileState) *Tile {
	return &Tile{state: state, nextTick: -1}
}

// Kind implements Occupant.
func (t *Tile) Kind() OccupantKind { return KindTile }

// RenderValue implements Occupant.
func (t *Tile) RenderValue() uint8 { return uint8(t.state) }

// Pos returns the tile's fixed position.
func (t *Tile) Pos() Point { return t.pos }

// State returns the published state.
func (t *Tile) State() TileState { return t.state }

func (t *Tile) setNext(s TileState, tick int) {
	t.next = s
	t.nextTick = tick
}
