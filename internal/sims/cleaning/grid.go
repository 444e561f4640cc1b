package cleaning

import (
	"fmt"
	"iter"
	"slices"
)

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// OccupantKind tags what a cell occupant is. Later kinds win the snapshot
// when they share a cell.
type OccupantKind uint8

const (
	KindTile OccupantKind = iota
	KindAgent
)

// Occupant is anything that lives in a grid cell.
type Occupant interface {
	Kind() OccupantKind
	// RenderValue is the snapshot value the occupant contributes.
	RenderValue() uint8
}

type cell struct {
	tile   *Tile
	agents []*Agent
}

// Grid is a fixed-size space of cells, each holding at most one tile and any
// number of agents.
type Grid struct {
	w, h  int
	edge  EdgePolicy
	cells []cell
}

// NewGrid allocates an empty grid.
func NewGrid(w, h int, edge EdgePolicy) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", w, h, ErrInvalidConfiguration)
	}
	return &Grid{w: w, h: h, edge: edge, cells: make([]cell, w*h)}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Contains reports whether p lies on the grid.
func (g *Grid) Contains(p Point) bool { return inBounds(p, g.w, g.h) }

func inBounds(p Point, w, h int) bool {
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}

func (g *Grid) index(p Point) int { return p.Y*g.w + p.X }

func (g *Grid) cellAt(p Point) (*cell, error) {
	if !g.Contains(p) {
		return nil, fmt.Errorf("%v on %dx%d grid: %w", p, g.w, g.h, ErrOutOfBounds)
	}
	return &g.cells[g.index(p)], nil
}

// PlaceTile puts t at p. A cell holds at most one tile.
func (g *Grid) PlaceTile(t *Tile, p Point) error {
	c, err := g.cellAt(p)
	if err != nil {
		return err
	}
	if c.tile != nil {
		return fmt.Errorf("place tile at %v: %w", p, ErrTileExists)
	}
	c.tile = t
	t.pos = p
	return nil
}

// PlaceAgent adds a to the occupants of p.
func (g *Grid) PlaceAgent(a *Agent, p Point) error {
	c, err := g.cellAt(p)
	if err != nil {
		return err
	}
	c.agents = append(c.agents, a)
	a.pos = p
	return nil
}

// MoveAgent moves a from its current cell to p. Moving to the same cell is a
// no-op.
func (g *Grid) MoveAgent(a *Agent, p Point) error {
	dst, err := g.cellAt(p)
	if err != nil {
		return err
	}
	if a.pos == p {
		return nil
	}
	src, err := g.cellAt(a.pos)
	if err != nil {
		return err
	}
	i := slices.Index(src.agents, a)
	if i < 0 {
		return fmt.Errorf("agent %d not recorded at %v: %w", a.id, a.pos, ErrOutOfBounds)
	}
	src.agents = slices.Delete(src.agents, i, i+1)
	dst.agents = append(dst.agents, a)
	a.pos = p
	return nil
}

// Neighborhood returns the Moore neighborhood of p in row-major order. Cells
// past the edge are dropped under EdgeClip and wrapped under EdgeWrap.
func (g *Grid) Neighborhood(p Point, includeCenter bool) ([]Point, error) {
	if !g.Contains(p) {
		return nil, fmt.Errorf("neighborhood of %v on %dx%d grid: %w", p, g.w, g.h, ErrOutOfBounds)
	}
	out := make([]Point, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}
			n := Point{X: p.X + dx, Y: p.Y + dy}
			if g.edge == EdgeWrap {
				n.X = (n.X%g.w + g.w) % g.w
				n.Y = (n.Y%g.h + g.h) % g.h
				// small tori fold neighbors onto each other or onto p
				if (n == p && !(dx == 0 && dy == 0)) || slices.Contains(out, n) {
					continue
				}
			} else if !g.Contains(n) {
				continue
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// OccupantsAt returns the tile and a copy of the agent list at p.
func (g *Grid) OccupantsAt(p Point) (*Tile, []*Agent, error) {
	c, err := g.cellAt(p)
	if err != nil {
		return nil, nil, err
	}
	return c.tile, slices.Clone(c.agents), nil
}

// TileAt returns the tile at p.
func (g *Grid) TileAt(p Point) (*Tile, error) {
	c, err := g.cellAt(p)
	if err != nil {
		return nil, err
	}
	return c.tile, nil
}

// Coordinates yields every coordinate in row-major order.
func (g *Grid) Coordinates() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// renderValue returns the snapshot value for p: the occupant with the highest
// kind, so agents cover the tile under them.
func (g *Grid) renderValue(p Point) uint8 {
	c := &g.cells[g.index(p)]
	var best Occupant
	consider := func(o Occupant) {
		if best == nil || o.Kind() > best.Kind() {
			best = o
		}
	}
	if c.tile != nil {
		consider(c.tile)
	}
	for _, a := range c.agents {
		consider(a)
	}
	if best == nil {
		return 0
	}
	return best.RenderValue()
}
