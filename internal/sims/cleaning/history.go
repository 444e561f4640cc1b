package cleaning

import "cleanbots/internal/core"

// Recorder receives per-tick output from a Model.
type Recorder interface {
	// RecordSnapshot receives the render matrix as it stood at the start of
	// tick. The grid is owned by the recorder.
	RecordSnapshot(tick int, snap *core.ByteGrid)
	// RecordMoves receives every agent's move count after tick, indexed by
	// AgentID. The slice is owned by the recorder.
	RecordMoves(tick int, moves []int)
}

// History keeps every snapshot and move row in memory.
type History struct {
	snapshots []*core.ByteGrid
	moves     [][]int
}

// NewHistory returns an empty History.
func NewHistory() *History { return &History{} }

// RecordSnapshot implements Recorder.
func (h *History) RecordSnapshot(_ int, snap *core.ByteGrid) {
	h.snapshots = append(h.snapshots, snap)
}

// RecordMoves implements Recorder.
func (h *History) RecordMoves(_ int, moves []int) {
	h.moves = append(h.moves, moves)
}

// Clear drops everything recorded so far.
func (h *History) Clear() {
	h.snapshots = nil
	h.moves = nil
}

// Snapshots returns the snapshots in tick order. Index 0 is the state before
// the first tick.
func (h *History) Snapshots() []*core.ByteGrid { return h.snapshots }

// MoveSeries returns one row per completed tick, each indexed by AgentID.
func (h *History) MoveSeries() [][]int { return h.moves }

// AgentSeries returns the move count of one agent after every tick.
func (h *History) AgentSeries(id AgentID) []int {
	out := make([]int, 0, len(h.moves))
	for _, row := range h.moves {
		if int(id) < len(row) {
			out = append(out, row[id])
		}
	}
	return out
}

// Len returns the number of recorded ticks.
func (h *History) Len() int { return len(h.moves) }
