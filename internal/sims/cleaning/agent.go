package cleaning

import (
	"fmt"

	pcore "cleanbots/pkg/core"
)

// AgentID identifies an agent. IDs are dense, starting at zero.
type AgentID int

// Phase tracks where an agent is within the current tick.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDecided
	PhaseCommitted
)

// AgentValue is the snapshot value of a cell holding an agent.
const AgentValue uint8 = 2

// Agent is a cleaning unit. It either cleans the tile under it or wanders to
// a random neighbor, never both in one tick.
type Agent struct {
	id      AgentID
	pos     Point
	pending Point
	moves   int

	phase     Phase
	phaseTick int

	rng *pcore.RNG
}

func newAgent(id AgentID, rng *pcore.RNG) *Agent {
	return &Agent{id: id, rng: rng, phaseTick: -1}
}

// Kind implements Occupant.
func (a *Agent) Kind() OccupantKind { return KindAgent }

// RenderValue implements Occupant.
func (a *Agent) RenderValue() uint8 { return AgentValue }

// ID returns the agent id.
func (a *Agent) ID() AgentID { return a.id }

// Pos returns the committed position.
func (a *Agent) Pos() Point { return a.pos }

// Moves returns the number of ticks in which the agent changed cell.
func (a *Agent) Moves() int { return a.moves }

// Phase returns the agent's protocol phase. A phase stamped with an earlier
// tick reads as idle.
func (a *Agent) Phase(tick int) Phase {
	if a.phaseTick != tick {
		return PhaseIdle
	}
	return a.phase
}

// decide reads the tile under the agent and records the tile's next state and
// the agent's pending move. It writes only to the agent and its own tile.
func (a *Agent) decide(g *Grid, tick int) error {
	tile, err := g.TileAt(a.pos)
	if err != nil {
		return err
	}
	if tile == nil {
		return fmt.Errorf("agent %d at %v: no tile: %w", a.id, a.pos, ErrOutOfBounds)
	}

	if tile.state == Dirty {
		tile.setNext(Clean, tick)
		a.pending = a.pos
	} else {
		tile.setNext(tile.state, tick)
		neighbors, err := g.Neighborhood(a.pos, false)
		if err != nil {
			return err
		}
		next, ok := pcore.Choice(a.rng, neighbors)
		if !ok {
			return fmt.Errorf("agent %d at %v has no neighbor: %w", a.id, a.pos, ErrInvalidConfiguration)
		}
		a.pending = next
	}

	a.phase = PhaseDecided
	a.phaseTick = tick
	return nil
}

type commitResult struct {
	cleaned bool
	moved   bool
}

// advance publishes the decision made by decide in the same tick.
func (a *Agent) advance(g *Grid, tick int) (commitResult, error) {
	var res commitResult
	if a.phase != PhaseDecided || a.phaseTick != tick {
		return res, fmt.Errorf("agent %d in tick %d: %w", a.id, tick, ErrProtocolViolation)
	}
	tile, err := g.TileAt(a.pos)
	if err != nil {
		return res, err
	}
	if tile == nil || tile.nextTick != tick {
		return res, fmt.Errorf("tile under agent %d in tick %d: %w", a.id, tick, ErrProtocolViolation)
	}

	if tile.state == Dirty && tile.next == Clean {
		res.cleaned = true
	}
	tile.state = tile.next

	if a.pending != a.pos {
		a.moves++
		res.moved = true
	}
	if err := g.MoveAgent(a, a.pending); err != nil {
		return res, err
	}

	a.phase = PhaseCommitted
	return res, nil
}
