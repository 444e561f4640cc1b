// Package report writes the artifacts of a finished run to a directory.
package report

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cleanbots/internal/core"
	"cleanbots/internal/render"
	"cleanbots/internal/run"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	SummaryFile = "summary.yaml"
	MovesFile   = "moves.csv"
	GIFFile     = "grid.gif"
)

// Summary is the YAML document describing one run.
type Summary struct {
	RunID    string         `yaml:"run_id"`
	Created  time.Time      `yaml:"created"`
	Sim      string         `yaml:"sim"`
	Config   any            `yaml:"config,omitempty"`
	Result   run.Result     `yaml:"result"`
	Moves    map[string]int `yaml:"agent_moves"`
	Snapshot int            `yaml:"snapshots"`
}

// Writer writes run artifacts into Dir.
type Writer struct {
	Dir   string
	RunID uuid.UUID
	now   func() time.Time
}

// NewWriter creates dir if needed and assigns a fresh run id.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{Dir: dir, RunID: uuid.New(), now: time.Now}, nil
}

// Path returns the location of name inside the output directory.
func (w *Writer) Path(name string) string { return filepath.Join(w.Dir, name) }

// WriteSummary writes summary.yaml. moves is indexed by agent id.
func (w *Writer) WriteSummary(sim string, cfg any, res run.Result, moves []int, snapshots int) error {
	s := Summary{
		RunID:    w.RunID.String(),
		Created:  w.now().UTC(),
		Sim:      sim,
		Config:   cfg,
		Result:   res,
		Moves:    make(map[string]int, len(moves)),
		Snapshot: snapshots,
	}
	for id, mv := range moves {
		s.Moves[agentColumn(id)] = mv
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(w.Path(SummaryFile), data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteMoves writes moves.csv with one row per tick and one column per agent.
func (w *Writer) WriteMoves(series [][]int) (err error) {
	f, err := os.Create(w.Path(MovesFile))
	if err != nil {
		return fmt.Errorf("create moves csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	cw := csv.NewWriter(f)
	agents := 0
	if len(series) > 0 {
		agents = len(series[0])
	}
	header := make([]string, 0, agents+1)
	header = append(header, "tick")
	for id := 0; id < agents; id++ {
		header = append(header, agentColumn(id))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write moves header: %w", err)
	}

	row := make([]string, agents+1)
	for tick, moves := range series {
		if len(moves) != agents {
			return fmt.Errorf("moves row %d has %d agents, want %d", tick, len(moves), agents)
		}
		row[0] = strconv.Itoa(tick)
		for i, mv := range moves {
			row[i+1] = strconv.Itoa(mv)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write moves row %d: %w", tick, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGIF renders the snapshot history as grid.gif.
func (w *Writer) WriteGIF(snaps []*core.ByteGrid, palette []color.RGBA, scale, delay int) (err error) {
	f, err := os.Create(w.Path(GIFFile))
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return render.EncodeGIF(f, snaps, palette, scale, delay)
}

func agentColumn(id int) string { return "agent_" + strconv.Itoa(id) }
