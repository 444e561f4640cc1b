//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"cleanbots/internal/core"
	"cleanbots/internal/render"
	"cleanbots/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 240

type paletteProvider interface {
	Palette() []color.RGBA
}

var monochrome = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	step    *core.FixedStep
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	showHUD  bool
	seed     int64
	err      error
}

// New constructs a Game for the provided simulation. tps is the simulation
// rate, independent of the frame rate.
func New(sim core.Sim, scale, tps int, seed int64) *Game {
	palette := monochrome
	if p, ok := sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(sim.Size().W, sim.Size().H),
		hud:     ui.NewHUD(sim, hudWidth),
		step:    core.NewFixedStep(tps),
		palette: palette,
		scale:   scale,
		showHUD: true,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.err = g.sim.Reset(seed)
	g.tickOnce = false
}

func (g *Game) done() bool {
	f, ok := g.sim.(core.Finisher)
	return ok && f.Done()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.step.SetTPS(g.step.TPS() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.step.SetTPS(max(1, g.step.TPS()/2))
	}

	if g.err == nil && !g.done() {
		if g.tickOnce || (!g.paused && g.step.ShouldStep()) {
			g.err = g.sim.Step()
			g.tickOnce = false
		}
	}
	if g.showHUD {
		g.hud.Update()
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	if g.showHUD {
		g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
	}

	status := "running"
	switch {
	case g.err != nil:
		status = "error: " + g.err.Error()
	case g.done():
		status = "done"
	case g.paused:
		status = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  seed %d  %d tps  %s", g.sim.Name(), g.seed, g.step.TPS(), status))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	w := s.W * g.scale
	if g.showHUD {
		w += g.hud.Width()
	}
	return w, s.H * g.scale
}
