package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/engine"
	"github.com/greybox2d/greybox/internal/persist"
	"github.com/greybox2d/greybox/internal/render"
	"github.com/greybox2d/greybox/internal/scripting"
)

var backdrop = color.RGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// viewer runs the same engine as the headless runner, with ebiten driving
// the frame: simulation phases in Update, Render and GUI in Draw.
type viewer struct {
	eng  *engine.Engine
	r    *render.Ebiten
	cfg  *config.Config
	last time.Time
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		ctx := v.eng.Context()
		ctx.DebugDraw = !ctx.DebugDraw
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		clock := v.eng.Clock()
		clock.SetLock(!clock.Locked())
	}

	now := time.Now()
	wall := time.Duration(0)
	if !v.last.IsZero() {
		wall = now.Sub(v.last)
	}
	v.last = now
	v.eng.Simulate(wall)
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.r.Begin(screen)
	defer v.r.End()

	v.r.Fill(backdrop)
	v.eng.Draw()

	st := v.eng.Stats()
	clock := v.eng.Clock()
	step := "variable"
	if clock.Locked() {
		step = "fixed"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  frame %d  fps %.0f  %s step  actors %d  bodies %d",
		st.Scene, st.Frames, clock.FPS(), step, st.Actors, st.World.Bodies))
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.cfg.Display.Width, v.cfg.Display.Height
}

func run() error {
	cfgPath := "config/greybox.toml"
	if p := os.Getenv("GREYBOX_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	prefabs, err := data.LoadPrefabTable(cfg.Data.Prefabs)
	if err != nil {
		return fmt.Errorf("prefabs: %w", err)
	}
	scenes, err := data.LoadSceneTable(cfg.Data.Scenes)
	if err != nil {
		return fmt.Errorf("scenes: %w", err)
	}
	lua, err := scripting.NewEngine(cfg.Data.Scripts, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer lua.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := persist.Open(ctx, cfg.Persist, log)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer store.Close()

	r := render.NewEbiten(cfg.Display.Width, cfg.Display.Height)
	eng := engine.New(engine.Options{
		Config:   cfg,
		Prefabs:  prefabs,
		Scenes:   scenes,
		Hooks:    lua,
		Renderer: r,
		Store:    store,
		Log:      log,
	})
	lua.SetClock(eng.Clock())
	if err := eng.LoadScene(cfg.Engine.StartScene); err != nil {
		return err
	}
	defer eng.Shutdown()

	ebiten.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
	ebiten.SetWindowTitle(cfg.Display.Title)
	ebiten.SetTPS(int(time.Second / eng.Clock().Fixed()))

	log.Info("viewer started", zap.String("scene", cfg.Engine.StartScene))
	if err := ebiten.RunGame(&viewer{eng: eng, r: r, cfg: cfg}); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}

	if snap := eng.Snapshot(); cfg.Persist.SaveOnExit && snap != nil {
		saveCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := store.Save(saveCtx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		log.Info("snapshot saved", zap.String("scene", snap.Scene), zap.Int("actors", len(snap.Actors)))
	}
	return nil
}
