package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/engine"
	"github.com/greybox2d/greybox/internal/persist"
	"github.com/greybox2d/greybox/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(scene string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Greybox  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        headless 2D simulation core        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mStart scene:\033[0m %s\n\n", scene)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/greybox.toml"
	if p := os.Getenv("GREYBOX_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.StartScene)

	// 3. Snapshot store
	printSection("Persistence")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := persist.Open(ctx, cfg.Persist, log)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer store.Close()
	printOK(fmt.Sprintf("snapshot backend: %s", cfg.Persist.Backend))
	fmt.Println()

	// 4. Data tables
	printSection("Data")
	prefabs, err := data.LoadPrefabTable(cfg.Data.Prefabs)
	if err != nil {
		return fmt.Errorf("prefabs: %w", err)
	}
	printStat("Prefabs", prefabs.Count())

	scenes, err := data.LoadSceneTable(cfg.Data.Scenes)
	if err != nil {
		return fmt.Errorf("scenes: %w", err)
	}
	printStat("Scenes", scenes.Count())

	lua, err := scripting.NewEngine(cfg.Data.Scripts, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer lua.Close()
	printStat("Script namespaces", len(lua.Namespaces()))
	fmt.Println()

	// 5. Engine
	eng := engine.New(engine.Options{
		Config:  cfg,
		Prefabs: prefabs,
		Scenes:  scenes,
		Hooks:   lua,
		Store:   store,
		Log:     log,
	})
	lua.SetClock(eng.Clock())

	restored := false
	if cfg.Persist.RestoreOnStart {
		snap, err := store.Load(ctx, cfg.Engine.StartScene)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if snap != nil {
			if err := eng.Restore(snap); err != nil {
				return err
			}
			restored = true
			printOK(fmt.Sprintf("restoring %d actors from frame %d", len(snap.Actors), snap.Frame))
		}
	}
	if !restored {
		if err := eng.LoadScene(cfg.Engine.StartScene); err != nil {
			return err
		}
	}

	// 6. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(eng.Clock().Fixed())
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("frame loop started (step: %s)", eng.Clock().Fixed()))
	fmt.Println()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			eng.Frame(now.Sub(last))
			last = now
			if cfg.Engine.MaxFrames > 0 && eng.Clock().Frame() >= uint64(cfg.Engine.MaxFrames) {
				log.Info("frame limit reached", zap.Int("frames", cfg.Engine.MaxFrames))
				return shutdown(eng, store, cfg, log)
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return shutdown(eng, store, cfg, log)
		}
	}
}

// shutdown saves the running scene if configured, then ends it.
func shutdown(eng *engine.Engine, store persist.SnapshotStore, cfg *config.Config, log *zap.Logger) error {
	defer eng.Shutdown()
	if !cfg.Persist.SaveOnExit {
		return nil
	}
	snap := eng.Snapshot()
	if snap == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot saved",
		zap.String("scene", snap.Scene),
		zap.Uint64("frame", snap.Frame),
		zap.Int("actors", len(snap.Actors)))
	return nil
}
