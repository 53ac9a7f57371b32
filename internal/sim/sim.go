// Package sim hosts the headless demo: a procedurally generated arena
// walked by scripted agents under the momentum controller. It exists to
// exercise the whole movement stack end to end and to log what the
// agents get up to.
package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/stride/internal/config"
	"github.com/Faultbox/stride/internal/engine/locomotion"
	"github.com/Faultbox/stride/internal/engine/walker"
	"github.com/Faultbox/stride/internal/logger"
)

// Simulation owns the arena, the agent roster and the fixed-tick loop.
type Simulation struct {
	cfg     *config.Config
	cfgPath string // watched for live tuning when set

	scene  *Scene
	agents []*Agent

	ticks int
	log   *zap.Logger
}

// New builds the arena and spawns the configured number of agents.
// cfgPath names the file to watch for live tuning; empty disables it.
func New(cfg *config.Config, cfgPath string) *Simulation {
	s := &Simulation{
		cfg:     cfg,
		cfgPath: cfgPath,
		scene:   BuildScene(cfg),
		log:     logger.Named("sim"),
	}

	ms := cfg.MoverSettings()
	ws := cfg.WalkerSettings()
	for i, spawn := range s.scene.SpawnPoints(cfg.Sim.Agents) {
		name := fmt.Sprintf("agent-%d", i+1)
		s.agents = append(s.agents, newAgent(name, s.scene, spawn, ms, ws, cfg.Sim.Seed+int64(i)))
	}
	return s
}

// Agents returns the roster in spawn order.
func (s *Simulation) Agents() []*Agent {
	return s.agents
}

// Ticks returns how many fixed ticks have run.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Step advances every agent one fixed tick.
func (s *Simulation) Step(dt float32) {
	for _, a := range s.agents {
		a.tick(s.scene.World, dt)
	}
	s.ticks++
}

// Run drives fixed ticks at the configured rate until the context is
// cancelled or the configured duration elapses.
func (s *Simulation) Run(ctx context.Context) error {
	dt := float32(1) / float32(s.cfg.Sim.TickRate)

	var reload <-chan string
	var watchErrs <-chan error
	if s.cfg.Sim.LiveReload && s.cfgPath != "" {
		w, err := newWatcher(s.cfgPath)
		if err != nil {
			return fmt.Errorf("watching %s: %w", s.cfgPath, err)
		}
		defer w.Close()
		reload = w.Events
		watchErrs = w.Errors
		s.log.Info("watching config for tuning changes", zap.String("path", s.cfgPath))
	}

	var stop <-chan time.Time
	if d := s.cfg.Sim.Duration; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		stop = timer.C
	}

	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()
	stats := time.NewTicker(time.Second)
	defer stats.Stop()

	s.log.Info("simulation started",
		zap.Int("agents", len(s.agents)),
		zap.Int("tick_rate", s.cfg.Sim.TickRate),
		zap.Int64("seed", s.cfg.Sim.Seed),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulation stopped", zap.Int("ticks", s.ticks))
			return nil
		case <-stop:
			s.log.Info("duration reached", zap.Int("ticks", s.ticks))
			return nil
		case path := <-reload:
			s.reloadTuning(path)
		case err := <-watchErrs:
			s.log.Warn("config watcher error", zap.Error(err))
		case <-stats.C:
			s.logStats()
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

// ApplyMovement swaps the movement tuning on every agent. The arena and
// collider settings stay as built.
func (s *Simulation) ApplyMovement(ws walker.Settings) {
	for _, a := range s.agents {
		a.ctrl.SetSettings(ws)
	}
}

func (s *Simulation) reloadTuning(path string) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		s.log.Warn("config reload failed", zap.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		s.log.Warn("config reload rejected", zap.Error(err))
		return
	}
	s.ApplyMovement(cfg.WalkerSettings())
	s.log.Info("movement tuning reloaded", zap.String("path", path))
}

func (s *Simulation) logStats() {
	grounded, jumps, landings := 0, 0, 0
	for _, a := range s.agents {
		if a.State() == locomotion.Grounded {
			grounded++
		}
		jumps += a.jumps
		landings += a.landings
	}
	s.log.Debug("tick stats",
		zap.Int("ticks", s.ticks),
		zap.Int("grounded", grounded),
		zap.Int("jumps", jumps),
		zap.Int("landings", landings),
	)
}
