package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagAgents   = flag.Int("agents", 0, "Number of simulated agents")
	flagSeed     = flag.Int64("seed", 0, "Terrain noise seed")
	flagTickRate = flag.Int("tick-rate", 0, "Fixed ticks per second")
	flagDuration = flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	flagWatch    = flag.Bool("watch", false, "Re-apply tuning when the config file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAgents > 0 {
		cfg.Sim.Agents = *flagAgents
	}
	if *flagSeed != 0 {
		cfg.Sim.Seed = *flagSeed
	}
	if *flagTickRate > 0 {
		cfg.Sim.TickRate = *flagTickRate
	}
	if *flagDuration > 0 {
		cfg.Sim.Duration = *flagDuration
	}
	if *flagWatch {
		cfg.Sim.LiveReload = true
	}
}
