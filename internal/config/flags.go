package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagContentName  = flag.String("content-name", "", "Name for the GLB content file")
	flagBoundsMode   = flag.String("bounds", "", "Bounding volume mode: box or sphere")
	flagErrorDivisor = flag.Float64("error-divisor", -1, "Geometric error divisor (0 = exact)")
	flagWorkers      = flag.Int("workers", 0, "Worker count for parallel stages (0 = one per CPU)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags(args []string) {
	flag.CommandLine.Parse(args)
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
	if *flagContentName != "" {
		cfg.Convert.ContentName = *flagContentName
	}
	if *flagBoundsMode != "" {
		cfg.Convert.BoundsMode = *flagBoundsMode
	}
	if *flagErrorDivisor >= 0 {
		cfg.Convert.ErrorDivisor = *flagErrorDivisor
	}
	if *flagWorkers > 0 {
		cfg.Convert.Workers = *flagWorkers
	}
}
