package config

import (
	"flag"
	"os"

	"time"

	"github.com/dmitrijs2005/cardkeep/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory (default from Config)
//	-s string   scratch directory for staged images (default from Config)
//	-k string   keyring service name (default from Config)
//	-m int      maximum image size in bytes (default from Config)
//	-i string   scratch sweep interval, e.g. "5m" (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-k", "-m", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.ScratchDir, "s", cfg.ScratchDir, "scratch directory for staged images")
	fs.StringVar(&cfg.KeyringService, "k", cfg.KeyringService, "keyring service name")
	fs.Int64Var(&cfg.MaxImageBytes, "m", cfg.MaxImageBytes, "maximum image size in bytes")
	sweep := fs.String("i", cfg.SweepInterval.String(), "scratch sweep interval")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	d, err := time.ParseDuration(*sweep)
	if err != nil {
		panic(err)
	}
	cfg.SweepInterval = d
}
