package inkwell

import (
	"flag"
	"fmt"

	"github.com/inkwell/inkwell/pkg/config"
)

// Parse parses command line arguments and returns the command to execute and
// the application configuration. Flags come before the sub-command;
// configuration is layered file, then environment, then flags.
func Parse(args []string) (Command, *config.Config, error) {
	flagSet := flag.NewFlagSet("inkwell", flag.ContinueOnError)

	var (
		configPath = flagSet.String("config", "inkwell.yaml", "Path to the YAML config file")
		logLevel   = flagSet.String("log-level", "", "Log level override: debug, info, warn, error")
		seedUsers  = flagSet.Int("seed-users", 0, "Number of generated users (seed command)")
		seedForce  = flagSet.Bool("seed-force", false, "Seed even when the database is not empty")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: inkwell [flags] <command>

Commands:
  migrate   Create or update the database schema
  seed      Populate an empty database with demo data

Examples:
  inkwell migrate
  inkwell -config /etc/inkwell.yaml migrate
  inkwell seed
  inkwell -seed-users=50 seed
  inkwell -seed-force seed`)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *seedUsers > 0 {
		cfg.Seed.Users = *seedUsers
	}

	var cmd Command
	switch remainingArgs[0] {
	case "migrate":
		cmd = &MigrateCommand{}
	case "seed":
		cmd = &SeedCommand{Force: *seedForce}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: migrate, seed", remainingArgs[0])
	}

	return cmd, cfg, nil
}
