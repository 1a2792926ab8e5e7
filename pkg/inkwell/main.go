package inkwell

import (
	"context"
	"fmt"
)

// Main is the entry point of the inkwell binary. It parses the arguments,
// wires the application, and executes the selected command. Tests call it
// directly instead of building the binary; the context cancels long-running
// commands.
func Main(ctx context.Context, args []string) error {
	cmd, cfg, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *SeedCommand:
		if err := app.Seed(ctx, c); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}

// Migrate creates or updates the backing schema.
func (a *App) Migrate(ctx context.Context, _ *MigrateCommand) error {
	a.log.Logger.Info().Msg("running schema migration")
	return a.store.Migrate(ctx)
}
