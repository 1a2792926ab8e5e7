package inkwell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequiresSubcommand(t *testing.T) {
	_, _, err := Parse([]string{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "subcommand required")
}

func TestParseRejectsUnknownCommand(t *testing.T) {
	_, _, err := Parse([]string{"serve"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}

func TestParseMigrate(t *testing.T) {
	cmd, cfg, err := Parse([]string{"migrate"})
	require.NoError(t, err)
	require.IsType(t, &MigrateCommand{}, cmd)
	require.Equal(t, "migrate", cmd.Name())
	require.NotNil(t, cfg)
}

func TestParseSeedWithFlags(t *testing.T) {
	cmd, cfg, err := Parse([]string{"-seed-users=50", "-seed-force", "-log-level=debug", "seed"})
	require.NoError(t, err)
	seed, ok := cmd.(*SeedCommand)
	require.True(t, ok)
	require.Equal(t, "seed", seed.Name())
	require.True(t, seed.Force)
	require.Equal(t, 50, cfg.Seed.Users)
	require.Equal(t, "debug", cfg.Log.Level)
}
