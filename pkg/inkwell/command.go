package inkwell

// Command represents a discrete application operation with its specific
// options. Each implementation carries what its operation needs; routing
// happens in Main by type switch.
type Command interface {
	// Name returns the CLI sub-command this command is routed from.
	Name() string
}

// MigrateCommand creates or updates the database schema. Safe to run
// repeatedly: it only adds missing schema elements.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// SeedCommand populates an empty database with the demo data set: the three
// fixed roles, a known administrator account, and generated users, articles,
// and comments sized by the seed configuration. A non-empty database is left
// untouched unless Force is set.
type SeedCommand struct {
	// Force seeds even when users already exist.
	Force bool
}

func (c *SeedCommand) Name() string {
	return "seed"
}
