package sqlite

import "errors"

const (
	defaultDBFile      = "parley.db"
	defaultBusyTimeout = 5000 // milliseconds
)

// Config is the storage module's YAML configuration.
type Config struct {
	// Path is the database file location. Defaults to <data_dir>/parley.db.
	Path string `yaml:"path"`

	// WAL toggles write-ahead logging. Enabled by default.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is the SQLite busy timeout in milliseconds.
	BusyTimeout int `yaml:"busy_timeout"`

	// Seed inserts the starter knowledge corpus when the knowledge table
	// is empty. Enabled by default.
	Seed *bool `yaml:"seed"`
}

func (c *Config) defaults() {
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = defaultBusyTimeout
	}
}

func (c *Config) walEnabled() bool {
	return c.WAL == nil || *c.WAL
}

func (c *Config) seedEnabled() bool {
	return c.Seed == nil || *c.Seed
}

func (c *Config) validate() error {
	if c.BusyTimeout < 0 {
		return errors.New("sqlite: busy_timeout must not be negative")
	}
	return nil
}
