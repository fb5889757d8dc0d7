package config

// Config holds runtime settings for the auth vault.
//
// Fields:
//   - DatabasePath: path to the on-device SQLite credential store.
//   - TokenSecret: key used to sign session tokens.
//   - BcryptCost: bcrypt work factor for password hashing (0 = library default).
//   - LogLevel: debug|info|warn|error.
type Config struct {
	DatabasePath string
	TokenSecret  string
	BcryptCost   int
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "authvault.db"
	c.TokenSecret = "local-dev-secret"
	c.BcryptCost = 0
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
