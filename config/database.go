package config

// DBConfig contains PostgreSQL configuration for the audit trail store.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"yupiflow"`
	Password string `env:"PASSWORD" envDefault:"yupiflow"`
	Name     string `env:"NAME"     envDefault:"yupiflow"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	// Enabled controls whether the audit store is wired at all. The
	// gateway runs without Postgres; auditing is then log-only.
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

// RedisConfig contains Redis configuration for sessions and pub/sub.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
