package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Defaults used when neither a flag nor an environment variable is set.
const (
	DefaultDBPath        = "inventura.sqlite3"
	DefaultAddr          = ":8080"
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "admin123"
	DefaultTokenTTL      = 24 * time.Hour
)

// Config holds the server settings.
type Config struct {
	DBPath        string
	Addr          string
	AdminUser     string
	AdminPassword string
	LogPath       string
	JWTSecret     string // empty means use the secret persisted in the database
	TokenTTL      time.Duration
}

const usage = `Usage: inventura [flags]

Flags:
  -d, -db <path>            SQLite database path (default: inventura.sqlite3)
  -a, -addr <host:port>     listen address (default: :8080)
  -u, -user <name>          bootstrap admin username (default: admin)
      -admin-password <pw>  bootstrap admin password (default: admin123)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
      -jwt-secret <secret>  token signing secret (default: generated and stored)
      -token-ttl <duration> token lifetime (default: 24h)
  -h, -help                 show this help and exit

Every flag can also be set through the environment: INVENTURA_DB, INVENTURA_ADDR,
INVENTURA_ADMIN_USER, INVENTURA_ADMIN_PASSWORD, INVENTURA_LOG, INVENTURA_JWT_SECRET,
INVENTURA_TOKEN_TTL. Flags win over the environment.
`

// Load parses args (without the program name) on top of environment defaults.
// It returns flag.ErrHelp when help was requested; usage goes to out.
func Load(args []string, out io.Writer) (*Config, error) {
	ttl := DefaultTokenTTL
	if v := os.Getenv("INVENTURA_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing INVENTURA_TOKEN_TTL: %w", err)
		}
		ttl = d
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("inventura", flag.ContinueOnError)
	fs.SetOutput(out)

	dbPath := getEnv("INVENTURA_DB", DefaultDBPath)
	fs.StringVar(&cfg.DBPath, "db", dbPath, "")
	fs.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := getEnv("INVENTURA_ADDR", DefaultAddr)
	fs.StringVar(&cfg.Addr, "addr", addr, "")
	fs.StringVar(&cfg.Addr, "a", addr, "")

	adminUser := getEnv("INVENTURA_ADMIN_USER", DefaultAdminUser)
	fs.StringVar(&cfg.AdminUser, "user", adminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", adminUser, "")

	fs.StringVar(&cfg.AdminPassword, "admin-password", getEnv("INVENTURA_ADMIN_PASSWORD", DefaultAdminPassword), "")

	logPath := getEnv("INVENTURA_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logPath, "")
	fs.StringVar(&cfg.LogPath, "l", logPath, "")

	fs.StringVar(&cfg.JWTSecret, "jwt-secret", getEnv("INVENTURA_JWT_SECRET", ""), "")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", ttl, "")

	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("database path must not be empty")
	case c.Addr == "":
		return fmt.Errorf("listen address must not be empty")
	case c.AdminUser == "":
		return fmt.Errorf("admin username must not be empty")
	case c.AdminPassword == "":
		return fmt.Errorf("admin password must not be empty")
	case c.TokenTTL <= 0:
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// String renders the config for logging with secrets masked.
func (c *Config) String() string {
	secret := "<generated>"
	if c.JWTSecret != "" {
		secret = "***"
	}
	return fmt.Sprintf("db=%s addr=%s admin=%s admin_password=*** log=%q jwt_secret=%s token_ttl=%s",
		c.DBPath, c.Addr, c.AdminUser, c.LogPath, secret, c.TokenTTL)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
