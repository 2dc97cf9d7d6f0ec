// /internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/guildbot/pkg/util"
)

// Color is an embed color read from the environment as "#rrggbb", "0xrrggbb" or decimal.
type Color int

func (c *Color) UnmarshalText(text []byte) error {
	v, err := util.ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = Color(v)
	return nil
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`

	DefaultPrefix string   `env:"DEFAULT_PREFIX" envDefault:"!"`
	DefaultTheme  Color    `env:"DEFAULT_THEME" envDefault:"0xb01e66"`
	Logo          []string `env:"LOGO" envSeparator:"|" envDefault:"guildbot|prefix commands for Discord guilds"`

	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"datastore"`
	StoragePath     string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	StorageAttempts int           `env:"STORAGE_ATTEMPTS" envDefault:"3"`
	MongoURI        string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string        `env:"MONGO_DATABASE" envDefault:"guildbot"`
	MongoTimeout    time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`

	DisabledCommands []string `env:"DISABLED_COMMANDS" envSeparator:","`
	CommandRate      float64  `env:"COMMAND_RATE" envDefault:"1"`
	CommandBurst     int      `env:"COMMAND_BURST" envDefault:"3"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New reads .env (if present) and the process environment.
func New() (*Config, error) {
	// A missing .env is normal in containers; the environment still applies.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.StorageDriver {
	case "datastore", "mongo", "memory":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.DefaultPrefix == "" {
		return nil, fmt.Errorf("DEFAULT_PREFIX cannot be empty")
	}

	return &cfg, nil
}
