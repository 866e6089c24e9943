package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and an optional
// .env file, panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional
// .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the exchange process.
type Config struct {
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:":7331"`
	AdminAddr    string `env:"ADMIN_ADDR" envDefault:""`
	ProductsFile string `env:"PRODUCTS_FILE,required"`
	Participants int    `env:"PARTICIPANTS,required"`

	// FeePercent is the percentage of each match value charged to the
	// aggressive order's owner.
	FeePercent int64 `env:"FEE_PERCENT" envDefault:"1"`

	// QueueFactor scales the dispatch queue capacity: capacity is
	// QueueFactor * Participants.
	QueueFactor int `env:"QUEUE_FACTOR" envDefault:"8"`

	Tape TapeConfig `envPrefix:"TAPE_"`
}

// TapeConfig holds the configuration for the optional Kafka fill tape.
// The tape is disabled when no brokers are configured.
type TapeConfig struct {
	Brokers []string `env:"BROKER"`
	Topic   string   `env:"TOPIC" envDefault:"fills"`
}

// TraderConfig holds the configuration for the reference auto-trader.
type TraderConfig struct {
	VenueAddr string `env:"VENUE_ADDR" envDefault:"localhost:7331"`
}
