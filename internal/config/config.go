package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	config *Configuration
)

type Configuration struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	// Storage is optional; without MONGO_ADDRESS puzzle sets live in memory.
	Database struct {
		Address          string `envconfig:"MONGO_ADDRESS"`
		DatabaseName     string `envconfig:"MONGO_DATABASE" default:"puzzles"`
		PuzzleCollection string `envconfig:"MONGO_PUZZLE_COLLECTION" default:"puzzle_sets"`
		SolveCollection  string `envconfig:"MONGO_SOLVE_COLLECTION" default:"solves"`
	}
	Widget struct {
		DefaultLocale    string        `envconfig:"WIDGET_DEFAULT_LOCALE" default:"ru"`
		CatalogPath      string        `envconfig:"WIDGET_CATALOG_PATH"`
		ReplyDelay       time.Duration `envconfig:"WIDGET_REPLY_DELAY" default:"500ms"`
		BranchDelay      time.Duration `envconfig:"WIDGET_BRANCH_DELAY" default:"1500ms"`
		BranchReplyDelay time.Duration `envconfig:"WIDGET_BRANCH_REPLY_DELAY" default:"800ms"`
		SnapBackDelay    time.Duration `envconfig:"WIDGET_SNAPBACK_DELAY" default:"200ms"`
		Animation        time.Duration `envconfig:"WIDGET_ANIMATION" default:"300ms"`
		SessionTTL       time.Duration `envconfig:"WIDGET_SESSION_TTL" default:"30m"`
	}
}

func InitConfig() (*Configuration, error) {
	config = &Configuration{}
	err := envconfig.Process("", config)
	return config, err
}

func (c *Configuration) StorageEnabled() bool {
	return c.Database.Address != ""
}

func (c *Configuration) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
