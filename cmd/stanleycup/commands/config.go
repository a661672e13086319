package commands

import (
	"context"
	"database/sql"
	"hockeystats-backend/internal/telemetry"
	"hockeystats-backend/lib/configutil"
	configlibsql "hockeystats-backend/lib/configutil/libsql"
	"hockeystats-backend/lib/restyutil"
	"hockeystats-backend/lib/scrapers/wikipedia"
	"hockeystats-backend/lib/stanleycup"
	"time"
)

type HttpConfig struct {
	TimeoutSeconds   int    `json:"timeout_seconds"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	// DumpDir is where full request/response dumps are written, empty
	// disables them.
	DumpDir string `json:"dump_dir"`
}

type Config struct {
	Source   stanleycup.Source   `json:"source"`
	Database configlibsql.Struct `json:"database"`
	Http     HttpConfig          `json:"http"`
}

func DefaultConfig() Config {
	return Config{
		Source: stanleycup.DefaultSource(),
		Database: configlibsql.Struct{
			File: "stanley_cup.db",
		},
		Http: HttpConfig{
			TimeoutSeconds: 30,
			UserAgent:      wikipedia.DefaultUserAgent,
		},
	}
}

// LoadConfig reads the config at path over the defaults, a missing file
// just means the defaults.
func LoadConfig(path string) (Config, error) {
	return configutil.ReadOptional(path, DefaultConfig)
}

func (c Config) NewClient(tel telemetry.API) (*wikipedia.Client, error) {
	var dump restyutil.InstrumentOutput
	if c.Http.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(c.Http.DumpDir)
		if err != nil {
			return nil, err
		}
		dump = out
	}
	return wikipedia.NewClient(wikipedia.ClientOptions{
		Timeout:          time.Duration(c.Http.TimeoutSeconds) * time.Second,
		UserAgent:        c.Http.UserAgent,
		CloudflareBypass: c.Http.CloudflareBypass,
		Dump:             dump,
		Tel:              tel,
	}), nil
}

// OpenStore opens the configured database and makes sure the table exists.
func (c Config) OpenStore(ctx context.Context) (stanleycup.Store, *sql.DB, error) {
	database, err := c.Database.OpenDB()
	if err != nil {
		return stanleycup.Store{}, nil, err
	}
	store := stanleycup.NewStore(database)
	err = store.Init(ctx)
	if err != nil {
		database.Close()
		return stanleycup.Store{}, nil, err
	}
	return store, database, nil
}
