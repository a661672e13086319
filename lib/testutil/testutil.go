package testutil

import (
	"database/sql"
	"fmt"
	devenv "hockeystats-backend/dev/env"
	"hockeystats-backend/lib/telemetry"
	"testing"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService prepares telemetry and a sqlite database for a test, the
// database is closed when the test ends.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	t.Cleanup(cleanup)

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is its own database
	sqlite.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlite.Close()
	})

	if params.DbSchema != "" {
		_, err = sqlite.Exec(params.DbSchema)
		if err != nil {
			t.Fatal(err)
		}
	}

	return ServiceResult{
		DB: sqlite,
	}
}
