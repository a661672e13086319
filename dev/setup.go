package main

import (
	"fmt"
	devenv "hockeystats-backend/dev/env"
	configlibsql "hockeystats-backend/lib/configutil/libsql"
	"hockeystats-backend/lib/stanleycup/db"
	"os"
	"path/filepath"
)

const devDatabase = "<dev_state>/stanley_cup.db"

func CreateEmptyDB() error {
	path, err := devenv.ResolvePath(devDatabase)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	database, err := configlibsql.Struct{File: devDatabase}.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()
	_, err = database.Exec(db.Schema)
	return err
}

const localConfig = `{
	// written by dev/, points the cli at the dev state directory
	database: {
		file: "<dev_state>/stanley_cup.db",
	},
	http: {
		dump_dir: "<dev_state>/resty",
	},
}
`

func WriteLocalConfig() error {
	path := filepath.Join(".", "stanleycup.local.json5")
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println("local config already exists at", path)
		return nil
	}
	fmt.Println("writing local config to", path)
	return os.WriteFile(path, []byte(localConfig), 0644)
}
