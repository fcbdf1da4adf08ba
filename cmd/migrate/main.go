// Command migrate applies or rolls back the schema migrations under
// the migrations directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/viper"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	source := flag.String("source", "file://migrations", "migration source URL")
	direction := flag.String("direction", "up", "up or down")
	steps := flag.Int("steps", 0, "number of steps to apply (0 applies everything)")
	flag.Parse()

	if err := run(*configPath, *source, *direction, *steps); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, source, direction string, steps int) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var dbCfg config.DatabaseConfig
	if err := v.Sub("database").Unmarshal(&dbCfg); err != nil {
		return fmt.Errorf("parsing database config: %w", err)
	}

	m, err := migrate.New(source, dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return fmt.Errorf("invalid direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("schema already current")
		return nil
	}
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil {
		return fmt.Errorf("reading schema version: %w", verr)
	}
	fmt.Printf("schema at version %d (dirty=%v)\n", version, dirty)
	return nil
}
