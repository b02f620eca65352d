package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
)

// verifyCommand checks the integrity of the whole database.
type verifyCommand struct {
	cfg *globalConfig
}

func (cmd *verifyCommand) run(_ *kingpin.ParseContext) error {
	logger := cmd.cfg.logger()
	db, err := cmd.cfg.open(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	if err := db.Verify(); err != nil {
		return fmt.Errorf("database is invalid: %w", err)
	}
	level.Info(logger).Log("msg", "database is valid", "path", cmd.cfg.path,
		"ranges", db.Metadata.RecordCount, "duration", time.Since(start))
	return nil
}

func addVerifyCommand(app *kingpin.Application, cfg *globalConfig) {
	cmd := &verifyCommand{cfg: cfg}
	app.Command("verify", "Check that every index record and string decodes.").Action(cmd.run)
}
