package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// infoCommand prints the database metadata.
type infoCommand struct {
	cfg *globalConfig
}

func (cmd *infoCommand) run(_ *kingpin.ParseContext) error {
	db, err := cmd.cfg.open(cmd.cfg.logger())
	if err != nil {
		return err
	}
	defer db.Close()

	m := db.Metadata
	out := cmd.cfg.out
	bold := color.New(color.Bold)
	bold.Fprintln(out, "Database:")
	fmt.Fprintf(out, "\tpath: %s, size: %v\n", cmd.cfg.path, humanize.Bytes(uint64(m.Size)))
	fmt.Fprintf(out, "\tversion: %s, encoding: %s\n", m.Version, m.Encoding)
	bold.Fprintln(out, "Index:")
	fmt.Fprintf(out, "\tranges: %s, start: %d, end: %d\n",
		humanize.Comma(int64(m.RecordCount)), m.IndexStart, m.IndexEnd)
	return nil
}

func addInfoCommand(app *kingpin.Application, cfg *globalConfig) {
	cmd := &infoCommand{cfg: cfg}
	app.Command("info", "Print the database version and index layout.").Action(cmd.run)
}
