package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

// dumpCommand prints every range in the database.
type dumpCommand struct {
	cfg   *globalConfig
	limit uint
}

func (cmd *dumpCommand) run(_ *kingpin.ParseContext) error {
	db, err := cmd.cfg.open(cmd.cfg.logger())
	if err != nil {
		return err
	}
	defer db.Close()

	it := db.Ranges()
	for n := uint(0); (cmd.limit == 0 || n < cmd.limit) && it.Next(); n++ {
		rec := it.Record()
		fmt.Fprintf(cmd.cfg.out, "%s\t%s\t%s\t%s\n", rec.Start, rec.End, rec.Location, rec.Info)
	}
	return it.Err()
}

func addDumpCommand(app *kingpin.Application, cfg *globalConfig) {
	cmd := &dumpCommand{cfg: cfg}
	dump := app.Command("dump", "Print every range as start, end, location and info.").Action(cmd.run)
	dump.Flag("limit", "Stop after this many ranges; 0 prints all.").Default("0").UintVar(&cmd.limit)
}
