package main

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"

	qqwry "github.com/qqwry/qqwry-golang"
)

// lookupCommand prints the location and info of each address.
type lookupCommand struct {
	cfg     *globalConfig
	ips     *[]string
	verbose bool
}

func (cmd *lookupCommand) run(_ *kingpin.ParseContext) error {
	logger := cmd.cfg.logger()
	db, err := cmd.cfg.open(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	failed := 0
	for _, ip := range *cmd.ips {
		rec, err := db.Lookup(ip)
		switch {
		case errors.Is(err, qqwry.ErrNotFound), errors.Is(err, qqwry.ErrInvalidAddress):
			level.Warn(logger).Log("msg", "lookup failed", "ip", ip, "err", err)
			failed++
			continue
		case err != nil:
			return err
		}

		if cmd.verbose {
			fmt.Fprintf(cmd.cfg.out, "%s\t%s-%s\t%s, %s\n", ip, rec.Start, rec.End, rec.Location, rec.Info)
			continue
		}
		fmt.Fprintf(cmd.cfg.out, "%s, %s\n", rec.Location, rec.Info)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(*cmd.ips))
	}
	return nil
}

func addLookupCommand(app *kingpin.Application, cfg *globalConfig) {
	cmd := &lookupCommand{cfg: cfg}
	lookup := app.Command("lookup", "Print the location and info of IPv4 addresses.").Default().Action(cmd.run)
	lookup.Flag("verbose", "Also print the matched range.").Short('v').BoolVar(&cmd.verbose)
	cmd.ips = lookup.Arg("ip", "IPv4 address in dotted decimal notation.").Required().Strings()
}
