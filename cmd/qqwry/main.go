// Command qqwry queries a QQWry IPv4 geolocation database.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
)

func main() {
	app, cfg := newApp()
	if _, err := app.Parse(os.Args[1:]); err != nil {
		level.Error(cfg.logger()).Log("msg", "command failed", "err", err)
		os.Exit(1)
	}
}

func newApp() (*kingpin.Application, *globalConfig) {
	app := kingpin.New("qqwry", "Query a QQWry IPv4 geolocation database.")
	app.HelpFlag.Short('h')

	cfg := &globalConfig{out: os.Stdout, errOut: os.Stderr}
	cfg.register(app)

	addLookupCommand(app, cfg)
	addInfoCommand(app, cfg)
	addVerifyCommand(app, cfg)
	addDumpCommand(app, cfg)
	return app, cfg
}
