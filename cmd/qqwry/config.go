package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	qqwry "github.com/qqwry/qqwry-golang"
	"github.com/qqwry/qqwry-golang/cache"
	"github.com/qqwry/qqwry-golang/charset"
)

// globalConfig holds the flags shared by every command.
type globalConfig struct {
	path     string
	encoding string
	logLevel string
	cache    string
	cacheLen int

	out    io.Writer
	errOut io.Writer
}

func (c *globalConfig) register(app *kingpin.Application) {
	app.Flag("db", "Path to the database file.").
		Envar("QQWRY_DB").Default("qqwry.dat").StringVar(&c.path)
	app.Flag("encoding", "Text encoding of the strings stored in the database.").
		Envar("QQWRY_ENCODING").Default("gbk").StringVar(&c.encoding)
	app.Flag("cache", "Cache for decoded strings that are shared between ranges.").
		Default("none").EnumVar(&c.cache, "none", "shared", "pooled", "lru")
	app.Flag("cache.entries", "Number of strings kept by the cache.").
		Default("4096").IntVar(&c.cacheLen)
	app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("info").EnumVar(&c.logLevel, "debug", "info", "warn", "error")
}

func (c *globalConfig) logger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(c.errOut))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch c.logLevel {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

func (c *globalConfig) open(logger log.Logger) (*qqwry.Reader, error) {
	cs, err := charset.ByName(c.encoding)
	if err != nil {
		return nil, err
	}

	opts := []qqwry.ReaderOption{qqwry.WithCharset(cs)}
	provider, err := c.cacheProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		opts = append(opts, qqwry.WithCache(provider))
	}

	db, err := qqwry.Open(c.path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	level.Debug(logger).Log("msg", "opened database", "path", c.path,
		"encoding", db.Metadata.Encoding, "cache", c.cache,
		"records", db.Metadata.RecordCount, "version", db.Metadata.Version)
	return db, nil
}

func (c *globalConfig) cacheProvider() (cache.Provider, error) {
	opts := cache.DefaultOptions()
	opts.EntryCount = c.cacheLen

	switch c.cache {
	case "shared":
		return cache.NewSharedProvider(opts), nil
	case "pooled":
		return cache.NewPooledProvider(opts), nil
	case "lru":
		return cache.NewLRUProvider(opts)
	default:
		return nil, nil
	}
}
