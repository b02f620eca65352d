package qqwry

import (
	"github.com/qqwry/qqwry-golang/cache"
	"github.com/qqwry/qqwry-golang/charset"
)

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	charset       charset.Decoder
	cacheProvider cache.Provider
}

func newReaderOptions(opts []ReaderOption) readerOptions {
	o := readerOptions{
		charset:       charset.GBK,
		cacheProvider: cache.NewNoCacheProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCharset sets the decoder used for the strings stored in the database.
// The default is GBK.
func WithCharset(cs charset.Decoder) ReaderOption {
	return func(o *readerOptions) {
		if cs != nil {
			o.charset = cs
		}
	}
}

// WithCache sets the provider of caches for decoded strings. By default
// nothing is cached and lookups take no locks.
//
// A provider holds strings keyed by database offset and must not be shared
// between readers.
func WithCache(p cache.Provider) ReaderOption {
	return func(o *readerOptions) {
		if p != nil {
			o.cacheProvider = p
		}
	}
}
