// Package qqwry reads the QQWry IPv4 geolocation database.
//
// A database is one flat file: an 8-byte header holding the bounds of an
// index table, the table itself with one 7-byte record per address range,
// and a record area of GBK strings that records share through redirects.
// Lookups return the location and info (usually ISP) strings of the range
// containing an address.
//
// A Reader never modifies its buffer, so one Reader may serve lookups from
// any number of goroutines.
package qqwry

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"runtime"

	"github.com/qqwry/qqwry-golang/cache"
	"github.com/qqwry/qqwry-golang/internal/decoder"
	"github.com/qqwry/qqwry-golang/internal/qqerrors"
)

const headerSize = 8

// Reader holds the data corresponding to the QQWry database file. Its only
// public field is Metadata, which describes the index.
type Reader struct {
	Metadata      Metadata
	buffer        []byte
	decoder       decoder.DataDecoder
	index         decoder.Index
	cacheProvider cache.Provider
	hasMappedFile bool
}

// Metadata holds the layout and release information of the database.
type Metadata struct {
	// Version is the info string of the last range, where published
	// databases record their release date. It is empty if that record
	// could not be decoded.
	Version string

	// Encoding names the charset used to decode strings.
	Encoding string

	IndexStart  uint
	IndexEnd    uint
	RecordCount uint
	Size        uint
}

// Record is the result of a lookup.
type Record struct {
	// Location is the country, province or city of the range.
	Location string
	// Info is the supplementary string, usually the ISP or organization.
	Info string
	// Start and End are the inclusive bounds of the matched range.
	Start netip.Addr
	End   netip.Addr
	// Offset is the position of the record in the database. Ranges sharing
	// an offset share their strings.
	Offset uint
}

// Open takes a string path to a QQWry database file and any options. It
// returns a Reader structure or an error. The database file is opened using
// a memory map on supported platforms. On platforms without memory map
// support the file is read into memory. Use the Close method on the Reader
// object to return the resources to the system.
func Open(file string, opts ...ReaderOption) (*Reader, error) {
	mapFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer mapFile.Close() //nolint:errcheck // error is generally not relevant

	stats, err := mapFile.Stat()
	if err != nil {
		return nil, err
	}

	// mmapping an empty file returns -EINVAL on Unix platforms, and
	// ERROR_FILE_INVALID on Windows.
	size64 := stats.Size()
	if size64 < headerSize {
		return nil, qqerrors.NewInvalidDatabaseError(
			"error opening database: file is %d bytes, smaller than the header", size64)
	}
	if int64(int(size64)) != size64 {
		return nil, errors.New("file too large")
	}

	size := int(size64)
	mapped := true
	data, err := mmap(int(mapFile.Fd()), size)
	if errors.Is(err, errors.ErrUnsupported) {
		mapped = false
		data, err = io.ReadAll(mapFile)
	}
	if err != nil {
		return nil, err
	}

	reader, err := OpenBytes(data, opts...)
	if err != nil {
		if mapped {
			_ = munmap(data)
		}
		return nil, err
	}

	reader.hasMappedFile = mapped
	runtime.SetFinalizer(reader, (*Reader).Close)
	return reader, nil
}

// OpenBytes takes a byte slice corresponding to a QQWry database file and
// returns a Reader structure or an error. The buffer must not be modified
// while the Reader is in use.
func OpenBytes(buffer []byte, opts ...ReaderOption) (*Reader, error) {
	o := newReaderOptions(opts)

	d := decoder.NewDataDecoder(buffer, o.charset)
	indexStart, err := d.Uint32(0)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	indexEnd, err := d.Uint32(4)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	index := decoder.NewIndex(d, uint(indexStart), uint(indexEnd))
	reader := &Reader{
		buffer:        buffer,
		decoder:       d,
		index:         index,
		cacheProvider: o.cacheProvider,
		Metadata: Metadata{
			IndexStart:  uint(indexStart),
			IndexEnd:    uint(indexEnd),
			Encoding:    d.Charset().Name(),
			RecordCount: index.Len(),
			Size:        uint(len(buffer)),
		},
	}
	reader.Metadata.Version = reader.version()
	return reader, nil
}

// version decodes the info string of the last range. Failures are not
// reported; Verify covers them.
func (r *Reader) version() string {
	if r.index.Len() == 0 {
		return ""
	}
	entry, err := r.index.Entry(r.index.Len() - 1)
	if err != nil {
		return ""
	}
	rec, err := r.decode(entry)
	if err != nil {
		return ""
	}
	return rec.Info
}

// Lookup retrieves the database record for the IPv4 address in dotted
// decimal notation. It returns ErrInvalidAddress if ip cannot be parsed,
// ErrNotFound if no range contains it, and an InvalidDatabaseError if the
// record is corrupt.
func (r *Reader) Lookup(ip string) (Record, error) {
	n, err := ParseIPv4(ip)
	if err != nil {
		return Record{}, err
	}
	return r.LookupUint32(n)
}

// LookupAddr is like Lookup but takes a parsed address. Only IPv4 addresses
// are supported; IPv4-mapped IPv6 addresses are unmapped first.
func (r *Reader) LookupAddr(addr netip.Addr) (Record, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return Record{}, fmt.Errorf("%w: %s is not an IPv4 address", ErrInvalidAddress, addr)
	}
	return r.LookupUint32(addrToUint32(addr))
}

// LookupUint32 looks up an address already in integer form, where a.b.c.d
// is a<<24|b<<16|c<<8|d.
func (r *Reader) LookupUint32(ip uint32) (Record, error) {
	if r.buffer == nil {
		return Record{}, errors.New("cannot call Lookup on a closed database")
	}

	entry, ok, err := r.index.Find(ip)
	if err != nil {
		return Record{}, fmt.Errorf("error looking up %s: %w", uint32ToAddr(ip), err)
	}
	// Offset 0 is the header, never a record.
	if !ok || entry.Offset == 0 {
		return Record{}, fmt.Errorf("error looking up %s: %w", uint32ToAddr(ip), ErrNotFound)
	}

	rec, err := r.decode(entry)
	if err != nil {
		return Record{}, fmt.Errorf("error looking up %s: %w", uint32ToAddr(ip), err)
	}
	return rec, nil
}

func (r *Reader) decode(entry decoder.IndexEntry) (Record, error) {
	c := r.cacheProvider.Acquire()
	defer r.cacheProvider.Release(c)

	location, info, err := decoder.NewDecoder(r.decoder, c, entry.Offset).Decode()
	if err != nil {
		return Record{}, err
	}
	return Record{
		Location: location,
		Info:     info,
		Start:    uint32ToAddr(entry.Start),
		End:      uint32ToAddr(entry.End),
		Offset:   entry.Offset,
	}, nil
}

// Close returns the resources used by the database to the system.
func (r *Reader) Close() error {
	var err error
	if r.hasMappedFile {
		runtime.SetFinalizer(r, nil)
		r.hasMappedFile = false
		err = munmap(r.buffer)
	}
	r.buffer = nil
	return err
}
