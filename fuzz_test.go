package qqwry

import (
	"bytes"
	"testing"

	"github.com/qqwry/qqwry-golang/internal/testdb"
)

// FuzzDatabase tests header parsing, lookups, iteration and verification
// against arbitrary buffers. None of them may panic.
func FuzzDatabase(f *testing.F) {
	f.Add(sampleDatabase())
	f.Add(testdb.New().Bytes())
	f.Add([]byte("not a qqwry file"))
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0xFF}, 1024))
	f.Add(bytes.Repeat([]byte{0x01}, 64))
	f.Add(bytes.Repeat([]byte{0x02}, 64))
	f.Add([]byte{})

	f.Fuzz(func(_ *testing.T, data []byte) {
		reader, err := OpenBytes(data)
		if err != nil {
			return
		}
		defer func() { _ = reader.Close() }()

		for _, ip := range []string{"0.0.0.0", "1.0.1.1", "10.0.0.5", "255.255.255.255"} {
			_, _ = reader.Lookup(ip)
		}

		it := reader.Ranges()
		for n := 0; n < 64 && it.Next(); n++ {
			_ = it.Record()
		}

		if reader.Metadata.RecordCount < 4096 {
			_ = reader.Verify()
		}
	})
}

// FuzzLookup tests lookups of arbitrary text against a valid database.
func FuzzLookup(f *testing.F) {
	reader, err := OpenBytes(sampleDatabase())
	if err != nil {
		f.Fatal(err)
	}

	f.Add("1.0.0.1")
	f.Add("999.1.1.1")
	f.Add("::ffff:1.0.0.1")
	f.Add("")

	f.Fuzz(func(t *testing.T, ip string) {
		rec, err := reader.Lookup(ip)
		if err != nil {
			return
		}
		n, err := ParseIPv4(ip)
		if err != nil {
			t.Fatalf("lookup of %q succeeded but parsing failed: %v", ip, err)
		}
		if n < addrToUint32(rec.Start) || n > addrToUint32(rec.End) {
			t.Fatalf("%s is outside the matched range %s-%s", ip, rec.Start, rec.End)
		}
	})
}
