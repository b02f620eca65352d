package qqwry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qqwry/qqwry-golang/internal/testdb"
)

const sampleVersion = "2024年10月23日IP数据"

// sampleDatabase builds a database exercising every record layout found in
// published files.
func sampleDatabase() []byte {
	b := testdb.New()

	beijing := b.String("北京市")
	telecom := b.String("电信")
	unicom := b.String("联通")

	b.InlineRange(testdb.IPv4(0, 0, 0, 0), testdb.IPv4(0, 255, 255, 255), "IANA", "保留地址")
	b.InlineRange(testdb.IPv4(1, 0, 0, 0), testdb.IPv4(1, 0, 0, 255), "美国", "APNIC&CloudFlare公共DNS服务器")

	// Country redirected, area redirected from the record itself.
	mixed := b.Uint32(testdb.IPv4(1, 0, 3, 255))
	b.Pointer(0x02, beijing)
	b.Pointer(0x01, telecom)
	b.Range(testdb.IPv4(1, 0, 1, 0), mixed)

	// Whole body redirected to an inline body.
	inlineBody := b.String("福建省")
	b.Pointer(0x02, telecom)
	full := b.Uint32(testdb.IPv4(1, 0, 7, 255))
	b.Pointer(0x01, inlineBody)
	b.Range(testdb.IPv4(1, 0, 4, 0), full)

	// Whole body redirected to a body whose country is redirected again.
	mixedBody := b.Pointer(0x02, beijing)
	b.Pointer(0x01, unicom)
	nested := b.Uint32(testdb.IPv4(1, 0, 15, 255))
	b.Pointer(0x01, mixedBody)
	b.Range(testdb.IPv4(1, 0, 8, 0), nested)

	b.InlineRange(testdb.IPv4(10, 0, 0, 0), testdb.IPv4(10, 255, 255, 255), "局域网", "")
	b.InlineRange(testdb.IPv4(255, 255, 255, 0), testdb.IPv4(255, 255, 255, 255), "纯真网络", sampleVersion)

	return b.Bytes()
}

func writeDatabase(t testing.TB, buf []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qqwry.dat")
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func openSample(t testing.TB, opts ...ReaderOption) *Reader {
	t.Helper()
	reader, err := Open(writeDatabase(t, sampleDatabase()), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })
	return reader
}
