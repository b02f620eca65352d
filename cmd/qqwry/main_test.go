package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqwry/qqwry-golang/internal/testdb"
)

const testVersion = "2024年10月23日IP数据"

func writeTestDatabase(t *testing.T) string {
	t.Helper()

	b := testdb.New()
	beijing := b.String("北京市")
	telecom := b.String("电信")

	b.InlineRange(testdb.IPv4(0, 0, 0, 0), testdb.IPv4(0, 255, 255, 255), "IANA", "保留地址")
	mixed := b.Uint32(testdb.IPv4(1, 0, 3, 255))
	b.Pointer(0x02, beijing)
	b.Pointer(0x01, telecom)
	b.Range(testdb.IPv4(1, 0, 1, 0), mixed)
	b.InlineRange(testdb.IPv4(10, 0, 0, 0), testdb.IPv4(10, 255, 255, 255), "局域网", "")
	b.InlineRange(testdb.IPv4(255, 255, 255, 0), testdb.IPv4(255, 255, 255, 255), "纯真网络", testVersion)

	path := filepath.Join(t.TempDir(), "qqwry.dat")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	color.NoColor = true

	app, cfg := newApp()
	var out, errOut bytes.Buffer
	cfg.out = &out
	cfg.errOut = &errOut

	_, err = app.Parse(args)
	return out.String(), errOut.String(), err
}

func TestLookupCommand(t *testing.T) {
	path := writeTestDatabase(t)

	out, _, err := run(t, "--db", path, "lookup", "1.0.1.5", "10.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "北京市, 电信\n局域网, \n", out)
}

func TestLookupIsDefaultCommand(t *testing.T) {
	path := writeTestDatabase(t)

	out, _, err := run(t, "--db", path, "0.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "IANA, 保留地址\n", out)
}

func TestLookupVerbose(t *testing.T) {
	path := writeTestDatabase(t)

	out, _, err := run(t, "--db", path, "--cache=lru", "lookup", "-v", "1.0.2.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.2.0\t1.0.1.0-1.0.3.255\t北京市, 电信\n", out)
}

func TestLookupFailures(t *testing.T) {
	path := writeTestDatabase(t)

	out, logs, err := run(t, "--db", path, "lookup", "8.8.8.8", "1.2.3", "10.0.0.1")
	require.EqualError(t, err, "2 of 3 lookups failed")
	assert.Equal(t, "局域网, \n", out)
	assert.Contains(t, logs, "level=warn")
	assert.Contains(t, logs, "ip=8.8.8.8")
	assert.Contains(t, logs, "ip=1.2.3")
}

func TestLookupLogLevelFilter(t *testing.T) {
	path := writeTestDatabase(t)

	_, logs, err := run(t, "--db", path, "--log.level", "error", "lookup", "8.8.8.8")
	require.Error(t, err)
	assert.Empty(t, logs)

	_, logs, err = run(t, "--db", path, "--log.level", "debug", "lookup", "10.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, logs, `msg="opened database"`)
	assert.Contains(t, logs, "records=4")
}

func TestCacheProviders(t *testing.T) {
	path := writeTestDatabase(t)

	for _, name := range []string{"none", "shared", "pooled", "lru"} {
		t.Run(name, func(t *testing.T) {
			out, _, err := run(t, "--db", path, "--cache", name, "--cache.entries", "16",
				"lookup", "1.0.1.5", "1.0.3.0")
			require.NoError(t, err)
			assert.Equal(t, "北京市, 电信\n北京市, 电信\n", out)
		})
	}

	_, _, err := run(t, "--db", path, "--cache", "bogus", "info")
	require.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	path := writeTestDatabase(t)

	out, _, err := run(t, "--db", path, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Database:")
	assert.Contains(t, out, "version: "+testVersion+", encoding: gbk")
	assert.Contains(t, out, "ranges: 4,")
	assert.Contains(t, out, "path: "+path)
}

func TestVerifyCommand(t *testing.T) {
	path := writeTestDatabase(t)

	_, logs, err := run(t, "--db", path, "verify")
	require.NoError(t, err)
	assert.Contains(t, logs, `msg="database is valid"`)
	assert.Contains(t, logs, "ranges=4")
}

func TestVerifyCommandCorrupt(t *testing.T) {
	path := writeTestDatabase(t)
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	buf = buf[:len(buf)-3]
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	_, _, err = run(t, "--db", path, "verify")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "database is invalid: "), err.Error())
}

func TestDumpCommand(t *testing.T) {
	path := writeTestDatabase(t)

	out, _, err := run(t, "--db", path, "dump")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0.0.0.0\t0.255.255.255\tIANA\t保留地址", lines[0])
	assert.Equal(t, "1.0.1.0\t1.0.3.255\t北京市\t电信", lines[1])
	assert.Equal(t, "255.255.255.0\t255.255.255.255\t纯真网络\t"+testVersion, lines[3])

	out, _, err = run(t, "--db", path, "dump", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0\t0.255.255.255\tIANA\t保留地址\n", out)
}

func TestOpenErrors(t *testing.T) {
	_, _, err := run(t, "--db", filepath.Join(t.TempDir(), "missing.dat"), "info")
	require.ErrorIs(t, err, os.ErrNotExist)

	path := writeTestDatabase(t)
	_, _, err = run(t, "--db", path, "--encoding", "no-such-charset", "info")
	require.Error(t, err)
}

func TestDatabaseFromEnvironment(t *testing.T) {
	t.Setenv("QQWRY_DB", writeTestDatabase(t))

	out, _, err := run(t, "lookup", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "局域网, \n", out)
}
