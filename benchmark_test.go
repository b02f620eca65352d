package qqwry

import (
	"math/rand"
	"net/netip"
	"testing"

	"github.com/qqwry/qqwry-golang/cache"
)

func BenchmarkLookup(b *testing.B) {
	reader := openSample(b)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := reader.Lookup("1.0.9.1"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookupAddrSharedCache(b *testing.B) {
	reader := openSample(b, WithCache(cache.NewSharedProvider(cache.DefaultOptions())))
	addr := netip.MustParseAddr("1.0.9.1")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := reader.LookupAddr(addr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookupRandomParallel(b *testing.B) {
	reader := openSample(b)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(42))
		for pb.Next() {
			// Not found is expected for most of the address space.
			_, _ = reader.LookupUint32(r.Uint32())
		}
	})
}
