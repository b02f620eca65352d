package qqwry

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ParseIPv4 parses a dotted-decimal IPv4 address into the big-endian integer
// form used as the index key, so that numeric order matches address order.
//
// Only the four-octet form is accepted. IPv6 and IPv4-mapped IPv6 literals,
// zones and octets with leading zeros fail with ErrInvalidAddress.
func ParseIPv4(s string) (uint32, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidAddress, s)
	}
	return addrToUint32(addr), nil
}

func addrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

func uint32ToAddr(ip uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], ip)
	return netip.AddrFrom4(b)
}
