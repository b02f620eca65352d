//go:build appengine || plan9 || js || wasip1 || wasi

package qqwry

import "errors"

// mmap is unavailable here; Open reads the file into memory instead.
func mmap(int, int) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func munmap([]byte) error {
	return nil
}
