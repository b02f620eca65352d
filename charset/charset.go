// Package charset converts the legacy text stored in a QQWry database into
// UTF-8.
//
// The database stores every string as a NUL-terminated GBK byte sequence.
// Decoding is isolated behind Decoder so readers can be configured for
// GB18030 dumps, pre-converted UTF-8 files, or any IANA-registered encoding
// without touching offset arithmetic.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// Decoder transcodes raw string bytes from the database into UTF-8.
//
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(raw []byte) (string, error)
	Name() string
}

var (
	// GBK decodes the encoding used by published QQWry databases. Like
	// the WHATWG gbk decoder it accepts the four-byte GB18030 sequences
	// that newer databases use for rare characters.
	GBK Decoder = encodingDecoder{name: "gbk", enc: simplifiedchinese.GB18030}
	// GB18030 decodes the GBK superset.
	GB18030 Decoder = encodingDecoder{name: "gb18030", enc: simplifiedchinese.GB18030}
	// UTF8 passes valid UTF-8 through, replacing invalid sequences.
	UTF8 Decoder = encodingDecoder{name: "utf-8", enc: unicode.UTF8}
)

// ByName returns a Decoder for the given encoding name. The short names
// gbk, gb18030 and utf-8 map to the package level decoders; anything else
// is resolved through the IANA registry.
func ByName(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gbk", "cp936":
		return GBK, nil
	case "gb18030":
		return GB18030, nil
	case "utf-8", "utf8":
		return UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("looking up encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return encodingDecoder{name: strings.ToLower(name), enc: enc}, nil
}

type encodingDecoder struct {
	enc  encoding.Encoding
	name string
}

func (d encodingDecoder) Decode(raw []byte) (string, error) {
	if isASCII(raw) {
		return string(raw), nil
	}
	// encoding.Decoder carries transform state, so one is created per call.
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", d.name, err)
	}
	return string(out), nil
}

func (d encodingDecoder) Name() string {
	return d.name
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
