package gtids

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/wippyai/gtid-sets/conv"
)

// UUIDSize is the number of bytes in a UUID.
const UUIDSize = 16

// uuidSections holds the byte width of the five groups of the text
// form, 8+4+4+4+12 hex digits.
var uuidSections = [...]int{4, 2, 2, 2, 6}

// uuidHex writes uppercase digits and accepts either case.
var uuidHex = conv.Hex{Case: conv.HexUpper}

// UUID identifies a server: 16 raw bytes, written as 32 hex digits in
// five groups. Encoding uses uppercase digits with "-" between groups.
// Decoding accepts either case, an optional surrounding brace pair,
// and group separators that are either present at every boundary or
// absent at every boundary; a braced UUID must carry them.
type UUID [UUIDSize]byte

// ParseUUID reads a UUID from its text form.
func ParseUUID(s string) (UUID, error) {
	var u UUID
	if r := conv.Decode(conv.In(conv.Text{}), s, &u); !r.IsOk() {
		return UUID{}, resultError(r)
	}
	return u, nil
}

// FromGoogle converts a github.com/google/uuid value.
func FromGoogle(g uuid.UUID) UUID { return UUID(g) }

// ToGoogle converts to a github.com/google/uuid value, whose String
// method renders the RFC 4122 lowercase form.
func (u UUID) ToGoogle() uuid.UUID { return uuid.UUID(u) }

// IsZero reports whether every byte is zero.
func (u UUID) IsZero() bool { return u == UUID{} }

// Cmp compares byte-wise.
func (u UUID) Cmp(other UUID) int { return bytes.Compare(u[:], other[:]) }

// String returns the uppercase text form.
func (u UUID) String() string { return conv.EncodeToString(conv.Text{}, u) }

// ConvEncode implements conv.Encoder for the plain text and binary
// formats; domain formats reach these through their parent chains.
func (u UUID) ConvEncode(f conv.Format, t *conv.Target) bool {
	switch f.(type) {
	case conv.Text:
		off := 0
		for i, size := range uuidSections {
			if i != 0 {
				t.WriteChar('-')
			}
			t.WriteValue(uuidHex, u[off:off+size])
			off += size
		}
	case conv.Binary:
		t.WriteRawBytes(u[:])
	default:
		return false
	}
	return true
}

// ConvDecode implements conv.Decoder. The binary form is the 16 raw
// bytes.
func (u *UUID) ConvDecode(f conv.Format, p *conv.Parser) bool {
	switch f.(type) {
	case conv.Text:
		u.decodeText(f, p)
	case conv.Binary:
		var n int
		p.ReadToOutStr(conv.In(conv.FixstrBinary{Size: UUIDSize}),
			conv.NewOutStrFixed(u[:], &n))
	default:
		return false
	}
	return true
}

// decodeText recognizes braced and unbraced forms. Whether boundaries
// carry a "-" is decided at the first one; the rest must agree.
func (u *UUID) decodeText(f conv.Format, p *conv.Parser) {
	const (
		sepUnknown = iota
		sepYes
		sepNo
	)
	p.Skip(conv.Options{Format: f, Repeat: conv.Optional()}, "{")
	braced := p.Found()
	sep := sepUnknown
	if braced {
		sep = sepYes
	}
	off := 0
	for i, size := range uuidSections {
		if i != 0 {
			switch sep {
			case sepUnknown:
				p.Skip(conv.Options{Format: f, Repeat: conv.Optional()}, "-")
				if p.Found() {
					sep = sepYes
				} else {
					sep = sepNo
				}
			case sepYes:
				if !p.Skip(conv.In(f), "-") {
					return
				}
			}
		}
		var n int
		if !p.ReadToOutStr(conv.Options{Format: uuidHex, Repeat: conv.Exactly(size)},
			conv.NewOutStrFixed(u[off:off+size], &n)) {
			return
		}
		off += size
	}
	if braced {
		p.Skip(conv.In(f), "}")
	}
}
