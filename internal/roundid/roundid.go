// Package roundid generates identifiers for dealt rounds.
//
// An id is a UUIDv7 written as 26 characters of lowercase Crockford base32,
// so ids sort by creation time and survive being pasted into a log search.
package roundid

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Base32 alphabet (Crockford's, lowercase)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded id
const Length = 26

// Generator creates round ids from a configurable source of randomness
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a round id using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new round id. If the reader fails the id falls back to
// crypto/rand rather than returning an error.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	}
	if g.rand == nil || err != nil {
		id = uuid.Must(uuid.NewV7())
	}
	return Encode(id)
}

// Encode writes a UUID as 26 base32 characters. The final character carries
// two zero padding bits.
func Encode(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(Length)

	for i := 0; i < Length; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if bitIndex <= 3 {
			value = (id[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (id[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(id) {
				value |= id[byteIndex+1] >> (11 - bitIndex)
			}
		}
		b.WriteByte(alphabet[value])
	}

	return b.String()
}

// Decode parses an encoded id back into its UUID
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}

	var acc uint16
	bits := 0
	n := 0
	for i := 0; i < len(s) && n < len(id); i++ {
		acc = acc<<5 | uint16(strings.IndexByte(alphabet, s[i]))
		bits += 5
		if bits >= 8 {
			bits -= 8
			id[n] = byte(acc >> bits)
			n++
		}
	}
	return id, nil
}

// Time returns the creation time embedded in an id, to millisecond precision
func Time(s string) (time.Time, error) {
	id, err := Decode(s)
	if err != nil {
		return time.Time{}, err
	}
	if id.Version() != 7 {
		return time.Time{}, fmt.Errorf("round ID is version %d, not 7", id.Version())
	}

	var ms int64
	for _, b := range id[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms), nil
}

// Validate checks if a round ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	// The leading character holds the top bits of the timestamp.
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}

	return nil
}
