package roundid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "IDs not sorted: %s >= %s", ids[i-1], ids[i])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := uuid.MustParse("018f3a1c-7b2d-7c3e-8f40-123456789abc")

	encoded := Encode(want)
	require.NoError(t, Validate(encoded))

	got, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := Generate()
	after := time.Now().Add(time.Second)

	ts, err := Time(id)
	require.NoError(t, err)
	assert.True(t, ts.After(before) && ts.Before(after), "timestamp %v outside [%v, %v]", ts, before, after)
}

func TestGeneratorWithReader(t *testing.T) {
	seed := bytes.Repeat([]byte{0xab}, 64)
	gen := NewGenerator(bytes.NewReader(seed))

	id := gen.Generate()
	require.NoError(t, Validate(id))

	decoded, err := Decode(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), decoded.Version())
}

func TestGeneratorFallsBackWhenReaderFails(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(nil))
	assert.NoError(t, Validate(gen.Generate()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid ID", id: "01h5n0et5q6mt3v7ms1234abcd", wantErr: false},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "first char too high", id: "81h5n0et5q6mt3v7ms1234abcd", wantErr: true},
		{name: "invalid character", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
		{name: "uppercase not allowed", id: "01H5N0ET5Q6MT3V7MS1234ABCD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := Decode("not-an-id")
	assert.Error(t, err)

	_, err = Time("01h5n0et5q6mt3v7ms1234abci")
	assert.Error(t, err)
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, alphabet, 32)

	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character in alphabet: %c", char)
		seen[char] = true
	}
	for _, char := range "ilou" {
		assert.NotContains(t, alphabet, string(char))
	}
}
