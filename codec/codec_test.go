package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
	before1970 := time.Date(1950, 1, 1, 0, 0, 0, 1, time.UTC)

	w := NewWriter(FormatV1)
	w.String("héllo")
	w.String("")
	w.Byte(7)
	w.Uint32(4000000000)
	w.Time(start)
	w.Time(before1970)
	w.OptionalTime(nil)
	w.OptionalTime(&start)
	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data, FormatV1)
	assert.Equal(t, "héllo", r.String())
	assert.Equal(t, "", r.String())
	assert.Equal(t, byte(7), r.Byte())
	assert.Equal(t, uint32(4000000000), r.Uint32())
	assert.Equal(t, start, r.Time())
	assert.Equal(t, before1970, r.Time())
	assert.Nil(t, r.OptionalTime())
	got := r.OptionalTime()
	require.NotNil(t, got)
	assert.Equal(t, start, *got)
	require.NoError(t, r.Finish())
}

func TestTime_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2024, 5, 1, 14, 0, 0, 0, loc)

	w := NewWriter(FormatV1)
	w.Time(local)
	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data, FormatV1)
	got := r.Time()
	require.NoError(t, r.Finish())
	assert.True(t, got.Equal(local))
	assert.Equal(t, time.UTC, got.Location())
}

func TestWriter_Errors(t *testing.T) {
	t.Run("invalid utf8", func(t *testing.T) {
		w := NewWriter(FormatV1)
		w.String("\xff")
		w.Byte(1)
		_, err := w.Bytes()
		require.ErrorIs(t, err, ErrUnencodable)
	})

	t.Run("zero time is out of range", func(t *testing.T) {
		w := NewWriter(FormatV1)
		w.Time(time.Time{})
		_, err := w.Bytes()
		require.ErrorIs(t, err, ErrUnencodable)
	})
}

func TestReader_Malformed(t *testing.T) {
	valid := func() []byte {
		w := NewWriter(FormatV1)
		w.String("abc")
		w.Uint32(1)
		data, err := w.Bytes()
		require.NoError(t, err)
		return data
	}

	decode := func(data []byte) error {
		r := NewReader(data, FormatV1)
		_ = r.String()
		r.Uint32()
		return r.Finish()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown format", append([]byte{0x02}, valid()[1:]...)},
		{"trailing bytes", append(valid(), 0x00)},
		{"string length past end", []byte{FormatV1, 0x10, 'a'}},
		{"truncated uint32", append([]byte{FormatV1, 0x00}, 0x00, 0x01)},
		{"invalid utf8", []byte{FormatV1, 0x01, 0xff, 0, 0, 0, 1}},
		{"overlong varint", []byte{FormatV1, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, decode(tt.data), ErrMalformed)
		})
	}

	t.Run("every strict prefix", func(t *testing.T) {
		data := valid()
		for i := range data {
			require.ErrorIs(t, decode(data[:i]), ErrMalformed, "prefix length %d", i)
		}
		require.NoError(t, decode(data))
	})
}

func TestReader_OptionalTime_BadPresence(t *testing.T) {
	r := NewReader([]byte{FormatV1, 0x02}, FormatV1)
	assert.Nil(t, r.OptionalTime())
	require.ErrorIs(t, r.Finish(), ErrMalformed)
}

func TestReader_Fail(t *testing.T) {
	r := NewReader([]byte{FormatV1, 0x09}, FormatV1)
	if b := r.Byte(); b > 3 {
		r.Fail("unknown kind %d", b)
	}
	err := r.Finish()
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "unknown kind 9")
}
