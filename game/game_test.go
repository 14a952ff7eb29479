package game

import (
	"encoding/hex"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acksell/gamelog/codec"
)

func ptrTime(t time.Time) *time.Time { return &t }

// The stored layout must not change between releases; existing databases
// depend on it.
func TestMarshal_Golden(t *testing.T) {
	g := Game{
		ID:          "game-001",
		DisplayName: "Team Bravo",
		StartTime:   ptrTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Score:       42,
	}
	data, err := Marshal(g)
	require.NoError(t, err)

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "game_v1", []byte(hex.EncodeToString(data)))

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestMarshal_EmptyGame(t *testing.T) {
	data, err := Marshal(Game{})
	require.NoError(t, err)
	assert.Equal(t, []byte{codec.FormatV1, 0, 0, 0, 0, 0, 0, 0, 0}, data)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Game{}, got)
}

func TestMarshal_ZeroTime(t *testing.T) {
	_, err := Marshal(Game{ID: "g1", StartTime: &time.Time{}})
	require.ErrorIs(t, err, codec.ErrUnencodable)
}

func TestUnmarshal_TimesInUTC(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	start := time.Date(2024, 5, 1, 14, 0, 0, 0, cet)
	data, err := Marshal(Game{ID: "g1", StartTime: &start})
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.True(t, start.Equal(*got.StartTime))
	assert.Equal(t, time.UTC, got.StartTime.Location())
	assert.Equal(t, time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC), *got.StartTime)
}

func TestUnmarshal_Malformed(t *testing.T) {
	data, err := Marshal(Game{
		ID:          "g1",
		DisplayName: "Team Alpha",
		StartTime:   ptrTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndTime:     ptrTime(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)),
		Score:       7,
	})
	require.NoError(t, err)

	for i := range data {
		_, err := Unmarshal(data[:i])
		require.ErrorIs(t, err, codec.ErrMalformed, "prefix length %d", i)
	}

	_, err = Unmarshal(append(data, 0))
	require.ErrorIs(t, err, codec.ErrMalformed)
}

func TestMarshal_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	span := 60 * 365 * 24 * time.Hour

	properties.Property("Unmarshal(Marshal(g)) == g", prop.ForAll(
		func(id, name string, start, end *time.Time, score uint32) bool {
			g := Game{ID: id, DisplayName: name, StartTime: start, EndTime: end, Score: score}
			data, err := Marshal(g)
			if err != nil {
				return false
			}
			got, err := Unmarshal(data)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(g, got)
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.PtrOf(gen.TimeRange(from, span)),
		gen.PtrOf(gen.TimeRange(from, span)),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
