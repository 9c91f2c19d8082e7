package telemetry_test

import (
	"testing"

	"github.com/abheda24/F1-TelemetryHub/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionType(t *testing.T) {
	cases := []struct {
		in   string
		want telemetry.SessionType
	}{
		{"R", telemetry.Race},
		{"race", telemetry.Race},
		{"Race", telemetry.Race},
		{"FP1", telemetry.Practice1},
		{"Practice 1", telemetry.Practice1},
		{"practice2", telemetry.Practice2},
		{"fp3", telemetry.Practice3},
		{"Q", telemetry.Qualifying},
		{"Qualifying", telemetry.Qualifying},
		{"Sprint", telemetry.Sprint},
		{"  r  ", telemetry.Race},
	}

	for _, tc := range cases {
		got, err := telemetry.ParseSessionType(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseSessionTypeUnknown(t *testing.T) {
	for _, in := range []string{"", "warmup", "FP4", "quali-2"} {
		_, err := telemetry.ParseSessionType(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSessionKeySlug(t *testing.T) {
	key := telemetry.SessionKey{Year: 2024, Event: "Monaco Grand Prix", Session: telemetry.Race}
	assert.Equal(t, "2024-monaco-grand-prix-r", key.Slug())

	key = telemetry.SessionKey{Year: 2023, Event: "  Bahrain  ", Session: telemetry.Qualifying}
	assert.Equal(t, "2023-bahrain-q", key.Slug())
}

func TestSessionKeySlugStripsPathCharacters(t *testing.T) {
	key := telemetry.SessionKey{Year: 2024, Event: "../../etc/passwd", Session: telemetry.Race}
	slug := key.Slug()

	assert.NotContains(t, slug, "/")
	assert.NotContains(t, slug, "\\")
	assert.NotContains(t, slug, "..")
	assert.Equal(t, "2024-------etc-passwd-r", slug)
}

func TestDriverListLookup(t *testing.T) {
	drivers := telemetry.DriverList{
		{Number: "1", Abbreviation: "VER", Team: "Red Bull Racing"},
		{Number: "44", Abbreviation: "HAM", Team: "Mercedes"},
	}

	d, ok := drivers.ByNumber("44")
	require.True(t, ok)
	assert.Equal(t, "HAM", d.Abbreviation)

	d, ok = drivers.ByAbbreviation("ver")
	require.True(t, ok)
	assert.Equal(t, "1", d.Number)

	_, ok = drivers.ByNumber("99")
	assert.False(t, ok)
	_, ok = drivers.ByAbbreviation("LEC")
	assert.False(t, ok)
}
