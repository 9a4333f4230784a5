package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"dashed two-digit year", "14-11-25", date(2025, time.November, 14)},
		{"slashed two-digit year", "14/11/25", date(2025, time.November, 14)},
		{"dashed four-digit year", "14-11-2025", date(2025, time.November, 14)},
		{"slashed four-digit year", "14/11/2025", date(2025, time.November, 14)},
		{"iso", "2025-11-14", date(2025, time.November, 14)},
		{"compact ddmmyy", "141125", date(2025, time.November, 14)},
		{"compact ddmmyy century pivot low", "010149", date(2049, time.January, 1)},
		{"compact ddmmyy century pivot high", "010150", date(1950, time.January, 1)},
		{"serial", "45975", date(2025, time.November, 14)},
		{"serial with time fraction", "45975.5", date(2025, time.November, 14)},
		{"textual", "14 Nov 2025", date(2025, time.November, 14)},
		{"textual long", "14 November 2025", date(2025, time.November, 14)},
		{"dotted", "14.11.2025", date(2025, time.November, 14)},
		{"whitespace padded", "  14-11-25  ", date(2025, time.November, 14)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			require.NotNil(t, got, "Parse(%q)", tc.raw)
			require.True(t, got.Equal(tc.want), "Parse(%q) = %s, want %s", tc.raw, got, tc.want)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"not a date",
		"TAN WEI",
		"32-01-25",
		"14-13-25",
		"31-02-2025",
		"14-11",
		"0",
		"-5",
	} {
		require.Nil(t, Parse(raw), "Parse(%q) should be nil", raw)
	}
}

func TestParse_SerialEpoch(t *testing.T) {
	// Known anchors of the 1899-12-30 serial scheme.
	cases := map[string]time.Time{
		"1":     date(1899, time.December, 31),
		"44562": date(2022, time.January, 1),
		"45292": date(2024, time.January, 1),
	}
	for raw, want := range cases {
		got := Parse(raw)
		require.NotNil(t, got, "Parse(%q)", raw)
		require.True(t, got.Equal(want), "Parse(%q) = %s, want %s", raw, got, want)
	}
}

// Every supported format must be stable under parse -> format -> parse.
func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"14-11-25",
		"14/11/25",
		"14-11-2025",
		"14/11/2025",
		"2025-11-14",
		"141125",
		"45975",
		"14 Nov 2025",
	}
	for _, raw := range inputs {
		first := Parse(raw)
		require.NotNil(t, first, "Parse(%q)", raw)

		formatted := Format(*first)
		require.Equal(t, "2025-11-14", formatted)

		second := Parse(formatted)
		require.NotNil(t, second, "Parse(%q)", formatted)
		require.True(t, first.Equal(*second), "round trip drifted for %q", raw)
	}
}

func TestCheckValid(t *testing.T) {
	now := date(2025, time.November, 20)

	require.NoError(t, CheckValid(date(2025, time.November, 14), false, now))
	require.NoError(t, CheckValid(date(1950, time.January, 1), false, now))

	err := CheckValid(date(1949, time.December, 31), false, now)
	require.ErrorIs(t, err, ErrTooEarly)

	err = CheckValid(date(2025, time.November, 21), false, now)
	require.ErrorIs(t, err, ErrInFuture)

	// Window and service-end dates legitimately lie ahead of the import.
	require.NoError(t, CheckValid(date(2026, time.June, 1), true, now))
}

func TestDateOnlyUTC(t *testing.T) {
	loc := time.FixedZone("SGT", 8*60*60)

	stamp := time.Date(2025, time.November, 14, 23, 45, 0, 0, loc)
	got := DateOnlyUTC(stamp)
	require.True(t, got.Equal(date(2025, time.November, 14)))
	require.Equal(t, time.UTC, got.Location())
}
