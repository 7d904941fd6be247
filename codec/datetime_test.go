package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateTime_Decode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T00:00:00Z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-01-01T09:00:00.5+09:00", time.Date(2025, 1, 1, 0, 0, 0, 500_000_000, time.UTC)},
		{"2025-01-01T10:30:00", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-01-01 10:30:00Z", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{" 2025-01-01 ", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	} {
		got, err := DateTime().Decode(tc.in)
		require.NoError(t, err, tc.in)
		require.True(t, tc.want.Equal(got), "%s: got %v", tc.in, got)
	}
}

func TestDateTime_EncodeUTC(t *testing.T) {
	c := DateTime()
	got, err := c.Decode("2025-01-01T09:00:00.500+09:00")
	require.NoError(t, err)
	out, err := c.Encode(got)
	require.NoError(t, err)
	require.Equal(t, "2025-01-01T00:00:00.5Z", out)
}

func TestDateTime_Invalid(t *testing.T) {
	for _, in := range []string{"yesterday", "2025-13-01", ""} {
		_, err := DateTime().Decode(in)
		require.Error(t, err, in)
	}
}
