package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+989123456789", "+989123456789"},
		{"09123456789", "+989123456789"},
		{"00989123456789", "+989123456789"},
		{"9123456789", "+989123456789"},
		{" 0912 345-6789 ", "+989123456789"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "12345", "0812345678", "+98912345678x", "+9891234567890"} {
		_, err := NormalizePhone(bad)
		assert.Error(t, err, bad)
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+989****6789", MaskPhone("+989123456789"))
	// Too short to mask safely
	assert.Equal(t, "1234567", MaskPhone("1234567"))
}

func TestDayKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 30, 0, 0, time.FixedZone("IRST", 3*3600+1800))
	// 23:30 +03:30 is 20:00 UTC the same day
	assert.Equal(t, "SF260307", DayKey("SF", at))

	past := time.Date(2026, 3, 8, 1, 0, 0, 0, time.FixedZone("IRST", 3*3600+1800))
	// 01:00 +03:30 is still the previous UTC day
	assert.Equal(t, "SF260307", DayKey("SF", past))
}
