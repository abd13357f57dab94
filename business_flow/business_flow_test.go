package businessflow

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	t.Run("AlwaysFourDigitsInRange", func(t *testing.T) {
		for i := 0; i < 2000; i++ {
			code, err := GenerateVerificationCode()
			require.NoError(t, err)
			require.Len(t, code, 4)

			n, err := strconv.Atoi(code)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 1000)
			assert.LessOrEqual(t, n, 9999)
		}
	})

	t.Run("CoversBothEndsOfTheRange", func(t *testing.T) {
		// With 200k draws over 9000 values, missing any single value has
		// probability well under 1e-9, so the boundary checks are stable.
		seen := make(map[string]bool)
		for i := 0; i < 200000; i++ {
			code, err := GenerateVerificationCode()
			require.NoError(t, err)
			seen[code] = true
			if seen["1000"] && seen["9999"] {
				break
			}
		}
		assert.True(t, seen["1000"], "lowest code never generated")
		assert.True(t, seen["9999"], "highest code never generated")
	})
}

func TestOrderNumberFormat(t *testing.T) {
	assert.Equal(t, "SF260901-001", OrderNumber("SF260901", 1))
	assert.Equal(t, "SF260901-042", OrderNumber("SF260901", 42))
	assert.Equal(t, "SF260901-1000", OrderNumber("SF260901", 1000))
}
