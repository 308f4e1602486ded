package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeCacheKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "fees_balance_123", "fees_balance_123"},
		{"spaces and colons", "fees: balance for 123", "fees_balance_for_123"},
		{"empty", "", "empty_key"},
		{"only bad chars", "@@@", "default_key"},
		{"collapses underscores", "a___b", "a_b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SanitizeCacheKey(tc.in))
		})
	}
}

func TestSanitizeCacheKey_LongKeysHashed(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := SanitizeCacheKey(long)
	require.LessOrEqual(t, len(got), 200)

	// Distinct long inputs must not collapse to the same key.
	other := SanitizeCacheKey(strings.Repeat("x", 299) + "y")
	require.NotEqual(t, got, other)
}

func TestMakeCacheKey_SkipsEmptyParts(t *testing.T) {
	require.Equal(t, "fees_ver_abc", MakeCacheKey("fees", "", "ver", "abc"))
}
