package invite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"t.me without scheme", "t.me/kinolar", "https://t.me/kinolar", true},
		{"telegram.me without scheme", "telegram.me/kinolar", "https://telegram.me/kinolar", true},
		{"full https url", "https://t.me/kinolar", "https://t.me/kinolar", true},
		{"full http url", "http://example.com/x", "http://example.com/x", true},
		{"at username", "@kinolar", "https://t.me/kinolar", true},
		{"bare username", "kinolar_01", "https://t.me/kinolar_01", true},
		{"plus token", "+AbCdEf123", "https://t.me/+AbCdEf123", true},
		{"joinchat token", "joinchat/AbCdEf123", "https://t.me/joinchat/AbCdEf123", true},
		{"too short username", "ab", "", false},
		{"empty", "", "", false},
		{"garbage", "!!!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalURL(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

// A canonical URL must survive a second normalization unchanged.
func TestCanonicalURLIdempotent(t *testing.T) {
	inputs := []string{
		"t.me/kinolar",
		"@kinolar",
		"kinolar",
		"+AbCdEf123",
		"https://t.me/joinchat/AbCdEf123",
	}

	for _, in := range inputs {
		first, ok := CanonicalURL(in)
		require.True(t, ok, in)

		second, ok := CanonicalURL(first)
		require.True(t, ok, first)
		require.Equal(t, first, second)
	}
}

func TestCompareToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"https stripped", "https://t.me/+AbC", "t.me/+abc", true},
		{"http and www stripped", "http://www.t.me/KinoLar", "t.me/kinolar", true},
		{"trailing slashes stripped", "t.me/kinolar//", "t.me/kinolar", true},
		{"lower cased", "T.ME/KINOLAR", "t.me/kinolar", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompareToken(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLooksRaw(t *testing.T) {
	require.True(t, LooksRaw("https://t.me/+AbC"))
	require.True(t, LooksRaw("+AbC"))
	require.True(t, LooksRaw("t.me/joinchat/AbC"))
	require.False(t, LooksRaw("-1001234567890"))
	require.False(t, LooksRaw("@kinolar"))
}
