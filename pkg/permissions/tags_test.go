package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTagLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"separators only", " ,;-\t", nil},
		{"single", "go", []string{"GO"}},
		{"case insensitive dedup keeps first", "Rust rust RUST go", []string{"RUST", "GO"}},
		{"mixed separators", "go,redis;postgres  testing", []string{"GO", "REDIS", "POSTGRES", "TESTING"}},
		{"order of first appearance", "b a B c", []string{"B", "A", "C"}},
		{"unicode word characters survive", "caché go", []string{"CACHÉ", "GO"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeTagLine(tc.line))
		})
	}
}

func TestNormalizeTagNames(t *testing.T) {
	require.Equal(t, []string{"GO", "REDIS"}, normalizeTagNames([]string{"go", "Redis", "GO"}))
	require.Nil(t, normalizeTagNames(nil))
}
