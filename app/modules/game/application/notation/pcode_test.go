package notation

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want PlayerCode
	}{
		{name: "simple name", in: "Dhanush Kumar", want: "DHA"},
		{name: "surrounding whitespace", in: "  riya sen \n", want: "RIY"},
		{name: "internal whitespace removed", in: "A B\tC D", want: "ABC"},
		{name: "short name", in: "Al", want: "AL"},
		{name: "short after stripping", in: " j o ", want: "JO"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t ", want: ""},
		{name: "multibyte", in: "émile zola", want: "ÉMI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewPlayerCode(tt.in))
		})
	}
}

func TestNewPlayerCode_GeneratedNames(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 50; i++ {
		name := faker.Name()
		code := NewPlayerCode(name)

		stripped := strings.Join(strings.Fields(name), "")
		require.LessOrEqual(t, len([]rune(code)), codeLength, "name %q", name)
		require.True(t, strings.HasPrefix(strings.ToUpper(stripped), string(code)), "name %q code %q", name, code)
		require.Equal(t, code, NewPlayerCode(name), "code must be stable")
	}
}

func TestParseRoster(t *testing.T) {
	in := "Dhanush Kumar\n\n  Riya Sen\nShe\n"

	entries, err := ParseRoster(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []RosterEntry{
		{Code: "DHA", Name: "Dhanush Kumar"},
		{Code: "RIY", Name: "Riya Sen"},
		{Code: "SHE", Name: "She"},
	}, entries)
}
