package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"greeting", "Hello, World!", "hello world"},
		{"dots and commas", "A.B,C", "abc"},
		{"arithmetic", "What is 2+2?", "what is 22"},
		{"whitespace kept", "  Tabs\tand\nnewlines  ", "  tabs\tand\nnewlines  "},
		{"full ascii set", "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", ""},
		{"unicode letters", "ÉCOLE Ñandú", "école ñandú"},
		{"non ascii punctuation kept", "¿Qué tal?", "¿qué tal"},
		{"em dash and quotes kept", "A—B “c”", "a—b “c”"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello, World!",
		"What's the capital of France?",
		"¿Dónde está la BIBLIOTECA?",
		"C++ vs. Go: which is FASTER?!",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_IgnoresInputCase(t *testing.T) {
	in := "Is It Raining In Paris, Today?"
	require.Equal(t, Normalize(in), Normalize(strings.ToUpper(in)))
}

func TestisASCIIPunct(t *testing.T) {
	require.True(t, isASCIIPunct('+'))
	require.True(t, isASCIIPunct('`'))
	require.False(t, isASCIIPunct('a'))
	require.False(t, isASCIIPunct(' '))
	require.False(t, isASCIIPunct('¡'))
}
