package shellarg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapePosix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain word", "emails", "'emails'"},
		{"empty string stays one argument", "", "''"},
		{"spaces", "high priority", "'high priority'"},
		{"embedded single quote", "it's", `'it'\''s'`},
		{"only a single quote", "'", `''\'''`},
		{"double quotes pass through", `say "hi"`, `'say "hi"'`},
		{"metacharacters", "a;rm -rf /|b&&c", "'a;rm -rf /|b&&c'"},
		{"dollar expansion neutralized", "$HOME", "'$HOME'"},
		{"backticks neutralized", "`id`", "'`id`'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapePosix(tt.in))
		})
	}
}

// posixUnquote reverses EscapePosix the way a POSIX shell would parse it:
// single-quoted spans are literal, and the '\'' sequence is a literal quote.
func posixUnquote(t *testing.T, escaped string) string {
	t.Helper()
	var out strings.Builder
	rest := escaped
	for rest != "" {
		require.True(t, strings.HasPrefix(rest, "'"), "expected quoted span in %q", rest)
		end := strings.Index(rest[1:], "'")
		require.GreaterOrEqual(t, end, 0, "unterminated quote in %q", rest)
		out.WriteString(rest[1 : 1+end])
		rest = rest[end+2:]
		if strings.HasPrefix(rest, `\'`) {
			out.WriteByte('\'')
			rest = rest[2:]
		}
	}
	return out.String()
}

func TestEscapePosix_RoundTrip(t *testing.T) {
	inputs := []string{
		"emails",
		"",
		"it's",
		"two  spaces",
		`quotes "and" 'more'`,
		"; rm -rf / #",
		"$(whoami)",
		"tab\there",
	}

	for _, in := range inputs {
		escaped := EscapePosix(in)
		assert.Equal(t, in, posixUnquote(t, escaped), "round trip for %q", in)
	}
}

func TestEscapeWindows(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty string stays one argument", "", `""`},
		{"plain word", "emails", `"emails"`},
		{"spaces", "high priority", `"high priority"`},
		{"embedded double quote", `say "hi"`, `"say \"hi\""`},
		{"trailing backslash doubled", `C:\jobs\`, `"C:\jobs\\"`},
		{"env token neutralized", "%PATH%", "^%PATH^%"},
		{"env token must span the whole part", "pre %PATH% post", `"pre %PATH% post"`},
		{"bare percent pair not a token", "%%", `"%%"`},
		{"single quote is literal", "it's", `"it's"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeWindows(tt.in))
		})
	}
}

func TestEscapeWindows_EnvTokenSplitsOnQuotes(t *testing.T) {
	// A quote breaks the argument into parts before the %...% check runs,
	// so a token containing a quote is never treated as an expansion.
	got := EscapeWindows(`%PA"TH%`)
	assert.Equal(t, `"%PA\"TH%"`, got)
}

func TestFor(t *testing.T) {
	posix := For("linux")
	windows := For("windows")

	assert.Equal(t, "'x'", posix("x"))
	assert.Equal(t, `"x"`, windows("x"))
	assert.Equal(t, "'x'", For("darwin")("x"))
}

func TestDefault_NeverNil(t *testing.T) {
	require.NotNil(t, Default())
}
