// Package shellarg escapes single command-line arguments so that values
// containing spaces, quotes, or shell metacharacters cannot alter argument
// boundaries or inject additional commands.
//
// Two escaping families are provided: POSIX single-quote escaping and
// cmd.exe double-quote escaping. The strategy is selected once at startup
// rather than branched on at every call site.
package shellarg

import (
	"runtime"
	"strings"
)

// Escaper escapes a single argument for a target shell.
// Escapers are pure and total: they never fail and never perform I/O.
type Escaper func(arg string) string

// Default returns the escaper for the platform this process runs on.
func Default() Escaper {
	return For(runtime.GOOS)
}

// For returns the escaper for an explicit GOOS value. It exists so the
// non-native strategy can be exercised on any host.
func For(goos string) Escaper {
	if goos == "windows" {
		return EscapeWindows
	}
	return EscapePosix
}

// EscapePosix wraps the argument in single quotes. An embedded single quote
// closes the quoted region, emits an escaped quote, and reopens it, so
// "it's" becomes 'it'\''s'. The empty string escapes to '' rather than
// vanishing from the command line.
func EscapePosix(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// EscapeWindows escapes an argument for cmd.exe.
//
// The argument is split on double quotes. A quote becomes \". A part
// delimited by a percent sign on both ends is an environment-variable
// expansion token; it becomes ^%...^% to neutralize expansion while keeping
// the literal text, and is not quote-wrapped. Any other part forces the
// whole result to be wrapped in double quotes, with a trailing backslash
// doubled so it cannot escape the closing quote.
func EscapeWindows(arg string) string {
	if arg == "" {
		return `""`
	}

	var b strings.Builder
	quote := false
	for _, part := range splitKeepingQuotes(arg) {
		switch {
		case part == `"`:
			b.WriteString(`\"`)
		case surroundedByPercent(part):
			b.WriteString(`^%`)
			b.WriteString(part[1 : len(part)-1])
			b.WriteString(`^%`)
		default:
			if strings.HasSuffix(part, `\`) {
				part += `\`
			}
			quote = true
			b.WriteString(part)
		}
	}

	escaped := b.String()
	if quote {
		escaped = `"` + escaped + `"`
	}
	return escaped
}

// splitKeepingQuotes splits on double quotes, keeping each quote as its own
// part and dropping empty parts.
func splitKeepingQuotes(arg string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(arg); i++ {
		if arg[i] != '"' {
			continue
		}
		if i > start {
			parts = append(parts, arg[start:i])
		}
		parts = append(parts, `"`)
		start = i + 1
	}
	if start < len(arg) {
		parts = append(parts, arg[start:])
	}
	return parts
}

func surroundedByPercent(part string) bool {
	return len(part) > 2 && part[0] == '%' && part[len(part)-1] == '%'
}
