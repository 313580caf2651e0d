package notation

import "strings"

// passDelimiter separates consecutive touches in a possession line.
const passDelimiter = '-'

// Token is one touch within a possession line.
type Token struct {
	// Raw is the token text as written, markers included.
	Raw string
	// Code is the bare player code with every marker removed.
	Code PlayerCode
	// Position is the 0-based index of the touch within its line.
	Position int
	Markers  Marker
}

// TokenizeLine splits a possession line into touches in a single pass, separating
// each player code from its annotations. Empty touches are dropped.
func TokenizeLine(line string) []Token {
	var tokens []Token
	start := 0
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != passDelimiter {
			continue
		}
		if tok, ok := scanToken(line[start:i]); ok {
			tok.Position = len(tokens)
			tokens = append(tokens, tok)
		}
		start = i + 1
	}
	return tokens
}

// scanToken extracts the bare code and marker set from a raw touch.
func scanToken(raw string) (Token, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}, false
	}

	var (
		code    strings.Builder
		markers Marker
	)
	for i := 0; i < len(raw); {
		matched := false
		for _, p := range markerPatterns {
			if strings.HasPrefix(raw[i:], p.text) {
				markers |= p.marker
				i += len(p.text)
				matched = true
				break
			}
		}
		if !matched {
			code.WriteByte(raw[i])
			i++
		}
	}

	bare := strings.TrimSpace(code.String())
	if bare == "" {
		return Token{}, false
	}
	return Token{Raw: raw, Code: PlayerCode(bare), Markers: markers}, true
}

// splitLines splits multi-line notation into lines, tolerating CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
