package notation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// codeLength is the number of characters kept from a player's name.
const codeLength = 3

// PlayerCode is the short uppercase identifier used for a player in pass notation.
type PlayerCode string

// String implements fmt.Stringer.
func (c PlayerCode) String() string {
	return string(c)
}

// NewPlayerCode derives a player code from a full name: every whitespace rune is
// removed, then the first three characters are uppercased. Shorter names yield the
// whole stripped name.
func NewPlayerCode(name string) PlayerCode {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
		n++
		if n == codeLength {
			break
		}
	}
	return PlayerCode(strings.ToUpper(b.String()))
}

// RosterEntry pairs a player's name with the code generated for it.
type RosterEntry struct {
	Code PlayerCode
	Name string
}

// ParseRoster reads one player name per line and generates a code for each.
// Blank lines are skipped.
func ParseRoster(r io.Reader) ([]RosterEntry, error) {
	var entries []RosterEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		entries = append(entries, RosterEntry{Code: NewPlayerCode(name), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return entries, nil
}
