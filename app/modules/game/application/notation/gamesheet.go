package notation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// valuesPerSheet is the number of values a complete sheet yields: a name, a pass
// block and a point count for each of the two teams.
const valuesPerSheet = 6

// headerPattern matches a "Label: Team Name" header line.
var headerPattern = regexp.MustCompile(`^\s*([^:]*?)\s*:\s*(\S.*?)\s*$`)

// GameRecord is the parsed content of a two-team game sheet.
type GameRecord struct {
	Team1   string `json:"team1"`
	String1 string `json:"string1"`
	Points1 int    `json:"points1"`
	Team2   string `json:"team2"`
	String2 string `json:"string2"`
	Points2 int    `json:"points2"`
}

type teamSection struct {
	name      string
	block     string
	points    int
	committed bool
}

// sheetScanner accumulates team sections while walking a sheet line by line.
type sheetScanner struct {
	sections []*teamSection
	block    strings.Builder
	open     bool
	values   int
	orphan   bool
	extra    bool
}

func (s *sheetScanner) current() *teamSection {
	if len(s.sections) == 0 {
		return nil
	}
	return s.sections[len(s.sections)-1]
}

// commit closes the open pass block and attaches it to the latest header.
func (s *sheetScanner) commit() {
	if !s.open {
		return
	}
	text := s.block.String()
	s.block.Reset()
	s.open = false
	s.values += 2

	sec := s.current()
	switch {
	case sec == nil:
		s.orphan = true
	case sec.committed:
		s.extra = true
	default:
		sec.block = text
		sec.points = CountPoints(text)
		sec.committed = true
	}
}

func (s *sheetScanner) scan(text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			s.commit()
			continue
		}
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			s.commit()
			s.sections = append(s.sections, &teamSection{name: m[2]})
			s.values++
			continue
		}
		s.block.WriteString(line)
		s.block.WriteByte('\n')
		s.open = true
	}
	s.commit()
}

func (s *sheetScanner) record() (*GameRecord, error) {
	switch {
	case s.values == 0:
		return nil, newParsingError(ErrEmptyFile)
	case s.values < valuesPerSheet, s.orphan:
		return nil, newParsingError(ErrInsufficientData)
	case len(s.sections) > 2, s.extra:
		return nil, newParsingError(ErrUnexpectedData)
	}
	for _, sec := range s.sections {
		if !sec.committed {
			return nil, newParsingError(ErrInsufficientData)
		}
	}

	t1, t2 := s.sections[0], s.sections[1]
	return &GameRecord{
		Team1:   t1.name,
		String1: t1.block,
		Points1: t1.points,
		Team2:   t2.name,
		String2: t2.block,
		Points2: t2.points,
	}, nil
}

// ParseGameSheet extracts both teams' names, raw pass blocks and point counts from
// a game sheet. Header lines of the form "Label: Team Name" start a team; the
// following lines up to a blank line form its pass block.
func ParseGameSheet(data []byte) (*GameRecord, error) {
	var s sheetScanner
	s.scan(normalizeSheet(data))
	return s.record()
}

// ParseGameFile reads and parses the game sheet at path. Parsing errors carry the
// path of the offending file.
func ParseGameFile(path string) (*GameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game sheet: %w", err)
	}
	rec, err := ParseGameSheet(data)
	if err != nil {
		var perr *ParsingError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return rec, nil
}

// normalizeSheet strips a UTF-8 BOM and converts CRLF line endings.
func normalizeSheet(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))
}
