package notation

import (
	"bytes"
	"encoding/json"
)

// Credits holds the counters accumulated for one player. Counters only grow.
type Credits struct {
	Catch  int `json:"catch"`
	Drop   int `json:"drop"`
	Throw  int `json:"throw"`
	Snatch int `json:"snatch"`
	Foul   int `json:"foul"`
}

// PlayerCredit is a single entry of PlayerCredits.
type PlayerCredit struct {
	Code    PlayerCode `json:"code"`
	Credits Credits    `json:"credits"`
}

// PlayerCredits maps player codes to their credits, preserving the order in which
// each code first appeared.
type PlayerCredits struct {
	order   []PlayerCode
	credits map[PlayerCode]*Credits
}

// NewPlayerCredits returns an empty mapping.
func NewPlayerCredits() *PlayerCredits {
	return &PlayerCredits{credits: make(map[PlayerCode]*Credits)}
}

// Len returns the number of distinct players.
func (pc *PlayerCredits) Len() int {
	return len(pc.order)
}

// Codes returns the player codes in first-appearance order.
func (pc *PlayerCredits) Codes() []PlayerCode {
	out := make([]PlayerCode, len(pc.order))
	copy(out, pc.order)
	return out
}

// Get returns the credits of a player.
func (pc *PlayerCredits) Get(code PlayerCode) (Credits, bool) {
	c, ok := pc.credits[code]
	if !ok {
		return Credits{}, false
	}
	return *c, true
}

// Entries returns a snapshot of every player's credits in first-appearance order.
func (pc *PlayerCredits) Entries() []PlayerCredit {
	out := make([]PlayerCredit, 0, len(pc.order))
	for _, code := range pc.order {
		out = append(out, PlayerCredit{Code: code, Credits: *pc.credits[code]})
	}
	return out
}

// register adds a code with zeroed counters if it is not yet known.
func (pc *PlayerCredits) register(code PlayerCode) *Credits {
	if c, ok := pc.credits[code]; ok {
		return c
	}
	c := &Credits{}
	pc.credits[code] = c
	pc.order = append(pc.order, code)
	return c
}

// apply credits a single touch.
//
// Receiving and releasing the disc are independent: a touch earns a snatch or a
// catch for how it was received, and a drop, foul or throw for how it ended. The
// first touch of a line is not a catch unless it was snatched.
func (pc *PlayerCredits) apply(tok Token) {
	c := pc.register(tok.Code)

	switch {
	case tok.Markers.Has(MarkerSnatch):
		c.Snatch++
	case tok.Position != 0:
		c.Catch++
	}

	switch tok.Markers.Outcome() {
	case OutcomeDrop:
		c.Drop++
	case OutcomeFoul:
		c.Foul++
	case OutcomeThrow:
		c.Throw++
	}
}

// MarshalJSON encodes the mapping as a JSON object keyed by player code, in
// first-appearance order.
func (pc *PlayerCredits) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, code := range pc.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(code))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pc.credits[code])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Analyze assigns credits for the raw pass notation of one team in one game.
// Every input is accepted; unrecognised annotations are treated as part of the code.
func Analyze(passText string) *PlayerCredits {
	pc := NewPlayerCredits()
	for _, line := range splitLines(passText) {
		for _, tok := range TokenizeLine(line) {
			pc.apply(tok)
		}
	}
	return pc
}
