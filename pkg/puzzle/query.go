package puzzle

import (
	"net/url"
	"strings"
)

// FromQuery decodes the puzzles of a widget page from its query parameters:
//
//	puzzles=fen|moves|message;fen|moves|message   several puzzles
//	fen=...&moves=...&message=...                 a single puzzle
//
// Without either, defaults are used. Every field is percent-decoded once more
// after query decoding; missing fields fall back to the first default. The
// returned moves are normalized to long form.
func FromQuery(q url.Values, defaults []Definition) []Definition {
	if len(defaults) == 0 {
		defaults = Defaults
	}
	fallback := defaults[0]

	var defs []Definition
	switch {
	case q.Get("puzzles") != "":
		for _, entry := range strings.Split(q.Get("puzzles"), ";") {
			if strings.TrimSpace(entry) == "" {
				continue
			}
			fields := splitFields(entry)
			defs = append(defs, withFallback(Definition{
				FEN:     decode(field(fields, 0)),
				Moves:   decode(field(fields, 1)),
				Message: decode(field(fields, 2)),
			}, fallback))
		}
	case q.Get("fen") != "" || q.Get("moves") != "":
		defs = append(defs, withFallback(Definition{
			FEN:     q.Get("fen"),
			Moves:   q.Get("moves"),
			Message: q.Get("message"),
		}, fallback))
	}
	if len(defs) == 0 {
		defs = append(defs, defaults...)
	}

	orientation := q.Get("orientation")
	for i := range defs {
		if defs[i].Orientation == "" {
			defs[i].Orientation = orientation
		}
		defs[i] = defs[i].Normalized()
	}
	return defs
}

func withFallback(d, fallback Definition) Definition {
	if d.FEN == "" {
		d.FEN = fallback.FEN
	}
	if d.Moves == "" {
		d.Moves = fallback.Moves
	}
	if d.Message == "" {
		d.Message = fallback.Message
	}
	return d
}

// splitFields splits on '|' outside brackets and braces, so a grammar with
// branches survives even when the host did not escape it. Everything after the
// second separator belongs to the message.
func splitFields(s string) []string {
	var fields []string
	depth := 0
	start := 0
	for i := 0; i < len(s) && len(fields) < 2; i++ {
		switch s[i] {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case '|':
			if depth == 0 {
				fields = append(fields, s[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, s[start:])
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}

func decode(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}
