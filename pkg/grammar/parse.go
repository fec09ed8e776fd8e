package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnbalanced = errors.New("unbalanced brackets")
	ErrUnexpected = errors.New("unexpected token")
)

// SyntaxError reports where the grammar text went wrong.
type SyntaxError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("grammar: %s at offset %d: %s", e.Err, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type tokenKind int

const (
	tokText tokenKind = iota
	tokComma
	tokPipe
	tokOpenBracket
	tokCloseBracket
	tokOpenBrace
	tokCloseBrace
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

var punct = map[byte]tokenKind{
	',': tokComma,
	'|': tokPipe,
	'[': tokOpenBracket,
	']': tokCloseBracket,
	'{': tokOpenBrace,
	'}': tokCloseBrace,
}

// lex splits the text at punctuation; text between punctuation is trimmed and
// dropped when empty.
func lex(s string) []token {
	var toks []token
	start := 0
	flush := func(end int) {
		raw := s[start:end]
		text := strings.TrimSpace(raw)
		if text != "" {
			toks = append(toks, token{kind: tokText, text: text, offset: start + strings.Index(raw, text)})
		}
	}
	for i := 0; i < len(s); i++ {
		kind, ok := punct[s[i]]
		if !ok {
			continue
		}
		flush(i)
		toks = append(toks, token{kind: kind, text: s[i : i+1], offset: i})
		start = i + 1
	}
	flush(len(s))
	return toks
}

type parser struct {
	toks []token
	pos  int
}

// Parse builds the tree for a grammar string. Bracket and brace balance is
// checked; move tokens themselves are not validated here.
func Parse(s string) (Sequence, error) {
	p := &parser{toks: lex(s)}
	seq, err := p.sequence()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		switch tok.kind {
		case tokCloseBracket:
			return nil, &SyntaxError{Offset: tok.offset, Msg: "']' without '['", Err: ErrUnbalanced}
		default:
			return nil, &SyntaxError{Offset: tok.offset, Msg: fmt.Sprintf("%q outside of a group", tok.text), Err: ErrUnexpected}
		}
	}
	return seq, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// sequence stops in front of ']' or '|' and leaves them to the caller.
func (p *parser) sequence() (Sequence, error) {
	var seq Sequence
	for {
		tok, ok := p.peek()
		if !ok {
			return seq, nil
		}
		switch tok.kind {
		case tokText:
			p.pos++
			seq = append(seq, Move(tok.text))
		case tokComma:
			p.pos++
		case tokOpenBracket:
			group, err := p.branchGroup()
			if err != nil {
				return nil, err
			}
			seq = append(seq, group)
		case tokOpenBrace:
			st, err := p.altGroup()
			if err != nil {
				return nil, err
			}
			if st != nil {
				seq = append(seq, st)
			}
		case tokCloseBracket, tokPipe:
			return seq, nil
		case tokCloseBrace:
			return nil, &SyntaxError{Offset: tok.offset, Msg: "'}' without '{'", Err: ErrUnbalanced}
		}
	}
}

func (p *parser) branchGroup() (BranchGroup, error) {
	open, _ := p.next()
	var group BranchGroup
	for {
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		tok, ok := p.next()
		if !ok {
			return nil, &SyntaxError{Offset: open.offset, Msg: "'[' is never closed", Err: ErrUnbalanced}
		}
		group = append(group, seq)
		if tok.kind == tokCloseBracket {
			return group, nil
		}
	}
}

// altGroup returns nil for a group without members, a Move for a single member and
// an AltGroup otherwise.
func (p *parser) altGroup() (Step, error) {
	open, _ := p.next()
	var alts AltGroup
	for {
		tok, ok := p.next()
		if !ok {
			return nil, &SyntaxError{Offset: open.offset, Msg: "'{' is never closed", Err: ErrUnbalanced}
		}
		switch tok.kind {
		case tokText:
			alts = append(alts, Move(tok.text))
		case tokPipe:
		case tokCloseBrace:
			switch len(alts) {
			case 0:
				return nil, nil
			case 1:
				return alts[0], nil
			}
			return alts, nil
		case tokCloseBracket:
			return nil, &SyntaxError{Offset: tok.offset, Msg: "']' inside '{...}'", Err: ErrUnbalanced}
		default:
			return nil, &SyntaxError{Offset: tok.offset, Msg: fmt.Sprintf("%q inside '{...}'", tok.text), Err: ErrUnexpected}
		}
	}
}
