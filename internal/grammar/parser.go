// Package grammar parses the tower description format, one node per line:
//
//	NAME (WEIGHT)
//	NAME (WEIGHT) -> CHILD, CHILD, ...
//
// NAME is one or more lowercase letters, WEIGHT an unsigned integer.
package grammar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Descriptor is one parsed line: a node name, its own weight and the
// names of its direct children (empty for leaves).
type Descriptor struct {
	Name     string
	Weight   int64
	Children []string
}

// IsLeaf reports whether the line carried no child list.
func (d Descriptor) IsLeaf() bool { return len(d.Children) == 0 }

// -----------------------------------------------------------------------
// Recursive-descent parser
// -----------------------------------------------------------------------

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) consume() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, fmt.Errorf("%w: expected %s at position %d, got %s", ErrSyntax, kind, t.pos, describe(t))
	}
	return p.consume(), nil
}

func describe(t token) string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%q", t.val)
}

// ParseLine parses a single line. The returned error is a *ParseError
// with Line set to 0.
func ParseLine(line string) (Descriptor, error) {
	d, err := parseLine(strings.TrimSpace(line))
	if err != nil {
		return Descriptor{}, &ParseError{Text: line, Err: err}
	}
	return d, nil
}

func parseLine(line string) (Descriptor, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrSyntax, err)
	}
	p := &parser{tokens: tokens}
	return p.parseNode()
}

// node = name " " "(" number ")" [ " " "->" " " children ]
func (p *parser) parseNode() (Descriptor, error) {
	name, err := p.expect(tokName)
	if err != nil {
		return Descriptor{}, err
	}
	if _, err := p.expect(tokSpace); err != nil {
		return Descriptor{}, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return Descriptor{}, err
	}
	num, err := p.expect(tokNumber)
	if err != nil {
		return Descriptor{}, err
	}
	weight, err := strconv.ParseInt(num.val, 10, 64)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidWeight, num.val)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{Name: name.val, Weight: weight}
	if p.peek().kind == tokEOF {
		return d, nil
	}

	if _, err := p.expect(tokSpace); err != nil {
		return Descriptor{}, err
	}
	if _, err := p.expect(tokArrow); err != nil {
		return Descriptor{}, err
	}
	if _, err := p.expect(tokSpace); err != nil {
		return Descriptor{}, err
	}
	children, err := p.parseChildren()
	if err != nil {
		return Descriptor{}, err
	}
	if _, err := p.expect(tokEOF); err != nil {
		return Descriptor{}, err
	}
	d.Children = children
	return d, nil
}

// children = name ( "," " " name )*
func (p *parser) parseChildren() ([]string, error) {
	seen := make(map[string]struct{})
	var children []string
	for {
		child, err := p.expect(tokName)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[child.val]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChild, child.val)
		}
		seen[child.val] = struct{}{}
		children = append(children, child.val)

		if p.peek().kind != tokComma {
			return children, nil
		}
		p.consume()
		if _, err := p.expect(tokSpace); err != nil {
			return nil, err
		}
	}
}

// MaxLineBytes is the longest line ParseReader accepts.
const MaxLineBytes = 1 << 20

// Parse parses every non-blank line of text. The first malformed line
// aborts the parse.
func Parse(text string) ([]Descriptor, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over a stream.
func ParseReader(r io.Reader) ([]Descriptor, error) {
	var out []Descriptor
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		d, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: raw, Err: err}
		}
		out = append(out, d)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: lineNo + 1, Err: fmt.Errorf("%w: line longer than %d bytes", ErrSyntax, MaxLineBytes)}
		}
		return nil, fmt.Errorf("read input: %w", err)
	}
	return out, nil
}
