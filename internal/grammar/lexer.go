package grammar

import "fmt"

// -----------------------------------------------------------------------
// Tokenizer
// -----------------------------------------------------------------------

type tokenKind int

const (
	tokName   tokenKind = iota // [a-z]+
	tokNumber                  // [0-9]+
	tokLParen
	tokRParen
	tokArrow // ->
	tokComma
	tokSpace // a single ' '
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokName:
		return "name"
	case tokNumber:
		return "number"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokArrow:
		return "'->'"
	case tokComma:
		return "','"
	case tokSpace:
		return "space"
	case tokEOF:
		return "end of line"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	val  string
	pos  int
}

// tokenize splits one trimmed line into tokens. Spaces are significant:
// the grammar allows exactly one between elements, so each is emitted.
func tokenize(line string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(line) {
		ch := line[i]
		switch {
		case ch == ' ':
			tokens = append(tokens, token{tokSpace, " ", i})
			i++
		case ch == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case ch == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case ch == ',':
			tokens = append(tokens, token{tokComma, ",", i})
			i++
		case ch == '-':
			if i+1 >= len(line) || line[i+1] != '>' {
				return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
			}
			tokens = append(tokens, token{tokArrow, "->", i})
			i += 2
		case isLower(ch):
			j := i
			for j < len(line) && isLower(line[j]) {
				j++
			}
			tokens = append(tokens, token{tokName, line[i:j], i})
			i = j
		case isDigit(ch):
			j := i
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			tokens = append(tokens, token{tokNumber, line[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(line)})
	return tokens, nil
}

func isLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }
func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
