package tsformat

import (
	"bufio"
	"io"
	"strings"

	"go-ml.dev/pkg/zorros"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokEOL
	tokWord
	tokColon
)

type token struct {
	kind      tokenKind
	text      string
	line, col int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "<EOF>"
	case tokEOL:
		return "<EOL>"
	case tokColon:
		return ":"
	}
	return t.text
}

/*
tokenizer splits the stream into words, colons and line ends.
Spaces, tabs and commas are whitespace, quotes are stripped,
'#' starts a comment lasting to the end of line
*/
type tokenizer struct {
	r         *bufio.Reader
	line, col int
	last      token // last word successfully read
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{r: bufio.NewReader(r), line: 1}
}

func (z *tokenizer) read() (rune, error) {
	c, _, err := z.r.ReadRune()
	if err != nil {
		return 0, err
	}
	z.col++
	return c, nil
}

func (z *tokenizer) unread() {
	_ = z.r.UnreadRune()
	z.col--
}

func isSpace(c rune) bool {
	return c != '\n' && (c <= ' ' || c == ',')
}

func (z *tokenizer) next() (token, error) {
	for {
		c, err := z.read()
		if err == io.EOF {
			return token{kind: tokEOF, line: z.line, col: z.col}, nil
		}
		if err != nil {
			return token{}, zorros.Trace(err)
		}
		switch {
		case c == '\n':
			t := token{kind: tokEOL, line: z.line, col: z.col}
			z.line++
			z.col = 0
			return t, nil
		case isSpace(c):
			continue
		case c == '#':
			if err = z.skipComment(); err != nil {
				return token{}, err
			}
		case c == ':':
			return token{kind: tokColon, text: ":", line: z.line, col: z.col}, nil
		case c == '"' || c == '\'':
			return z.quoted(c)
		default:
			z.unread()
			return z.word()
		}
	}
}

func (z *tokenizer) skipComment() error {
	for {
		c, err := z.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zorros.Trace(err)
		}
		if c == '\n' {
			z.unread()
			return nil
		}
	}
}

func (z *tokenizer) quoted(q rune) (token, error) {
	t := token{kind: tokWord, line: z.line, col: z.col}
	b := strings.Builder{}
	for {
		c, err := z.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, zorros.Trace(err)
		}
		if c == '\n' {
			z.unread()
			break
		}
		if c == q {
			break
		}
		b.WriteRune(c)
	}
	t.text = b.String()
	z.last = t
	return t, nil
}

func (z *tokenizer) word() (token, error) {
	t := token{kind: tokWord, line: z.line, col: z.col + 1}
	b := strings.Builder{}
	for {
		c, err := z.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, zorros.Trace(err)
		}
		if c == '\n' || c == ':' || c == '#' || isSpace(c) {
			z.unread()
			break
		}
		b.WriteRune(c)
	}
	t.text = b.String()
	z.last = t
	return t, nil
}

/*
rest reads tokens up to the end of line, the returned token is EOL or EOF
*/
func (z *tokenizer) rest() ([]token, token, error) {
	var ts []token
	for {
		t, err := z.next()
		if err != nil {
			return nil, t, err
		}
		if t.kind == tokEOL || t.kind == tokEOF {
			return ts, t, nil
		}
		ts = append(ts, t)
	}
}
