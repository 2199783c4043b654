package token

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Lexical grammar, expressed as the longest-match regex for each token
// class. Keyword vs. identifier ambiguity follows the greedy-keyword rule:
// a word that begins with a reserved keyword is cut at the end of that
// keyword, so "classroom" lexes as the keyword "class" followed by the
// identifier "room". Among the remaining classes the longest match wins
// and, on a tie, the earlier regex in this list.
var (
	keywordRegex = regexp.MustCompile(`class|constructor|function|method|field|static|var|int|char|boolean|void|true|false|null|this|let|do|if|else|while|return`)
	symbolRegex  = regexp.MustCompile(`[{}\[\]().,;+\-*/&|<>=~]`)
	intRegex     = regexp.MustCompile(`[0-9]+`)
	stringRegex  = regexp.MustCompile(`"[^"\n]*"`)
	identRegex   = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

	regexes = []*regexp.Regexp{keywordRegex, symbolRegex, intRegex, stringRegex, identRegex}
	typeFor = map[*regexp.Regexp]Type{
		keywordRegex: Keyword,
		symbolRegex:  Symbol,
		intRegex:     IntConst,
		stringRegex:  StrConst,
		identRegex:   Ident,
	}

	longestModeOnce sync.Once
)

func ensureLongestMode() {
	longestModeOnce.Do(func() {
		for _, re := range regexes {
			re.Longest()
		}
	})
}

// commentFilter strips // line comments and /* ... */ block comments (the
// multi-line /** ... */ doc form included) out of the rune stream before it
// ever reaches the tokenizer, so the regex grammar above never needs to
// know comments exist. Nested block comments are not supported, matching
// the source language.
type commentFilter struct {
	r *bufio.Reader
}

func newCommentFilter(r io.Reader) *commentFilter {
	return &commentFilter{r: bufio.NewReader(r)}
}

func (f *commentFilter) Read(b []byte) (int, error) {
	i := 0
	for i < len(b) {
		ch, n, err := f.r.ReadRune()
		if n == 0 {
			return i, err
		}

		if ch == '/' {
			next, _, nextErr := f.r.ReadRune()
			switch {
			case nextErr != nil:
				// Lone trailing '/': emit it and let the caller see EOF next call.
				if i+1 > len(b) {
					_ = f.r.UnreadRune()
					return i, nil
				}
				i += utf8.EncodeRune(b[i:], ch)
				return i, nil
			case next == '/':
				if _, err := f.r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
					return i, err
				}
				continue
			case next == '*':
				if err := f.skipBlockComment(); err != nil {
					return i, err
				}
				continue
			default:
				if err := f.r.UnreadRune(); err != nil {
					return i, err
				}
			}
		}

		if i+n > len(b) {
			if err := f.r.UnreadRune(); err != nil {
				return i, err
			}
			return i, nil
		}
		i += utf8.EncodeRune(b[i:], ch)
		if errors.Is(err, io.EOF) {
			return i, err
		}
	}
	return i, nil
}

// skipBlockComment consumes up to and including the closing "*/". The
// opening "/*" has already been consumed by the caller.
func (f *commentFilter) skipBlockComment() error {
	prev := byte(0)
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("unterminated block comment")
			}
			return err
		}
		if prev == '*' && b == '/' {
			return nil
		}
		prev = b
	}
}

// ReadError marks a failure reading from the underlying source (the file
// or stream backing the tokenizer), as distinct from a grammar violation
// in well-formed input. Compare with errors.As to tell the two apart.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string { return e.Cause.Error() }
func (e *ReadError) Unwrap() error { return e.Cause }

// Tokenizer presents a lazy, two-token lookahead sequence of Tokens over a
// character stream, skipping whitespace and comments. It reads lines as
// needed from an underlying scanner; a new chunk is pulled only when more
// lookahead is requested and the buffer is dry.
type Tokenizer struct {
	scanner *bufio.Scanner
	line    int
	lookahd []Token
	done    bool
	err     error
}

// New constructs a Tokenizer over r.
func New(r io.Reader) *Tokenizer {
	ensureLongestMode()
	sc := bufio.NewScanner(newCommentFilter(r))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	t := &Tokenizer{scanner: sc, line: 1}
	sc.Split(t.splitToken)
	return t
}

// splitToken is a bufio.SplitFunc that trims leading whitespace (counting
// newlines for diagnostics) and then delegates to matchToken to find the
// single next lexeme.
func (t *Tokenizer) splitToken(data []byte, atEOF bool) (advance int, token []byte, err error) {
	trimmed := strings.TrimLeftFunc(string(data), unicode.IsSpace)
	skipped := len(data) - len(trimmed)
	t.line += strings.Count(string(data[:skipped]), "\n")

	if len(trimmed) == 0 {
		if atEOF {
			return skipped, nil, nil
		}
		return skipped, nil, nil
	}

	match, matchErr := matchToken(trimmed)
	if matchErr != nil {
		if atEOF {
			return 0, nil, matchErr
		}
		// Might just need more data to disambiguate a longest match.
		return skipped, nil, nil
	}

	return skipped + match[1], []byte(trimmed[match[0]:match[1]]), nil
}

// matchToken finds the token at the start of line and returns
// [start, end, regexIndex]: a keyword at the very start always wins
// (greedy-keyword rule); otherwise the earliest, longest regex match.
func matchToken(line string) ([3]int, error) {
	if loc := keywordRegex.FindStringIndex(line); loc != nil && loc[0] == 0 {
		return [3]int{loc[0], loc[1], 0}, nil
	}
	best := [3]int{-1, -1, -1}
	for i, re := range regexes {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if best[0] == -1 || loc[0] < best[0] || (loc[0] == best[0] && (loc[1]-loc[0]) > (best[1]-best[0])) {
			best = [3]int{loc[0], loc[1], i}
		}
	}
	if best[0] == -1 {
		return best, errors.Errorf("unexpected character %q", line[:1])
	}
	if strings.TrimSpace(line[:best[0]]) != "" {
		return best, errors.Errorf("could not tokenize %q: unexpected characters before %q", line, line[best[0]:best[1]])
	}
	return best, nil
}

func parseToken(lexeme string, line int) (Token, error) {
	match, err := matchToken(lexeme)
	if err != nil {
		return Token{}, err
	}
	typ := typeFor[regexes[match[2]]]
	text := lexeme
	if typ == StrConst {
		text = lexeme[1 : len(lexeme)-1]
	}
	if typ == IntConst {
		n, convErr := strconv.Atoi(text)
		if convErr != nil || n < 0 || n > 32767 {
			return Token{}, errors.Errorf("malformed integer constant %q", text)
		}
	}
	return New(typ, text, line), nil
}

// fill ensures at least n tokens are buffered in the lookahead, scanning
// the underlying source as needed. It is a no-op once the source is
// exhausted or has failed.
func (t *Tokenizer) fill(n int) {
	for !t.done && len(t.lookahd) < n {
		if !t.scanner.Scan() {
			t.done = true
			if serr := t.scanner.Err(); serr != nil {
				t.err = &ReadError{Cause: errors.Wrap(serr, "tokenizer")}
			}
			return
		}
		lexeme := t.scanner.Text()
		startLine := t.line
		tok, err := parseToken(lexeme, startLine)
		if err != nil {
			t.done = true
			t.err = errors.Wrapf(err, "line %d", startLine)
			return
		}
		t.lookahd = append(t.lookahd, tok)
	}
}

// HasMore reports whether at least one more token is available.
func (t *Tokenizer) HasMore() bool {
	t.fill(1)
	return len(t.lookahd) > 0
}

// Err returns the first fatal lexical or I/O error encountered, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() Token {
	t.fill(1)
	if len(t.lookahd) == 0 {
		return Zero
	}
	return t.lookahd[0]
}

// PeekSecond returns the token after the next one, without consuming
// either. Required to distinguish "name[", "name.", "name(" from a bare
// variable reference with only one token of ordinary lookahead.
func (t *Tokenizer) PeekSecond() Token {
	t.fill(2)
	if len(t.lookahd) < 2 {
		return Zero
	}
	return t.lookahd[1]
}

// Advance consumes and returns the next token. It is the caller's
// responsibility to check HasMore first; advancing past the end panics,
// since every call site in the parser first establishes a token is present.
func (t *Tokenizer) Advance() Token {
	t.fill(1)
	if len(t.lookahd) == 0 {
		panic("token: Advance called with no tokens remaining")
	}
	tok := t.lookahd[0]
	t.lookahd = t.lookahd[1:]
	return tok
}
