package service

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// termDictionary maps folded phrases to term IDs. Phrases are stored as
// their folded words joined by single spaces.
type termDictionary struct {
	phrases  map[string]int
	maxWords int
}

var termFolder = cases.Fold()

func foldWord(w string) string {
	return termFolder.String(norm.NFC.String(w))
}

func newTermDictionary() *termDictionary {
	return &termDictionary{phrases: make(map[string]int)}
}

// add registers phrase for termID. The first registration of a phrase wins.
func (d *termDictionary) add(phrase string, termID int) {
	words := tokenize(phrase)
	if len(words) == 0 {
		return
	}
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = w.folded
	}
	key := strings.Join(folded, " ")
	if _, ok := d.phrases[key]; ok {
		return
	}
	d.phrases[key] = termID
	d.maxWords = max(d.maxWords, len(words))
}

type token struct {
	start, end int
	folded     string
	segment    int
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		r == '\'' || r == '’' || r == 'ʼ'
}

// opensTag reports whether the text after a '<' starts a tag or comment.
// A '<' followed by anything else is plain text.
func opensTag(rest string) bool {
	if rest == "" {
		return false
	}
	c := rest[0]
	return c == '/' || c == '!' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// tokenize splits s into words, skipping HTML tags. Tokens separated by a
// tag carry different segments and never form one phrase.
func tokenize(s string) []token {
	var tokens []token
	segment := 0
	inTag := false
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, token{start: start, end: end, folded: foldWord(s[start:end]), segment: segment})
			start = -1
		}
	}
	for i, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<' && opensTag(s[i+1:]):
			flush(i)
			inTag = true
			segment++
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		default:
			flush(i)
		}
	}
	if !inTag {
		flush(len(s))
	}
	return tokens
}

// joinable reports whether the text between two words lets them form a
// phrase: whitespace and hyphens only.
func joinable(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '-' }) == ""
}

// highlight wraps every dictionary phrase found in text in a term span.
// Longer phrases win over shorter ones starting at the same word.
func (d *termDictionary) highlight(text string) string {
	if len(d.phrases) == 0 || !utf8.ValidString(text) {
		return text
	}
	tokens := tokenize(text)
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i := 0; i < len(tokens); {
		n, termID := d.match(text, tokens[i:])
		if n == 0 {
			i++
			continue
		}
		start, end := tokens[i].start, tokens[i+n-1].end
		b.WriteString(text[last:start])
		b.WriteString(`<span class="term" data-term-id="`)
		b.WriteString(strconv.Itoa(termID))
		b.WriteString(`">`)
		b.WriteString(text[start:end])
		b.WriteString(`</span>`)
		last = end
		i += n
	}
	b.WriteString(text[last:])
	return b.String()
}

// match returns the number of tokens of the longest phrase starting at
// tokens[0], or zero when none matches.
func (d *termDictionary) match(text string, tokens []token) (int, int) {
	limit := min(d.maxWords, len(tokens))
	words := make([]string, 0, limit)
	bestLen, bestID := 0, 0
	for n := 1; n <= limit; n++ {
		tok := tokens[n-1]
		if n > 1 {
			prev := tokens[n-2]
			if tok.segment != prev.segment || !joinable(text[prev.end:tok.start]) {
				break
			}
		}
		words = append(words, tok.folded)
		if id, ok := d.phrases[strings.Join(words, " ")]; ok {
			bestLen, bestID = n, id
		}
	}
	return bestLen, bestID
}
