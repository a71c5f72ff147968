// Package textsplit cuts long text into chunks small enough for a single
// rewrite and speech call, keeping sentences whole wherever they fit.
package textsplit

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// DefaultMaxChars is the largest chunk the speech endpoint accepts.
const DefaultMaxChars = 4096

// Split packs the sentences of text into chunks of at most maxChars
// characters, joined by single spaces. A sentence longer than maxChars is
// split at word boundaries, and a single word longer than maxChars is cut.
// No chunk is empty. maxChars <= 0 selects DefaultMaxChars.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}
	add := func(unit string) {
		n := utf8.RuneCountInString(unit)
		if size > 0 && size+1+n > maxChars {
			flush()
		}
		if size > 0 {
			current.WriteByte(' ')
			size++
		}
		current.WriteString(unit)
		size += n
	}

	for _, sentence := range Sentences(text) {
		if utf8.RuneCountInString(sentence) <= maxChars {
			add(sentence)
			continue
		}
		for _, piece := range splitWords(sentence, maxChars) {
			add(piece)
		}
	}
	flush()
	return chunks
}

// Sentences returns the trimmed, non-empty sentences of text. Each
// blank-line separated paragraph is tokenized on its own with the English
// Punkt model, so abbreviations, initials and decimals do not end a
// sentence. Whitespace inside a sentence is folded to single spaces. If the
// embedded model cannot be loaded each paragraph is kept whole.
func Sentences(text string) []string {
	tokenizer, err := englishTokenizer()
	var out []string
	for _, para := range paragraphs(text) {
		if err != nil {
			out = append(out, para)
			continue
		}
		for _, s := range tokenizer.Tokenize(para) {
			if c := collapse(s.Text); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

var englishTokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// paragraphs splits text at blank lines and drops paragraphs that are only
// whitespace.
func paragraphs(text string) []string {
	var out, cur []string
	flush := func() {
		if p := collapse(strings.Join(cur, "\n")); p != "" {
			out = append(out, p)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// splitWords packs the words of s into pieces of at most maxChars, cutting
// any word that alone exceeds the limit.
func splitWords(s string, maxChars int) []string {
	var (
		pieces []string
		cur    []string
		size   int
	)
	for _, word := range strings.Fields(s) {
		for utf8.RuneCountInString(word) > maxChars {
			if size > 0 {
				pieces = append(pieces, strings.Join(cur, " "))
				cur, size = cur[:0], 0
			}
			head, tail := cutRunes(word, maxChars)
			pieces = append(pieces, head)
			word = tail
		}
		n := utf8.RuneCountInString(word)
		if n == 0 {
			continue
		}
		if size > 0 && size+1+n > maxChars {
			pieces = append(pieces, strings.Join(cur, " "))
			cur, size = cur[:0], 0
		}
		if size > 0 {
			size++
		}
		cur = append(cur, word)
		size += n
	}
	if size > 0 {
		pieces = append(pieces, strings.Join(cur, " "))
	}
	return pieces
}

func cutRunes(s string, n int) (string, string) {
	i := 0
	for k := 0; k < n && i < len(s); k++ {
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return s[:i], s[i:]
}

// collapse trims s and folds internal whitespace runs to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
