package cvmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Token struct {
	Surface string
	Key     string
	Pos     int
}

// fold strips diacritics and lower-cases: "Résumé" -> "resume".
func fold(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, " ")
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func isWordStart(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func isWordInner(r rune) bool {
	return isWordStart(r) || r == '+' || r == '#' || r == '.'
}

// Tokenize splits text into keyword candidates. Tokens keep inner '+', '#'
// and '.' so "c++", "c#" and "node.js" survive; trailing dots are dropped.
func Tokenize(text string, cfg Config) []Token {
	cfg = cfg.withDefaults()
	if len(text) > cfg.MaxInputBytes {
		text = text[:cfg.MaxInputBytes]
	}
	folded := fold(text)

	var (
		out   []Token
		buf   strings.Builder
		pos   int
		inTok bool
	)
	flush := func() {
		if !inTok {
			return
		}
		inTok = false
		word := strings.TrimRight(buf.String(), ".")
		buf.Reset()
		if keep(word) {
			key := word
			if cfg.Stem {
				key = Stem(word)
			}
			out = append(out, Token{Surface: word, Key: key, Pos: pos})
			pos++
		}
	}
	for _, r := range folded {
		switch {
		case !inTok && isWordStart(r):
			inTok = true
			buf.WriteRune(r)
		case inTok && isWordInner(r):
			buf.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

func keep(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	if isStopword(word) {
		return false
	}
	digits := true
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != '+' {
			digits = false
			break
		}
	}
	return !digits
}
