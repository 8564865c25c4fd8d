package vocab

import (
	"strings"
	"unicode"
)

// Text is a tokenised view of free text used for whole-word phrase matching. CamelCase words are split,
// everything is lower-cased and any non-alphanumeric rune separates tokens, so "RomanianDeadlift",
// "romanian-deadlift" and "Romanian Deadlift (RDL)" all expose the tokens "romanian" and "deadlift".
type Text struct {
	tokens []string
}

// Tokenize splits s into match tokens.
func Tokenize(s string) []string {
	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, fold(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// NewText tokenises s and removes every allowlisted phrase so that none of its tokens can take part in a
// later match.
func NewText(s string, allowlist ...string) Text {
	tokens := Tokenize(s)
	for _, allowed := range allowlist {
		phrase := Tokenize(allowed)
		if len(phrase) == 0 {
			continue
		}
		tokens = removePhrase(tokens, phrase)
	}
	return Text{tokens: tokens}
}

func removePhrase(tokens, phrase []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if i+len(phrase) <= len(tokens) && equalTokens(tokens[i:i+len(phrase)], phrase) {
			// Keep a gap so the tokens around the removed phrase do not join into a new phrase.
			out = append(out, "")
			i += len(phrase)
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func equalTokens(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tokenMatches accepts simple plurals of the phrase word.
func tokenMatches(token, word string) bool {
	if token == word {
		return true
	}
	if !strings.HasPrefix(token, word) {
		return false
	}
	suffix := token[len(word):]
	return suffix == "s" || suffix == "es"
}

// Contains reports whether phrase occurs as whole consecutive tokens. A multi-word phrase also matches a
// single compact token, e.g. "ham curl" matches "hamcurl".
func (t Text) Contains(phrase string) bool {
	words := Tokenize(phrase)
	if len(words) == 0 {
		return false
	}
	compact := strings.Join(words, "")
	for i := range t.tokens {
		if len(words) > 1 && tokenMatches(t.tokens[i], compact) {
			return true
		}
		if i+len(words) > len(t.tokens) {
			continue
		}
		matched := true
		for j, w := range words {
			if !tokenMatches(t.tokens[i+j], w) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Matches returns the phrases contained in t, in the order given.
func (t Text) Matches(phrases []string) []string {
	var out []string
	for _, p := range phrases {
		if t.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Empty reports whether t holds no tokens.
func (t Text) Empty() bool {
	for _, tok := range t.tokens {
		if tok != "" {
			return false
		}
	}
	return true
}

// Tokens returns the non-empty tokens of t.
func (t Text) Tokens() []string {
	out := make([]string, 0, len(t.tokens))
	for _, tok := range t.tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
