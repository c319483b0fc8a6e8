package menu

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Normalize lowercases text, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	text = nonWord.ReplaceAllString(strings.ToLower(text), "")
	return strings.Join(strings.Fields(text), " ")
}

// Match resolves a normalized phrase to a menu entry. The first rule that
// fires wins: exact canonical name, then exact alias, then any single word
// of the phrase equal to a canonical name or alias.
func (m *Menu) Match(phrase string) (Entry, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return Entry{}, false
	}

	forms := variants(phrase)

	for _, f := range forms {
		if i, ok := m.byName[f]; ok {
			return m.entries[i], true
		}
	}

	for _, e := range m.entries {
		for _, f := range forms {
			if contains(e.Aliases, f) {
				return e, true
			}
		}
	}

	words := strings.Fields(phrase)
	for _, e := range m.entries {
		name := strings.ToLower(e.Name)
		for _, w := range words {
			for _, f := range variants(w) {
				if f == name || contains(e.Aliases, f) {
					return e, true
				}
			}
		}
	}

	return Entry{}, false
}

// Mentions reports whether text names the entry by canonical name or alias
// on word boundaries.
func (e Entry) Mentions(text string) bool {
	padded := " " + Normalize(text) + " "
	for _, w := range strings.Fields(padded) {
		for _, f := range variants(w) {
			if contains(e.Aliases, f) {
				return true
			}
		}
	}
	if strings.Contains(padded, " "+strings.ToLower(e.Name)+" ") {
		return true
	}
	for _, a := range e.Aliases {
		if strings.Contains(a, " ") && strings.Contains(padded, " "+a+" ") {
			return true
		}
	}
	return false
}

// variants returns the phrase followed by its singular forms, so "burgers"
// and "pastas" resolve like "burger" and "pasta".
func variants(phrase string) []string {
	out := []string{phrase}
	if len(phrase) > 3 && strings.HasSuffix(phrase, "es") {
		out = append(out, strings.TrimSuffix(phrase, "es"))
	}
	if len(phrase) > 2 && strings.HasSuffix(phrase, "s") && !strings.HasSuffix(phrase, "ss") {
		out = append(out, strings.TrimSuffix(phrase, "s"))
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
