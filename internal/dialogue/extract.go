package dialogue

import (
	"strings"

	"voice-order-service/internal/menu"
)

var quantityWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"a": 1, "an": 1,
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5,
}

var conjunctions = map[string]bool{"and": true, "with": true, "plus": true}

var stopPhrases = map[string]bool{
	"i want": true, "want to": true, "want to order": true, "order": true,
	"would like": true, "id like": true, "to order": true, "please": true,
	"i would like": true, "i would like to": true, "i would like to add": true,
	"add a": true, "to add": true, "add": true, "had": true,
	"can i get": true, "can i have": true, "could i get": true, "could i have": true,
	"ill have": true, "ill take": true, "give me": true, "get me": true,
}

// fillerWords never name an item; a buffer made only of these is noise.
var fillerWords = map[string]bool{
	"i": true, "id": true, "im": true, "ill": true, "we": true, "me": true, "my": true,
	"want": true, "wanna": true, "would": true, "like": true, "love": true, "to": true,
	"order": true, "please": true, "add": true, "had": true, "have": true, "get": true,
	"take": true, "give": true, "can": true, "could": true, "may": true, "some": true,
	"also": true, "just": true, "lets": true, "let": true, "the": true, "of": true,
	"for": true, "thanks": true, "thank": true, "you": true, "ok": true, "okay": true,
	"too": true, "more": true, "another": true, "um": true, "uh": true, "oh": true,
	"well": true, "so": true, "yes": true, "hi": true, "hello": true,
}

// Extraction is the outcome of scanning one utterance for menu items.
type Extraction struct {
	Items        []LineItem
	Unrecognized []string
}

type extractor struct {
	menu  *menu.Menu
	qty   int
	buf   []string
	out   Extraction
	index map[string]int
}

// ExtractItems scans an utterance left to right, once, committing each
// phrase that matches the menu with the quantity word that preceded it.
func ExtractItems(m *menu.Menu, utterance string) Extraction {
	x := &extractor{
		menu:  m,
		qty:   1,
		out:   Extraction{Items: []LineItem{}, Unrecognized: []string{}},
		index: make(map[string]int),
	}

	for _, w := range strings.Fields(menu.Normalize(utterance)) {
		if q, ok := quantityWords[w]; ok {
			if len(x.buf) > 0 {
				x.reject()
			}
			x.qty = q
			continue
		}

		if conjunctions[w] {
			if len(x.buf) > 0 {
				if e, ok := m.Match(x.phrase()); ok {
					x.commit(e)
				} else {
					if len(x.buf) > 1 {
						x.reject()
					}
					x.buf = nil
					x.qty = 1
				}
			}
			continue
		}

		x.buf = append(x.buf, w)
		if e, ok := m.Match(x.phrase()); ok {
			x.commit(e)
			continue
		}
		if len(x.buf) >= 3 {
			x.reject()
			x.qty = 1
		}
	}

	if len(x.buf) > 0 {
		if e, ok := m.Match(x.phrase()); ok {
			x.commit(e)
		} else {
			x.reject()
		}
	}

	return x.out
}

func (x *extractor) phrase() string {
	return strings.Join(x.buf, " ")
}

func (x *extractor) commit(e menu.Entry) {
	if i, ok := x.index[e.Name]; ok {
		x.out.Items[i].Quantity += x.qty
	} else {
		x.index[e.Name] = len(x.out.Items)
		x.out.Items = append(x.out.Items, LineItem{Name: e.Name, Quantity: x.qty, UnitPrice: e.Price})
	}
	x.buf = nil
	x.qty = 1
}

// reject records the buffer as unrecognized unless it is filler, then clears it.
func (x *extractor) reject() {
	p := strings.TrimSpace(x.phrase())
	x.buf = nil
	if p == "" || isStopPhrase(p) {
		return
	}
	x.out.Unrecognized = append(x.out.Unrecognized, p)
}

func isStopPhrase(p string) bool {
	if stopPhrases[p] {
		return true
	}
	for _, w := range strings.Fields(p) {
		if !fillerWords[w] {
			return false
		}
	}
	return true
}
