package menu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"voice-order-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

type Entry struct {
	Name    string       `json:"name" yaml:"name"`
	Price   domain.Money `json:"priceCents" yaml:"-"`
	Aliases []string     `json:"aliases" yaml:"aliases"`
}

type fileEntry struct {
	Name    string   `yaml:"name"`
	Price   float64  `yaml:"price"`
	Aliases []string `yaml:"aliases"`
}

type file struct {
	Items []fileEntry `yaml:"items"`
}

// Collision reports an alias (or name) that resolves to more than one entry.
// Matching keeps the first entry in table order.
type Collision struct {
	Alias   string
	Winner  string
	Shadows string
}

// Menu is the read-only menu table. Entry order is fixed at load time and
// breaks matching ties.
type Menu struct {
	entries []Entry
	byName  map[string]int
}

func New(entries []Entry) (*Menu, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMenu
	}

	m := &Menu{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidEntry)
		}
		if e.Price <= 0 {
			return nil, fmt.Errorf("%w: %q must have a positive price", ErrInvalidEntry, name)
		}
		key := strings.ToLower(name)
		if _, ok := m.byName[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, name)
		}

		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			a = Normalize(a)
			if a != "" {
				aliases = append(aliases, a)
			}
		}

		m.byName[key] = len(m.entries)
		m.entries = append(m.entries, Entry{Name: name, Price: e.Price, Aliases: aliases})
	}
	return m, nil
}

// Parse reads a YAML menu table.
func Parse(data []byte) (*Menu, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	entries := make([]Entry, 0, len(f.Items))
	for _, it := range f.Items {
		entries = append(entries, Entry{
			Name:    it.Name,
			Price:   domain.MoneyFromFloat(it.Price),
			Aliases: it.Aliases,
		})
	}
	return New(entries)
}

// Load reads the menu at path, or the built-in menu when path is empty.
func Load(path string) (*Menu, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}
	return Parse(data)
}

func Default() (*Menu, error) {
	return Parse(defaultMenu)
}

func (m *Menu) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lookup finds an entry by canonical name, case-insensitively.
func (m *Menu) Lookup(name string) (Entry, bool) {
	i, ok := m.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Collisions lists aliases shared by several entries, and aliases that equal
// another entry's canonical name.
func (m *Menu) Collisions() []Collision {
	owner := make(map[string]string)
	var out []Collision

	claim := func(key, name string) {
		if prev, ok := owner[key]; ok {
			if prev != name {
				out = append(out, Collision{Alias: key, Winner: prev, Shadows: name})
			}
			return
		}
		owner[key] = name
	}

	for _, e := range m.entries {
		claim(strings.ToLower(e.Name), e.Name)
	}
	for _, e := range m.entries {
		for _, a := range e.Aliases {
			claim(a, e.Name)
		}
	}
	return out
}

// Listing renders the menu the way the assistant reads it out.
func (m *Menu) Listing() string {
	var b strings.Builder
	b.WriteString("Here is our menu:\n")
	for _, e := range m.entries {
		fmt.Fprintf(&b, "%s - %s\n", e.Name, e.Price.Dollars())
	}
	b.WriteString("\nWhat would you like to order today?")
	return b.String()
}
