package region

import (
	"regexp"
	"slices"
	"strings"
)

// Speed is a target display refresh label.
type Speed string

const (
	Speed60Hz Speed = "60Hz"
	Speed50Hz Speed = "50Hz"
)

// Unknown is the synthetic region assigned to names without tag groups.
const Unknown = "Unknown"

// These lists are not exhaustive; extend them through configuration.
var (
	defaultSixtyHz = []string{"Brazil", "Canada", "Japan", "Korea", "Mexico", "USA", "World"}
	defaultFiftyHz = []string{"World", "Europe", "France", "Germany", "Sweden", "Hong Kong", "Australia", "Italy", "Portugal"}
)

var tagGroupPattern = regexp.MustCompile(`\((.*?)\)`)

// Table is an immutable pair of region vocabularies.
type Table struct {
	sixty    []string
	fifty    []string
	sixtySet map[string]struct{}
	fiftySet map[string]struct{}
}

// DefaultTable returns a table seeded with the built-in regions only.
func DefaultTable() *Table {
	return NewTable(nil, nil)
}

// NewTable builds a table from the built-in regions plus the given extras.
// Extra names are trimmed; empty names and repeats are ignored. A region may
// belong to both sets.
func NewTable(extraSixtyHz, extraFiftyHz []string) *Table {
	t := &Table{
		sixtySet: make(map[string]struct{}),
		fiftySet: make(map[string]struct{}),
	}
	t.sixty = appendUnique(t.sixty, t.sixtySet, defaultSixtyHz)
	t.sixty = appendUnique(t.sixty, t.sixtySet, extraSixtyHz)
	t.fifty = appendUnique(t.fifty, t.fiftySet, defaultFiftyHz)
	t.fifty = appendUnique(t.fifty, t.fiftySet, extraFiftyHz)
	return t
}

func appendUnique(dst []string, seen map[string]struct{}, names []string) []string {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		dst = append(dst, name)
	}
	return dst
}

// SixtyHz returns the 60Hz regions in insertion order.
func (t *Table) SixtyHz() []string {
	return slices.Clone(t.sixty)
}

// FiftyHz returns the 50Hz regions in insertion order.
func (t *Table) FiftyHz() []string {
	return slices.Clone(t.fifty)
}

// Regions extracts the region tokens of a name. Tokens are taken from every
// parenthesized group, split on commas and stripped of surrounding spaces.
// A name without groups yields the single token Unknown.
func Regions(name string) []string {
	groups := tagGroupPattern.FindAllStringSubmatch(name, -1)
	if len(groups) == 0 {
		return []string{Unknown}
	}
	var tokens []string
	for _, group := range groups {
		for _, token := range strings.Split(group[1], ",") {
			tokens = append(tokens, strings.Trim(token, " "))
		}
	}
	return tokens
}

// Classify returns the speed labels for a name: always 60Hz, followed by
// 50Hz when any region token is a 50Hz region.
func (t *Table) Classify(name string) []Speed {
	speeds := []Speed{Speed60Hz}
	if _, fifty := t.Matches(name); len(fifty) > 0 {
		speeds = append(speeds, Speed50Hz)
	}
	return speeds
}

// Matches reports which of the name's region tokens belong to each set.
func (t *Table) Matches(name string) (sixty, fifty []string) {
	for _, token := range Regions(name) {
		if _, ok := t.sixtySet[token]; ok && !slices.Contains(sixty, token) {
			sixty = append(sixty, token)
		}
		if _, ok := t.fiftySet[token]; ok && !slices.Contains(fifty, token) {
			fifty = append(fifty, token)
		}
	}
	return sixty, fifty
}
