// Package moderation implements the banned-word gate that every comment
// must pass before it becomes visible. The filter is self-reinforcing: a
// seed list of candidate phrases is matched against every message, and any
// candidate that appears is learned into the banned set, so a blocked
// attempt also immunises the board against future identical attempts.
package moderation

import (
	"strings"
	"sync"
)

// seedCandidates are evaluated against every message regardless of whether
// they are already banned. Matching is case-insensitive substring.
var seedCandidates = []string{
	// English
	"kill",
	"murder",
	"die",
	"stupid",
	"idiot",
	"hate you",
	// Japanese
	"死ね",
	"殺す",
	"ころす",
	"ばか",
	"あほ",
	"くそ",
	"きもい",
	"うざい",
}

// Result is the outcome of a single filter check.
type Result struct {
	Blocked     bool
	Matched     []string
	NewlyBanned []string
}

// Filter holds the banned-word set. Words are only ever added, never
// removed, and survive for the process lifetime.
type Filter struct {
	mu     sync.RWMutex
	banned map[string]struct{}
	order  []string // banned words in the order they were learned
}

// NewFilter creates an empty filter. The seed candidates are not
// pre-banned; they enter the set the first time a message contains them.
func NewFilter() *Filter {
	return &Filter{
		banned: make(map[string]struct{}),
	}
}

// Check matches message against the seed candidates and the current banned
// set. Matching candidates not yet banned are added to the set as a side
// effect, even when the message ends up blocked. The message is blocked
// iff at least one word matched.
func (f *Filter) Check(message string) Result {
	normalized := strings.ToLower(message)

	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make(map[string]struct{})
	var res Result

	for _, candidate := range seedCandidates {
		if !strings.Contains(normalized, candidate) {
			continue
		}
		if _, seen := matched[candidate]; !seen {
			matched[candidate] = struct{}{}
			res.Matched = append(res.Matched, candidate)
		}
		if _, ok := f.banned[candidate]; !ok {
			f.banned[candidate] = struct{}{}
			f.order = append(f.order, candidate)
			res.NewlyBanned = append(res.NewlyBanned, candidate)
		}
	}

	for _, word := range f.order {
		if !strings.Contains(normalized, word) {
			continue
		}
		if _, seen := matched[word]; !seen {
			matched[word] = struct{}{}
			res.Matched = append(res.Matched, word)
		}
	}

	res.Blocked = len(res.Matched) > 0
	return res
}

// Words returns the banned words in the order they were learned.
func (f *Filter) Words() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	words := make([]string, len(f.order))
	copy(words, f.order)
	return words
}
