// Package verbs reads the verb list file (data/verbs.tsv).
package verbs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the verb list location relative to the project root
const DefaultPath = "data/verbs.tsv"

// Entry represents one verb row of the verb list
type Entry struct {
	Verb    string
	English string
	Tags    map[string]string
	Notes   string
}

// Tier returns the tier tag as a number, or 0 when absent or malformed
func (e Entry) Tier() int {
	n, err := strconv.Atoi(e.Tags["tier"])
	if err != nil {
		return 0
	}
	return n
}

// IsReflexive reports whether the verb is tagged reflexive:true
func (e Entry) IsReflexive() bool {
	return e.Tags["reflexive"] == "true"
}

// List is the parsed verb list keyed by upper case verb
type List struct {
	entries []Entry
	index   map[string]int
}

// Entries returns the verbs in file order
func (l *List) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Lookup returns the entry for verb
func (l *List) Lookup(verb string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	i, ok := l.index[strings.ToUpper(verb)]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// IsReflexive reports whether verb is listed as reflexive
func (l *List) IsReflexive(verb string) bool {
	e, ok := l.Lookup(verb)
	return ok && e.IsReflexive()
}

// Len returns the number of verbs
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// ReadFile reads a verb list. Format (tab separated, first line is a header):
// - verb: infinitive, stored upper case
// - english: gloss
// - tags: "key:value;key:value" such as "tier:1;reflexive:true"
// - notes: free text
// Lines without a verb or an English gloss are skipped.
func ReadFile(filename string) (*List, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read verb list: %w", err)
	}
	defer func() { _ = f.Close() }()

	list := &List{index: make(map[string]int)}
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		for len(cols) < 4 {
			cols = append(cols, "")
		}
		verb := strings.ToUpper(strings.TrimSpace(cols[0]))
		english := strings.TrimSpace(cols[1])
		if verb == "" || english == "" {
			continue
		}

		entry := Entry{
			Verb:    verb,
			English: english,
			Tags:    ParseTags(cols[2]),
			Notes:   strings.TrimSpace(cols[3]),
		}
		if i, dup := list.index[verb]; dup {
			list.entries[i] = entry
			continue
		}
		list.index[verb] = len(list.entries)
		list.entries = append(list.entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read verb list: %w", err)
	}
	return list, nil
}

// ReadFileIfExists is ReadFile but returns an empty list when the file is missing
func ReadFileIfExists(filename string) (*List, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return &List{index: make(map[string]int)}, nil
	}
	return ReadFile(filename)
}

// ParseTags splits "k:v;k:v" into a map. Pairs without a colon are ignored.
func ParseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || k == "" {
			continue
		}
		tags[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return tags
}
