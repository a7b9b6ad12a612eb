package anki

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MinTier and MaxTier bound the tier numbers
const (
	MinTier = 1
	MaxTier = 5
)

// TierConfig describes one tier deck
type TierConfig struct {
	Name   string
	Tenses []string // deck order
}

// Tiers holds the deck layout of every tier
var Tiers = map[int]TierConfig{
	1: {Name: "Foundations", Tenses: []string{"present", "present-progressive", "going-to", "preterite", "present-perfect", "future"}},
	2: {Name: "Daily Routines", Tenses: []string{"present", "present-progressive", "going-to", "preterite"}},
	3: {Name: "Irregular Essentials", Tenses: []string{"present", "present-progressive", "going-to", "preterite", "present-perfect"}},
	4: {Name: "Emotional & Cognitive", Tenses: []string{"present", "present-progressive", "going-to", "present-perfect"}},
	5: {Name: "Gustar-Type Verbs", Tenses: []string{"present", "going-to", "preterite"}},
}

// TenseNames are the subdeck display names of the tenses
var TenseNames = map[string]string{
	"present":             "Present",
	"present-progressive": "Gerund",
	"going-to":            "Going-to Future",
	"preterite":           "Preterite",
	"present-perfect":     "Present Perfect",
	"future":              "Simple Future",
}

// TenseName returns the display name of tense
func TenseName(tense string) string {
	if name, ok := TenseNames[tense]; ok {
		return name
	}
	return tense
}

// Region selects the sentences that go into a deck
type Region struct {
	Name       string
	Subjects   []string
	Regions    []string
	FilePrefix string
}

// Regions are the supported Spanish variants
var Regions = map[string]Region{
	"mexico": {
		Name:       "Mexico / Latin America",
		Subjects:   []string{"yo", "tú", "él", "ella", "usted", "nosotros", "ellos", "ellas", "ustedes"},
		Regions:    []string{"universal"},
		FilePrefix: "mexico",
	},
}

// LookupRegion returns the named region
func LookupRegion(name string) (Region, error) {
	r, ok := Regions[name]
	if !ok {
		names := make([]string, 0, len(Regions))
		for n := range Regions {
			names = append(names, n)
		}
		sort.Strings(names)
		return Region{}, fmt.Errorf("invalid region %q (valid: %s)", name, strings.Join(names, ", "))
	}
	return r, nil
}

// Accepts reports whether a sentence with subject and region belongs in
// decks of this region
func (r Region) Accepts(subject, region string) bool {
	if !contains(r.Subjects, subject) {
		return false
	}
	return region == "universal" || contains(r.Regions, region)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Selection is the parsed --tier flag
type Selection struct {
	Tiers []int
	Uber  bool
}

// ParseTierArg parses "1", "1,3,5", "1-3", "all" and mixes such as
// "1-3,all". An empty argument selects every tier as separate decks.
// Numbers outside 1-5 are ignored.
func ParseTierArg(arg string) (Selection, error) {
	if strings.TrimSpace(arg) == "" {
		return Selection{Tiers: []int{1, 2, 3, 4, 5}}, nil
	}

	var sel Selection
	seen := make(map[int]bool)
	add := func(n int) {
		if n >= MinTier && n <= MaxTier && !seen[n] {
			seen[n] = true
			sel.Tiers = append(sel.Tiers, n)
		}
	}

	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "all":
			sel.Uber = true
		case strings.Contains(part, "-"):
			from, to, _ := strings.Cut(part, "-")
			start, err1 := strconv.Atoi(strings.TrimSpace(from))
			end, err2 := strconv.Atoi(strings.TrimSpace(to))
			if err1 != nil || err2 != nil {
				continue
			}
			for n := max(start, MinTier); n <= min(end, MaxTier); n++ {
				add(n)
			}
		default:
			if n, err := strconv.Atoi(part); err == nil {
				add(n)
			}
		}
	}

	if len(sel.Tiers) == 0 && !sel.Uber {
		return sel, fmt.Errorf("no valid tier in %q (use 1-5, ranges like 1-3, or all)", arg)
	}
	sort.Ints(sel.Tiers)
	return sel, nil
}

// DeckFileName returns the .apkg name of a tier deck
func DeckFileName(tier int, region Region) string {
	name := strings.Join(strings.Fields(Tiers[tier].Name), "")
	return fmt.Sprintf("DrillMaster-Tier%d-%s-%s.apkg", tier, name, region.FilePrefix)
}

// UberFileName returns the .apkg name of the complete collection
func UberFileName(region Region) string {
	return fmt.Sprintf("DrillMaster-Complete-%s.apkg", region.FilePrefix)
}
