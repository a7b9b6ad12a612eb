package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingVerbs is returned for documents without a verbs object
var ErrMissingVerbs = errors.New("unexpected corpus shape (missing verbs)")

// Corpus is a loaded corpus file
type Corpus struct {
	Path  string
	Verbs []*Verb

	root  *Object
	verbs *Object
}

// Verb holds the tenses of one verb
type Verb struct {
	Name   string
	Tenses []*Tense

	fields *Object
}

// Tense is one tense array of a verb
type Tense struct {
	Name    string
	Entries []Entry
}

// Entry is one element of a tense array. Sentence is nil when the element
// is not a JSON object; Raw then holds it unchanged.
type Entry struct {
	Sentence *Sentence
	Raw      json.RawMessage
}

// New creates an empty corpus that will be written to path
func New(path string) *Corpus {
	c := &Corpus{
		Path:  path,
		root:  NewObject(),
		verbs: NewObject(),
	}
	c.root.SetRaw("metadata", json.RawMessage("{}"))
	c.root.SetRaw("verbs", json.RawMessage("{}"))
	return c
}

// Load reads and parses a corpus file
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	c, err := Parse(data)
	if errors.Is(err, ErrMissingVerbs) {
		return nil, fmt.Errorf("%w in %s", err, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Parse decodes corpus JSON
func Parse(data []byte) (*Corpus, error) {
	root := NewObject()
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("malformed corpus JSON: %w", err)
	}

	rawVerbs, ok := root.Raw("verbs")
	if !ok || !isObject(rawVerbs) {
		return nil, ErrMissingVerbs
	}
	verbs := NewObject()
	if err := verbs.UnmarshalJSON(rawVerbs); err != nil {
		return nil, fmt.Errorf("malformed verbs object: %w", err)
	}

	c := &Corpus{root: root, verbs: verbs}
	for _, name := range verbs.Keys() {
		raw, _ := verbs.Raw(name)
		if !isObject(raw) {
			continue
		}
		verb, err := parseVerb(name, raw)
		if err != nil {
			return nil, err
		}
		c.Verbs = append(c.Verbs, verb)
	}
	return c, nil
}

func parseVerb(name string, raw json.RawMessage) (*Verb, error) {
	fields := NewObject()
	if err := fields.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("malformed verb %s: %w", name, err)
	}

	verb := &Verb{Name: name, fields: fields}
	for _, key := range fields.Keys() {
		if key == "metadata" {
			continue
		}
		rawTense, _ := fields.Raw(key)
		if !isArray(rawTense) {
			continue
		}

		var elems []json.RawMessage
		if err := json.Unmarshal(rawTense, &elems); err != nil {
			return nil, fmt.Errorf("malformed tense %s.%s: %w", name, key, err)
		}

		tense := &Tense{Name: key, Entries: make([]Entry, 0, len(elems))}
		for _, elem := range elems {
			if !isObject(elem) {
				tense.Entries = append(tense.Entries, Entry{Raw: elem})
				continue
			}
			var s Sentence
			if err := s.UnmarshalJSON(elem); err != nil {
				return nil, fmt.Errorf("malformed sentence in %s.%s: %w", name, key, err)
			}
			tense.Entries = append(tense.Entries, Entry{Sentence: &s})
		}
		verb.Tenses = append(verb.Tenses, tense)
	}
	return verb, nil
}

// Marshal encodes the corpus as two-space indented JSON with a trailing newline
func (c *Corpus) Marshal() ([]byte, error) {
	for _, verb := range c.Verbs {
		if err := c.verbs.Set(verb.Name, verb); err != nil {
			return nil, err
		}
	}
	if err := c.root.Set("verbs", c.verbs); err != nil {
		return nil, err
	}

	compact, err := c.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Save writes the corpus back to its path
func (c *Corpus) Save() error {
	return c.SaveAs(c.Path)
}

// SaveAs writes the corpus to path
func (c *Corpus) SaveAs(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write corpus file: %w", err)
	}
	return nil
}

// Metadata returns the top level metadata object, creating it if needed
func (c *Corpus) Metadata() *Object {
	meta := NewObject()
	if raw, ok := c.root.Raw("metadata"); ok && isObject(raw) {
		_ = meta.UnmarshalJSON(raw)
	}
	return meta
}

// SetMetadata replaces the top level metadata object
func (c *Corpus) SetMetadata(meta *Object) error {
	return c.root.Set("metadata", meta)
}

// Verb returns the verb with the given name or nil
func (c *Corpus) Verb(name string) *Verb {
	for _, v := range c.Verbs {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// AddVerb returns the named verb, appending it when missing
func (c *Corpus) AddVerb(name string) *Verb {
	if v := c.Verb(name); v != nil {
		return v
	}
	v := &Verb{Name: name, fields: NewObject()}
	c.Verbs = append(c.Verbs, v)
	return v
}

// SentenceCount returns the number of sentence objects in the corpus
func (c *Corpus) SentenceCount() int {
	n := 0
	for _, v := range c.Verbs {
		for _, t := range v.Tenses {
			n += len(t.Sentences())
		}
	}
	return n
}

// MarshalJSON encodes the verb with its tenses in original key order
func (v *Verb) MarshalJSON() ([]byte, error) {
	if v.fields == nil {
		v.fields = NewObject()
	}
	for _, t := range v.Tenses {
		if err := v.fields.Set(t.Name, t); err != nil {
			return nil, err
		}
	}
	return v.fields.MarshalJSON()
}

// Tense returns the tense with the given name or nil
func (v *Verb) Tense(name string) *Tense {
	for _, t := range v.Tenses {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddTense returns the named tense, appending it when missing
func (v *Verb) AddTense(name string) *Tense {
	if t := v.Tense(name); t != nil {
		return t
	}
	t := &Tense{Name: name}
	v.Tenses = append(v.Tenses, t)
	return t
}

// Metadata returns the verb level metadata object, or nil when absent
func (v *Verb) Metadata() *Object {
	if v.fields == nil {
		return nil
	}
	raw, ok := v.fields.Raw("metadata")
	if !ok || !isObject(raw) {
		return nil
	}
	meta := NewObject()
	if err := meta.UnmarshalJSON(raw); err != nil {
		return nil
	}
	return meta
}

// SetMetadata replaces the verb level metadata object
func (v *Verb) SetMetadata(meta *Object) error {
	if v.fields == nil {
		v.fields = NewObject()
	}
	return v.fields.Set("metadata", meta)
}

// MarshalJSON encodes the tense array
func (t *Tense) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range t.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if e.Sentence == nil {
			buf.Write(e.Raw)
			continue
		}
		data, err := e.Sentence.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Sentences returns the sentence objects of the tense in order
func (t *Tense) Sentences() []*Sentence {
	out := make([]*Sentence, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Sentence != nil {
			out = append(out, e.Sentence)
		}
	}
	return out
}

// Append adds a sentence to the end of the tense
func (t *Tense) Append(s *Sentence) {
	t.Entries = append(t.Entries, Entry{Sentence: s})
}

// Filter keeps the sentences for which keep returns true. Non-object
// entries are always kept. It returns the array indexes that were dropped.
func (t *Tense) Filter(keep func(index int, s *Sentence) bool) []int {
	var dropped []int
	kept := t.Entries[:0]
	for i, e := range t.Entries {
		if e.Sentence == nil || keep(i, e.Sentence) {
			kept = append(kept, e)
			continue
		}
		dropped = append(dropped, i)
	}
	t.Entries = kept
	return dropped
}
