package corpus

import (
	"encoding/json"
	"fmt"
)

// Sentence is one example sentence of a verb in a tense
type Sentence struct {
	Spanish string
	English string
	Subject string
	Region  string
	Audio   string
	Tags    []string

	fields *Object
	// loaded records which string fields were present as strings on load
	loaded map[string]bool
}

// NewSentence creates a sentence with the core fields set
func NewSentence(spanish, english, subject, region string) *Sentence {
	return &Sentence{
		Spanish: spanish,
		English: english,
		Subject: subject,
		Region:  region,
		fields:  NewObject(),
		loaded:  make(map[string]bool),
	}
}

// UnmarshalJSON decodes a sentence keeping unknown fields
func (s *Sentence) UnmarshalJSON(data []byte) error {
	fields := NewObject()
	if err := fields.UnmarshalJSON(data); err != nil {
		return err
	}

	s.fields = fields
	s.loaded = make(map[string]bool)
	for key, dst := range s.stringFields() {
		if v, ok := fields.String(key); ok {
			*dst = v
			s.loaded[key] = true
		}
	}

	var tags []string
	if ok, err := fields.Get("tags", &tags); ok && err == nil {
		s.Tags = tags
	}
	return nil
}

// MarshalJSON encodes the sentence in its original key order.
// Known fields that were absent on load and are still empty stay absent.
func (s *Sentence) MarshalJSON() ([]byte, error) {
	if s.fields == nil {
		s.fields = NewObject()
	}
	for _, key := range stringFieldOrder {
		value := *s.stringFields()[key]
		if value == "" && !s.loaded[key] {
			continue
		}
		if err := s.fields.Set(key, value); err != nil {
			return nil, err
		}
	}
	if s.Tags != nil {
		if err := s.fields.Set("tags", s.Tags); err != nil {
			return nil, err
		}
	}
	return s.fields.MarshalJSON()
}

var stringFieldOrder = []string{"spanish", "english", "subject", "region", "audio"}

func (s *Sentence) stringFields() map[string]*string {
	return map[string]*string{
		"spanish": &s.Spanish,
		"english": &s.English,
		"subject": &s.Subject,
		"region":  &s.Region,
		"audio":   &s.Audio,
	}
}

// HasField reports whether the sentence carries key, either from the
// source file or because one of the known fields was set.
func (s *Sentence) HasField(key string) bool {
	if dst, ok := s.stringFields()[key]; ok && *dst != "" {
		return true
	}
	if key == "tags" && s.Tags != nil {
		return true
	}
	return s.fields != nil && s.fields.Has(key)
}

// Field returns the raw JSON of an arbitrary field such as source or quality
func (s *Sentence) Field(key string) (json.RawMessage, bool) {
	if s.fields == nil {
		return nil, false
	}
	return s.fields.Raw(key)
}

// SetField stores an arbitrary field
func (s *Sentence) SetField(key string, v any) error {
	if _, known := s.stringFields()[key]; known || key == "tags" {
		return fmt.Errorf("field %q must be set through the struct", key)
	}
	if s.fields == nil {
		s.fields = NewObject()
	}
	return s.fields.Set(key, v)
}

// SourceType returns source.type, or source itself when it is a plain string
func (s *Sentence) SourceType() string {
	raw, ok := s.Field("source")
	if !ok {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var src struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &src); err == nil {
		return src.Type
	}
	return ""
}

// IdentityKey is the exact duplicate key: subject||region||spanish||english
func (s *Sentence) IdentityKey() string {
	return s.Subject + "||" + s.Region + "||" + s.Spanish + "||" + s.English
}

// Clone returns a deep copy of the sentence
func (s *Sentence) Clone() *Sentence {
	data, err := s.MarshalJSON()
	if err != nil {
		c := *s
		return &c
	}
	var c Sentence
	if err := c.UnmarshalJSON(data); err != nil {
		cp := *s
		return &cp
	}
	return &c
}

// Flag reports whether key holds a truthy JSON value (true, non-zero, non-empty)
func (s *Sentence) Flag(key string) bool {
	raw, ok := s.Field(key)
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case nil:
		return false
	default:
		return true
	}
}
