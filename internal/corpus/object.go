package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a JSON object that remembers the order of its keys
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject creates an empty ordered object
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// UnmarshalJSON decodes a JSON object keeping key order
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.keys = o.keys[:0]
	o.values = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode value of %q: %w", key, err)
		}
		o.SetRaw(key, raw)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the object with keys in insertion order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(o.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the keys in order
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys
func (o *Object) Len() int {
	return len(o.keys)
}

// Has reports whether the key is present
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Raw returns the undecoded value for key
func (o *Object) Raw(key string) (json.RawMessage, bool) {
	raw, ok := o.values[key]
	return raw, ok
}

// Get decodes the value for key into v. It returns false when the key is absent.
func (o *Object) Get(key string, v any) (bool, error) {
	raw, ok := o.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// String returns the value for key when it is a JSON string. null and
// other JSON types report false.
func (o *Object) String(key string) (string, bool) {
	raw, ok := o.values[key]
	if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.TrimSpace(raw)[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set encodes v and stores it under key. New keys are appended.
func (o *Object) Set(key string, v any) error {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	o.SetRaw(key, raw)
	return nil
}

// SetRaw stores an already encoded value under key
func (o *Object) SetRaw(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// Delete removes key
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// isObject reports whether raw holds a JSON object
func isObject(raw json.RawMessage) bool {
	return firstByte(raw) == '{'
}

// isArray reports whether raw holds a JSON array
func isArray(raw json.RawMessage) bool {
	return firstByte(raw) == '['
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// marshalNoEscape encodes v without escaping <, > and &
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
