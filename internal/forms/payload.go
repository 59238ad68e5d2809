// internal/forms/payload.go
package forms

import (
	"fmt"
	"net/url"
	"strings"
)

// Payload is a submitted urlencoded form body. Keys keep the order in which
// they appeared on the wire; the dispatcher relies on it for first-match-wins.
type Payload struct {
	keys   []string
	values map[string][]string
}

// ParsePayload decodes an application/x-www-form-urlencoded body.
func ParsePayload(body string) (Payload, error) {
	p := Payload{values: make(map[string][]string)}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Payload{}, fmt.Errorf("invalid form key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Payload{}, fmt.Errorf("invalid value for form key %q: %w", key, err)
		}
		p.add(key, value)
	}
	return p, nil
}

// NewPayload builds a payload from alternating key, value arguments.
func NewPayload(kv ...string) Payload {
	p := Payload{values: make(map[string][]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		p.add(kv[i], kv[i+1])
	}
	return p
}

func (p *Payload) add(key, value string) {
	if _, seen := p.values[key]; !seen {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append(p.values[key], value)
}

// Keys returns the distinct keys in submission order.
func (p Payload) Keys() []string {
	return p.keys
}

// Has reports whether key was submitted at all.
func (p Payload) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Get returns the first value of key, or "".
func (p Payload) Get(key string) string {
	if vs := p.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns every value submitted under key.
func (p Payload) All(key string) []string {
	return p.values[key]
}

// Encode renders the payload back to urlencoded form, preserving key order.
func (p Payload) Encode() string {
	var b strings.Builder
	for _, k := range p.keys {
		for _, v := range p.values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
