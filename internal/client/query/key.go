// Package query implements the keyed cache of server data: canonical query
// keys, request de-duplication, stale-while-revalidate, prefix
// invalidation, and removal that cannot be undone by late responses.
package query

import (
	"net/url"
	"sort"
	"strings"
)

// Params is the filter/sort/page state of a list request. Only set values
// participate in the key; callers omit empty parameters.
type Params map[string]string

// Key identifies one cached server-data request: an entity name plus a
// canonical, order-independent encoding of its parameters. Two logically
// identical parameter sets always canonicalize to the same key; pagination
// with filters depends on this.
type Key struct {
	Entity string
	Params Params
}

// NewKey builds a key, dropping parameters with empty values so that
// {"search": ""} and an absent search term produce the same key.
func NewKey(entity string, params Params) Key {
	cleaned := make(Params, len(params))
	for k, v := range params {
		if v != "" {
			cleaned[k] = v
		}
	}
	return Key{Entity: entity, Params: cleaned}
}

// Canonical renders the key as "entity?a=1&b=2" with parameters in sorted
// order. Names and values are query-escaped so a value containing '&' or
// '=' (a search term, say) cannot collide with a different parameter set.
// Canonicalization is idempotent: the canonical form of a key equals the
// canonical form of its canonical form.
func (k Key) Canonical() string {
	if len(k.Params) == 0 {
		return k.Entity
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Entity)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}
	return b.String()
}

// Matches reports whether k falls under the given prefix: same entity, and
// every prefix parameter present in k with an equal value. An entity-only
// prefix therefore matches all keys of that entity.
func (k Key) Matches(prefix Key) bool {
	if k.Entity != prefix.Entity {
		return false
	}
	for name, want := range prefix.Params {
		if k.Params[name] != want {
			return false
		}
	}
	return true
}
