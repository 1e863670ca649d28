package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyCanonical_OrderIndependent(t *testing.T) {
	a := NewKey("mahasiswa:list", Params{"page": "2", "search": "john", "limit": "10"})
	b := NewKey("mahasiswa:list", Params{"limit": "10", "search": "john", "page": "2"})

	require.Equal(t, a.Canonical(), b.Canonical())
	require.Equal(t, "mahasiswa:list?limit=10&page=2&search=john", a.Canonical())
}

func TestKeyCanonical_Idempotent(t *testing.T) {
	k := NewKey("note:list", Params{"page": "1", "search": "x"})
	once := k.Canonical()

	// Canonicalizing a key built from its own parameters again yields the
	// same string.
	again := NewKey(k.Entity, k.Params).Canonical()
	require.Equal(t, once, again)
}

func TestNewKey_DropsEmptyValues(t *testing.T) {
	withEmpty := NewKey("recipe:list", Params{"page": "1", "search": ""})
	without := NewKey("recipe:list", Params{"page": "1"})

	require.Equal(t, without.Canonical(), withEmpty.Canonical())
}

func TestKeyCanonical_EscapesReservedCharacters(t *testing.T) {
	embedded := NewKey("posting:list", Params{"search": "a&b=c"})
	split := NewKey("posting:list", Params{"search": "a", "b": "c"})

	// A value containing '&'/'=' must not collide with a parameter set that
	// spells the same characters as separate parameters.
	require.NotEqual(t, split.Canonical(), embedded.Canonical())
	require.Equal(t, "posting:list?search=a%26b%3Dc", embedded.Canonical())
}

func TestKeyCanonical_NoParams(t *testing.T) {
	k := NewKey("prodi:list", nil)
	require.Equal(t, "prodi:list", k.Canonical())
}

func TestKeyMatches(t *testing.T) {
	k := NewKey("mahasiswa:list", Params{"page": "3", "search": "jo"})

	require.True(t, k.Matches(NewKey("mahasiswa:list", nil)))
	require.True(t, k.Matches(NewKey("mahasiswa:list", Params{"search": "jo"})))
	require.False(t, k.Matches(NewKey("mahasiswa:list", Params{"search": "other"})))
	require.False(t, k.Matches(NewKey("mahasiswa:detail", nil)))
}
