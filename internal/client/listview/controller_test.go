package listview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestController_Defaults(t *testing.T) {
	c := NewController("mahasiswa:list", 10)

	require.Equal(t, 1, c.Page())
	require.Equal(t, 10, c.PageSize())
	require.Empty(t, c.SearchTerm())
	require.Equal(t, OrderAsc, c.SortOrder())

	c = NewController("mahasiswa:list", 0)
	require.Equal(t, 10, c.PageSize(), "non-positive page size falls back to the default")
}

func TestController_StateChangesResetPage(t *testing.T) {
	cases := []struct {
		name   string
		change func(c *Controller)
	}{
		{"search", func(c *Controller) { c.SetSearchTerm("john") }},
		{"filter", func(c *Controller) { c.SetFilter("prodi_id", "2") }},
		{"clear filter", func(c *Controller) { c.SetFilter("prodi_id", "") }},
		{"sort", func(c *Controller) { c.SetSort("nama", OrderDesc) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController("mahasiswa:list", 10)
			c.SetPage(5)
			tc.change(c)
			require.Equal(t, 1, c.Page())
		})
	}
}

func TestController_SetPageDoesNotReset(t *testing.T) {
	c := NewController("mahasiswa:list", 10)
	c.SetSearchTerm("john")
	c.SetPage(3)

	require.Equal(t, 3, c.Page())
	require.Equal(t, "john", c.SearchTerm(), "paging keeps the active search")

	c.SetPage(0)
	require.Equal(t, 1, c.Page(), "pages below 1 clamp to 1")
	c.SetPage(-2)
	require.Equal(t, 1, c.Page())
}

func TestController_SetSortRejectsUnknownOrder(t *testing.T) {
	c := NewController("mahasiswa:list", 10)
	c.SetSort("nim", "sideways")

	require.Equal(t, "nim", c.SortBy())
	require.Equal(t, OrderAsc, c.SortOrder())

	c.SetSort("nim", OrderDesc)
	require.Equal(t, OrderDesc, c.SortOrder())
}

func TestController_ClampPage(t *testing.T) {
	c := NewController("mahasiswa:list", 10)
	c.SetPage(5)

	require.True(t, c.ClampPage(3))
	require.Equal(t, 3, c.Page())

	require.False(t, c.ClampPage(3), "in-range page stays put")
	require.Equal(t, 3, c.Page())

	// An empty result set clamps to page 1, never 0.
	require.True(t, c.ClampPage(0))
	require.Equal(t, 1, c.Page())
}

func TestController_Key(t *testing.T) {
	c := NewController("mahasiswa:list", 10)
	require.Equal(t, "mahasiswa:list?limit=10&page=1", c.Key().Canonical())

	c.SetSearchTerm("jo")
	c.SetFilter("prodi_id", "2")
	c.SetSort("nama", OrderDesc)
	c.SetPage(3)

	require.Equal(t,
		"mahasiswa:list?limit=10&page=3&prodi_id=2&search=jo&sortBy=nama&sortOrder=DESC",
		c.Key().Canonical())

	// Same state always produces the same key.
	require.Equal(t, c.Key().Canonical(), c.Key().Canonical())
}

func TestController_ListPrefixCoversEveryPage(t *testing.T) {
	c := NewController("mahasiswa:list", 10)
	c.SetSearchTerm("jo")
	c.SetPage(4)

	require.True(t, c.Key().Matches(c.ListPrefix()))
}
