// Package listview owns the search/filter/sort/page state of one entity
// list and turns it into canonical query keys. It has no network awareness.
package listview

import (
	"strconv"

	"github.com/dimasprakoso/siakad-cli/internal/client/query"
)

// Sort orders accepted by the backend.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Controller tracks the list state for one entity. Changing the search
// term, filter, or sort resets the page to 1: staying on page 5 of a
// freshly filtered, possibly shorter result set would silently show the
// wrong rows.
type Controller struct {
	entity   string
	pageSize int

	page        int
	searchTerm  string
	filterName  string
	filterValue string
	sortBy      string
	sortOrder   string
}

func NewController(entity string, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{entity: entity, pageSize: pageSize, page: 1, sortOrder: OrderAsc}
}

func (c *Controller) Page() int           { return c.page }
func (c *Controller) PageSize() int       { return c.pageSize }
func (c *Controller) SearchTerm() string  { return c.searchTerm }
func (c *Controller) FilterValue() string { return c.filterValue }
func (c *Controller) SortBy() string      { return c.sortBy }
func (c *Controller) SortOrder() string   { return c.sortOrder }

// Filter returns the active filter dimension and value, both empty when no
// filter is set.
func (c *Controller) Filter() (name, value string) { return c.filterName, c.filterValue }

// SetPage moves to the given page. It is the one setter that does not
// reset pagination; values below 1 clamp to 1.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.page = page
}

func (c *Controller) SetSearchTerm(term string) {
	c.searchTerm = term
	c.page = 1
}

// SetFilter sets the named filter dimension (e.g. "prodi_id"). An empty
// value clears the filter. Resets the page.
func (c *Controller) SetFilter(name, value string) {
	c.filterName = name
	c.filterValue = value
	c.page = 1
}

func (c *Controller) SetSort(sortBy, order string) {
	c.sortBy = sortBy
	if order == OrderAsc || order == OrderDesc {
		c.sortOrder = order
	}
	c.page = 1
}

// ClampPage pulls the page back into range after a refetch shrank the
// result set (e.g. the last item of the final page was deleted). Reports
// whether the page changed.
func (c *Controller) ClampPage(totalPages int) bool {
	if totalPages < 1 {
		totalPages = 1
	}
	if c.page > totalPages {
		c.page = totalPages
		return true
	}
	return false
}

// Key produces the canonical cache key for the current state.
func (c *Controller) Key() query.Key {
	params := query.Params{
		"page":  strconv.Itoa(c.page),
		"limit": strconv.Itoa(c.pageSize),
	}
	if c.searchTerm != "" {
		params["search"] = c.searchTerm
	}
	if c.filterName != "" && c.filterValue != "" {
		params[c.filterName] = c.filterValue
	}
	if c.sortBy != "" {
		params["sortBy"] = c.sortBy
		params["sortOrder"] = c.sortOrder
	}
	return query.NewKey(c.entity, params)
}

// ListPrefix is the invalidation prefix covering every page/filter
// combination of this entity's list.
func (c *Controller) ListPrefix() query.Key {
	return query.NewKey(c.entity, nil)
}
