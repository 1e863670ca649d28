package cli

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dimasprakoso/siakad-cli/internal/client/entity"
	"github.com/dimasprakoso/siakad-cli/internal/client/listview"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
	"github.com/stretchr/testify/require"
)

// fakeScreen satisfies the screen interface without any backend.
type fakeScreen struct{}

func (fakeScreen) desc() entity.Descriptor { return entity.Notes }
func (fakeScreen) newView(pageSize int) *listview.Controller {
	return listview.NewController(entity.Notes.ListEntity(), pageSize)
}
func (fakeScreen) list(ctx context.Context, view *listview.Controller, prev *query.Key) ([]string, models.Page[struct{}], bool, error) {
	return nil, models.Page[struct{}]{CurrentPage: 1, TotalPages: 1}, false, nil
}
func (fakeScreen) show(ctx context.Context, id int) (string, error) { return "", nil }
func (fakeScreen) add(ctx context.Context, a *App) error            { return nil }
func (fakeScreen) edit(ctx context.Context, a *App, id int) error   { return nil }
func (fakeScreen) deleteOp(ctx context.Context, id int) error       { return nil }
func (fakeScreen) upload(ctx context.Context, a *App, id int, path string) error {
	return nil
}
func (fakeScreen) invalidateList()         {}
func (fakeScreen) invalidateDetail(id int) {}
func (fakeScreen) removeDetail(id int)     {}

func TestListCommand_SearchJoinsMultiWordTerm(t *testing.T) {
	a, _, _ := newTestApp(t)
	fs := fakeScreen{}
	a.active = &listScreen{scr: fs, view: fs.newView(10)}

	a.listCommand(context.Background(), "search", []string{"budi", "santoso"})
	require.Equal(t, "budi santoso", a.active.view.SearchTerm())

	// "search" with no arguments clears the term.
	a.listCommand(context.Background(), "search", nil)
	require.Empty(t, a.active.view.SearchTerm())
}

func TestSnippet(t *testing.T) {
	require.Equal(t, "short", snippet("short", 10))
	require.Equal(t, "multi line", snippet("multi\nline", 20))
	require.Equal(t, "0123456...", snippet("0123456789012", 10))

	// Truncation counts runes, never splitting a multi-byte sequence.
	s := strings.Repeat("é", 40)
	got := snippet(s, 10)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("é", 7)+"...", got)
}
