package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/listview"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
)

// listScreen is the active list session: the entity screen plus its view
// state. prevKey remembers the key before the last transition so
// pagination keeps the previous page visible while the next loads.
type listScreen struct {
	scr     screen
	view    *listview.Controller
	prevKey *query.Key
}

// openList switches the REPL to the given entity's list and renders page 1.
func (a *App) openList(ctx context.Context, name string) {
	scr, ok := a.screens[name]
	if !ok {
		fmt.Fprintf(a.out, "Unknown entity: %s\n", name)
		return
	}
	a.active = &listScreen{scr: scr, view: scr.newView(a.config.PageSize)}
	a.renderList(ctx)
}

// renderList fetches and prints the current page, clamping the page number
// when the result set shrank below it (e.g. after a delete).
func (a *App) renderList(ctx context.Context) {
	ls := a.active
	if ls == nil {
		fmt.Fprintln(a.out, "Pilih entitas dulu: list <mahasiswa|prodi|posting|recipe|note>")
		return
	}

	lines, meta, fetching, err := ls.scr.list(ctx, ls.view, ls.prevKey)
	if err != nil {
		fmt.Fprintf(a.out, "Gagal memuat %s: %v\n", ls.scr.desc().Title, err)
		return
	}

	// A filter change or deletion can leave the view beyond the last page;
	// pull it back and refetch rather than show an out-of-range page.
	if ls.view.ClampPage(meta.TotalPages) {
		key := ls.view.Key()
		ls.prevKey = &key
		lines, meta, fetching, err = ls.scr.list(ctx, ls.view, ls.prevKey)
		if err != nil {
			fmt.Fprintf(a.out, "Gagal memuat %s: %v\n", ls.scr.desc().Title, err)
			return
		}
	}

	if fetching {
		fmt.Fprintln(a.out, "(memperbarui data...)")
	}
	title := ls.scr.desc().Title
	if len(lines) == 0 {
		fmt.Fprintf(a.out, "Tidak ada data %s.\n", title)
	}
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
	if meta.TotalPages > 1 {
		fmt.Fprintf(a.out, "-- halaman %d/%d (total %d) --\n", ls.view.Page(), meta.TotalPages, meta.TotalCount)
	}
}

// listCommand handles the sub-commands that mutate list state. Every state
// change records the previous key before re-rendering.
func (a *App) listCommand(ctx context.Context, cmd string, args []string) {
	ls := a.active
	if ls == nil {
		fmt.Fprintln(a.out, "Pilih entitas dulu: list <mahasiswa|prodi|posting|recipe|note>")
		return
	}

	key := ls.view.Key()
	ls.prevKey = &key

	switch cmd {
	case "next":
		ls.view.SetPage(ls.view.Page() + 1)
	case "prev":
		ls.view.SetPage(ls.view.Page() - 1)
	case "page":
		if len(args) == 0 {
			fmt.Fprintln(a.out, "Usage: page <n>")
			return
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Usage: page <n>")
			return
		}
		ls.view.SetPage(n)
	case "search":
		// "search budi santoso" is one term; "search" alone clears it.
		ls.view.SetSearchTerm(strings.Join(args, " "))
	case "filter":
		// filter <name> <value>, or "filter" alone to clear.
		switch len(args) {
		case 0:
			ls.view.SetFilter("", "")
		case 2:
			ls.view.SetFilter(args[0], args[1])
		default:
			fmt.Fprintln(a.out, "Usage: filter <name> <value>")
			return
		}
	case "sort":
		if len(args) == 0 {
			fmt.Fprintln(a.out, "Usage: sort <field> [ASC|DESC]")
			return
		}
		order := listview.OrderAsc
		if len(args) > 1 {
			order = args[1]
		}
		ls.view.SetSort(args[0], order)
	}

	a.renderList(ctx)
}
