package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/entity"
	"github.com/dimasprakoso/siakad-cli/internal/client/guard"
	"github.com/dimasprakoso/siakad-cli/internal/client/mutation"
)

// guardMutation runs the access guard for a mutating command on the given
// entity. It prints the denial notice and reports whether to proceed.
func (a *App) guardMutation(scr screen, command string) bool {
	decision := guard.Decide(a.sessions.Snapshot(), guard.Route{
		Location:     command,
		RequireAuth:  true,
		RequiredRole: scr.desc().MutateRole,
	})
	if decision.Outcome != guard.Render {
		fmt.Fprintln(a.out, decision.Notice)
		return false
	}
	return true
}

func (a *App) show(ctx context.Context, args []string) {
	scr, id, ok := a.resolveTarget(args, "show")
	if !ok {
		return
	}
	out, err := scr.show(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Gagal memuat detail: %v\n", err)
		return
	}
	fmt.Fprint(a.out, out)
}

func (a *App) add(ctx context.Context, args []string) {
	scr, ok := a.resolveScreen(args, "add")
	if !ok {
		return
	}
	if !a.guardMutation(scr, "add "+scr.desc().Name) {
		return
	}
	if err := scr.add(ctx, a); err != nil {
		fmt.Fprintf(a.out, "Gagal menambah %s: %v\n", scr.desc().Title, err)
		return
	}
	a.renderListIfActive(ctx, scr)
}

func (a *App) edit(ctx context.Context, args []string) {
	scr, id, ok := a.resolveTarget(args, "edit")
	if !ok {
		return
	}
	if !a.guardMutation(scr, fmt.Sprintf("edit %s %d", scr.desc().Name, id)) {
		return
	}
	if err := scr.edit(ctx, a, id); err != nil {
		fmt.Fprintf(a.out, "Gagal mengubah %s: %v\n", scr.desc().Title, err)
		return
	}
	a.renderListIfActive(ctx, scr)
}

// delete runs the confirmation dialog around the delete mutation. A failed
// delete keeps the dialog open so the user can retry; cancel closes it.
// Success effects invalidate the list cache and remove the detail entry so
// no stale refetch can bring the record back.
func (a *App) delete(ctx context.Context, args []string) {
	scr, id, ok := a.resolveTarget(args, "delete")
	if !ok {
		return
	}
	if !a.guardMutation(scr, fmt.Sprintf("delete %s %d", scr.desc().Name, id)) {
		return
	}

	coord := mutation.NewCoordinator(
		func(context.Context) { scr.invalidateList() },
		func(context.Context) { scr.removeDetail(id) },
	)
	dialog := mutation.NewConfirmDialog(coord)
	if err := dialog.Open(); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	for dialog.State() == mutation.DialogOpen || dialog.State() == mutation.DialogErrored {
		prompt := fmt.Sprintf("Hapus %s #%d? (y/N)", scr.desc().Title, id)
		if dialog.State() == mutation.DialogErrored {
			prompt = fmt.Sprintf("Gagal menghapus: %v. Coba lagi? (y/N)", dialog.Err())
		}
		answer, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			_ = dialog.Cancel()
			return
		}
		if !strings.EqualFold(answer, "y") {
			_ = dialog.Cancel()
			fmt.Fprintln(a.out, "Dibatalkan.")
			return
		}
		if err := dialog.Confirm(ctx, func(ctx context.Context) error {
			return scr.deleteOp(ctx, id)
		}); err != nil {
			continue
		}
	}

	fmt.Fprintf(a.out, "%s #%d dihapus.\n", scr.desc().Title, id)
	a.renderListIfActive(ctx, scr)
}

// uploadCmd sends a photo for an entity that supports it:
// upload mahasiswa <id> <path>.
func (a *App) uploadCmd(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(a.out, "Usage: upload <entity> <id> <file>")
		return
	}
	scr, id, ok := a.resolveTarget(args[:2], "upload")
	if !ok {
		return
	}
	if !scr.desc().SupportsUpload {
		fmt.Fprintf(a.out, "%s tidak mendukung upload foto.\n", scr.desc().Title)
		return
	}
	if !a.guardMutation(scr, fmt.Sprintf("upload %s %d", scr.desc().Name, id)) {
		return
	}
	if err := scr.upload(ctx, a, id, args[2]); err != nil {
		fmt.Fprintf(a.out, "Gagal mengunggah foto: %v\n", err)
		return
	}
	scr.invalidateDetail(id)
	scr.invalidateList()
	fmt.Fprintln(a.out, "Foto terunggah.")
}

// uploadFile streams the file at path into the resource's upload endpoint.
func uploadFile[T any](ctx context.Context, a *App, res *entity.Resource[T], id int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("membuka file: %w", err)
	}
	defer f.Close()
	_, err = res.UploadPhoto(ctx, id, filepath.Base(path), f)
	return err
}

// resolveScreen picks the entity screen from args[0], falling back to the
// active list's entity.
func (a *App) resolveScreen(args []string, cmd string) (screen, bool) {
	if len(args) > 0 {
		scr, ok := a.screens[args[0]]
		if !ok {
			fmt.Fprintf(a.out, "Unknown entity: %s\n", args[0])
			return nil, false
		}
		return scr, true
	}
	if a.active != nil {
		return a.active.scr, true
	}
	fmt.Fprintf(a.out, "Usage: %s <entity> ...\n", cmd)
	return nil, false
}

// resolveTarget parses "<entity> <id>" (or "<id>" against the active list).
func (a *App) resolveTarget(args []string, cmd string) (screen, int, bool) {
	var scr screen
	var idArg string

	switch len(args) {
	case 1:
		if a.active == nil {
			fmt.Fprintf(a.out, "Usage: %s <entity> <id>\n", cmd)
			return nil, 0, false
		}
		scr = a.active.scr
		idArg = args[0]
	default:
		if len(args) < 2 {
			fmt.Fprintf(a.out, "Usage: %s <entity> <id>\n", cmd)
			return nil, 0, false
		}
		var ok bool
		scr, ok = a.screens[args[0]]
		if !ok {
			fmt.Fprintf(a.out, "Unknown entity: %s\n", args[0])
			return nil, 0, false
		}
		idArg = args[1]
	}

	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Fprintf(a.out, "ID harus berupa angka: %s\n", idArg)
		return nil, 0, false
	}
	return scr, id, true
}

// renderListIfActive refreshes the visible list when it belongs to the
// entity that just changed.
func (a *App) renderListIfActive(ctx context.Context, scr screen) {
	if a.active != nil && a.active.scr.desc().Name == scr.desc().Name {
		a.renderList(ctx)
	}
}
