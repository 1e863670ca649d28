package mutation

import (
	"context"
	"errors"
)

// DialogState is the confirmation dialog's position in its lifecycle.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogPending
	DialogErrored
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogOpen:
		return "open"
	case DialogPending:
		return "pending"
	case DialogErrored:
		return "errored"
	default:
		return "unknown"
	}
}

var ErrDialogTransition = errors.New("invalid dialog transition")

// ConfirmDialog is the delete-confirmation state machine
// {closed, open, pending, errored}. A failed confirmation moves to errored
// and the dialog stays open so the user can retry; only success or an
// explicit cancel closes it.
type ConfirmDialog struct {
	state DialogState
	coord *Coordinator
	err   error
}

// NewConfirmDialog wires the dialog to the coordinator that will execute
// the confirmed mutation.
func NewConfirmDialog(coord *Coordinator) *ConfirmDialog {
	return &ConfirmDialog{state: DialogClosed, coord: coord}
}

func (d *ConfirmDialog) State() DialogState { return d.state }

// Err returns the failure that put the dialog into errored, or nil.
func (d *ConfirmDialog) Err() error { return d.err }

// Open shows the dialog. Only valid while closed.
func (d *ConfirmDialog) Open() error {
	if d.state != DialogClosed {
		return ErrDialogTransition
	}
	d.state = DialogOpen
	d.err = nil
	return nil
}

// Cancel dismisses the dialog without mutating. Valid from open or errored.
func (d *ConfirmDialog) Cancel() error {
	if d.state != DialogOpen && d.state != DialogErrored {
		return ErrDialogTransition
	}
	d.state = DialogClosed
	d.err = nil
	return nil
}

// Confirm runs the mutation through the coordinator. The dialog is pending
// for the duration; it closes on success and moves to errored on failure.
func (d *ConfirmDialog) Confirm(ctx context.Context, op func(ctx context.Context) error) error {
	if d.state != DialogOpen && d.state != DialogErrored {
		return ErrDialogTransition
	}
	d.state = DialogPending

	if err := d.coord.Mutate(ctx, op); err != nil {
		d.state = DialogErrored
		d.err = err
		return err
	}
	d.state = DialogClosed
	d.err = nil
	return nil
}
