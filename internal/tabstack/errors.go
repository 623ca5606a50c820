package tabstack

import "errors"

var (
	// ErrNoInteractive is returned when the controller is driven without an
	// interactive transition to drive.
	ErrNoInteractive = errors.New("tabstack: no interactive transition")

	// ErrBusy is returned by Controller.Start while another transition owns
	// the stage.
	ErrBusy = errors.New("tabstack: transition in progress")

	// ErrUnknownPage is returned for geometry or commits naming a page that
	// is not live.
	ErrUnknownPage = errors.New("tabstack: unknown page")
)
