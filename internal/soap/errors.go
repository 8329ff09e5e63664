package soap

import "errors"

var (
	// ErrNoteNotFound indicates the requested note does not exist.
	ErrNoteNotFound = errors.New("soap: note not found")

	// ErrNoteExists indicates the appointment already has a note.
	ErrNoteExists = errors.New("soap: appointment already has a note")

	// ErrNoteLocked indicates an edit was attempted on a locked note.
	ErrNoteLocked = errors.New("soap: note is locked")
)
