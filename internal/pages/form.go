package pages

import "github.com/google/uuid"

// FormState is either Creating or Editing; a nil FormState means the form is
// closed.
type FormState[T any] interface {
	// Record is the template or the record being edited, with any values
	// entered so far.
	Record() T
	withRecord(record T) FormState[T]
	mode() FormMode
}

type Creating[T any] struct {
	Template T
}

func (c Creating[T]) Record() T {
	return c.Template
}

func (c Creating[T]) withRecord(record T) FormState[T] {
	return Creating[T]{Template: record}
}

func (Creating[T]) mode() FormMode {
	return FormModeCreating
}

// Editing keeps the id of the record being edited; payload ids are ignored.
type Editing[T any] struct {
	ID       uuid.UUID
	Existing T
}

func (e Editing[T]) Record() T {
	return e.Existing
}

func (e Editing[T]) withRecord(record T) FormState[T] {
	return Editing[T]{ID: e.ID, Existing: record}
}

func (Editing[T]) mode() FormMode {
	return FormModeEditing
}
