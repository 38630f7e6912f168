package service

import "time"

// Programador abstracts one-shot timer scheduling so the delete undo
// window is deterministically testable without real timers.
type Programador interface {
	// Programar runs fn after d unless the returned cancel func is
	// called first.
	Programar(d time.Duration, fn func()) (cancelar func())
}

type programadorReal struct{}

// NewProgramador returns the production scheduler backed by time.AfterFunc.
func NewProgramador() Programador { return programadorReal{} }

func (programadorReal) Programar(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
