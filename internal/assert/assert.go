// Package assert implements the precondition checks guarding dryad's
// invariants.
//
// A failed check logs the violation and panics with a *Violation. Building
// with the dryad_noassert tag turns every check into a no-op; violated
// contracts are then undefined behavior.
package assert

import (
	"errors"
	"fmt"

	"github.com/joshuapare/dryad/internal/logger"
)

// ErrPrecondition is wrapped by every Violation.
var ErrPrecondition = errors.New("dryad: precondition violated")

// Violation describes a broken contract. It is the panic value of a failed check.
type Violation struct {
	Op  string // operation that detected the violation, e.g. "arena.Allocate"
	Msg string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPrecondition.Error(), v.Op, v.Msg)
}

func (v *Violation) Unwrap() error { return ErrPrecondition }

// That panics with a Violation when cond is false.
func That(cond bool, op, msg string) {
	if Enabled && !cond {
		fail(op, msg)
	}
}

// Thatf is That with a formatted message. The arguments are only formatted on failure.
func Thatf(cond bool, op, format string, args ...any) {
	if Enabled && !cond {
		fail(op, fmt.Sprintf(format, args...))
	}
}

func fail(op, msg string) {
	logger.Error("precondition violated", "op", op, "msg", msg)
	panic(&Violation{Op: op, Msg: msg})
}
