// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports an invalid Factory configuration or argument: a
// bad variable number, an attempt to shrink Varnum, levels out of order in
// Makeset, an out-of-range Pairing variable, or mismatched slice lengths in
// Pairing.SetAll. The Cacheratio value is not validated.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func newConfigurationError(format string, a ...interface{}) error {
	return errors.WithStack(&ConfigurationError{msg: fmt.Sprintf(format, a...)})
}

// UseAfterFreeError reports an operation on a Node handle that was already
// freed, or whose epoch no longer matches its Factory's current epoch. It is
// fatal to the operation that raised it.
type UseAfterFreeError struct {
	msg string
}

func (e *UseAfterFreeError) Error() string { return e.msg }

func newUseAfterFreeError(format string, a ...interface{}) error {
	return errors.WithStack(&UseAfterFreeError{msg: fmt.Sprintf(format, a...)})
}

// CrossFactoryError reports that operands passed to the same operation come
// from different Factory instances. It is fatal to the operation, not to
// either factory.
type CrossFactoryError struct {
	msg string
}

func (e *CrossFactoryError) Error() string { return e.msg }

func newCrossFactoryError(format string, a ...interface{}) error {
	return errors.WithStack(&CrossFactoryError{msg: fmt.Sprintf(format, a...)})
}

// OutOfMemoryError reports that the node table could not grow any further
// because Maxnodesize was reached. The factory remains usable; only the
// operation that triggered the error is aborted.
type OutOfMemoryError struct {
	msg string
}

func (e *OutOfMemoryError) Error() string { return e.msg }

func newOutOfMemoryError(format string, a ...interface{}) error {
	return errors.WithStack(&OutOfMemoryError{msg: fmt.Sprintf(format, a...)})
}

// FrozenPairingMutationError reports a call to Set on a Pairing that has
// already been installed with FreezeAndInstall.
type FrozenPairingMutationError struct {
	msg string
}

func (e *FrozenPairingMutationError) Error() string { return e.msg }

func newFrozenPairingMutationError(format string, a ...interface{}) error {
	return errors.WithStack(&FrozenPairingMutationError{msg: fmt.Sprintf(format, a...)})
}

// Error returns the error status of the Factory, or an empty string if no
// operation has raised an error since Init or the last Reset. The error is
// sticky: later successful operations do not clear it.
func (b *Factory) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored reports whether any operation on the Factory has raised an error
// since Init or the last Reset.
func (b *Factory) Errored() bool {
	return b.error != nil
}

// Cause returns the Factory's sticky error value, for callers that want to
// inspect it programmatically (errors.As/errors.Is) instead of reading the
// formatted message from Error().
func (b *Factory) Cause() error {
	return b.error
}

func (b *Factory) seterror(err error) Node {
	if b.error != nil {
		b.error = errors.Wrap(err, b.error.Error())
		return Node{}
	}
	b.error = err
	b.logger.Errorf("rudd: %s", err)
	return Node{}
}

func (b *Factory) errorf(format string, a ...interface{}) Node {
	return b.seterror(errors.Errorf(format, a...))
}
