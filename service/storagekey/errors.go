package storagekey

import (
	"errors"
	"fmt"

	"github.com/viant/arcs/model/capability"
)

var (
	// ErrUnsatisfiableCapability is returned when no registered factory can
	// satisfy the requested capabilities.
	ErrUnsatisfiableCapability = errors.New("storagekey: unsatisfiable capability")

	// ErrDuplicateProtocol is returned when a factory is registered for a
	// protocol that already has one.
	ErrDuplicateProtocol = errors.New("storagekey: duplicate protocol")

	// ErrUnknownProtocol is returned when parsing a key of an unknown protocol.
	ErrUnknownProtocol = errors.New("storagekey: unknown protocol")
)

// UnsatisfiableCapabilityError identifies the handle whose capabilities
// could not be met.
type UnsatisfiableCapabilityError struct {
	HandleID     string
	Capabilities capability.Capabilities
}

func (e *UnsatisfiableCapabilityError) Error() string {
	return fmt.Sprintf("no storage key factory satisfies %v for handle %v", e.Capabilities, e.HandleID)
}

func (e *UnsatisfiableCapabilityError) Unwrap() error { return ErrUnsatisfiableCapability }
