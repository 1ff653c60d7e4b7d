package seqevent

import (
	"errors"
	"fmt"
)

var (
	// Requested shape is not legal for the event type
	ErrInvalidDataType = errors.New("invalid data type for event")

	// Event length mode does not match the requested shape
	ErrInvalidLengthMode = errors.New("invalid length mode for event")

	// Fewer bytes remain than one full record
	ErrTruncated = errors.New("truncated event record")

	// Event cannot be dispatched the way it is addressed
	ErrUnsupportedDelivery = errors.New("unsupported delivery for event")
)

// Shape or length mode mismatch on a payload accessor
type ShapeError struct {
	Type         Type
	Expected     Category   // requested shape
	Allowed      Category   // classifier result for Type
	Mode         LengthMode // current mode of the event
	ExpectedMode LengthMode
	Err          error // ErrInvalidDataType or ErrInvalidLengthMode
}

func (e *ShapeError) Error() string {
	if errors.Is(e.Err, ErrInvalidLengthMode) {
		return fmt.Sprintf("%v: type %s: %s data requires %s length mode, event is %s",
			e.Err, e.Type, e.Expected, e.ExpectedMode, e.Mode)
	}
	return fmt.Sprintf("%v: type %s: expected %s data, type allows %s",
		e.Err, e.Type, e.Expected, e.Allowed)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Event that cannot be delivered as addressed
type DeliveryError struct {
	Type   Type
	Queue  uint8
	Mode   LengthMode
	Reason string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%v: type %s in %s mode on queue %d: %s",
		ErrUnsupportedDelivery, e.Type, e.Mode, e.Queue, e.Reason)
}

func (e *DeliveryError) Unwrap() error {
	return ErrUnsupportedDelivery
}
