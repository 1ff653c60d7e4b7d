package seqevent

import (
	"errors"
	"strings"
	"testing"
)

func TestShapeEnforcement(t *testing.T) {
	event := NewEvent(TypeNoteOn)
	if err := event.SetNote(Note{Note: 60, Velocity: 90}); err != nil {
		t.Fatalf("expected no error setting note, but got '%v'", err)
	}

	_, err := event.Control()
	if !errors.Is(err, ErrInvalidDataType) {
		t.Fatalf("expected invalid data type error, got '%v'", err)
	}

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	if shapeErr.Type != TypeNoteOn || shapeErr.Expected != CategoryControl || shapeErr.Allowed != CategoryNote {
		t.Errorf("unexpected error details: %+v", shapeErr)
	}
	if !strings.Contains(err.Error(), "note-on") || !strings.Contains(err.Error(), "control") {
		t.Errorf("error message does not name type and shapes: %s", err)
	}
}

func TestAccessors_TypeChecks(t *testing.T) {
	tests := []struct {
		name        string
		eventType   Type
		set         func(e *Event) error
		expectedErr error
	}{
		{"NoteOnControllerType", TypeController, func(e *Event) error { return e.SetNote(Note{}) }, ErrInvalidDataType},
		{"ControlOnController", TypeController, func(e *Event) error { return e.SetControl(Control{}) }, nil},
		{"BlobOnNoteOn", TypeNoteOn, func(e *Event) error { return e.SetBlob([]byte{1}) }, ErrInvalidDataType},
		{"BlobOnSysex", TypeSysex, func(e *Event) error { return e.SetBlob([]byte{1}) }, nil},
		{"PointerOnUsrVar", TypeUsrVar1, func(e *Event) error { return e.SetPointer(Pointer{}) }, nil},
		{"PointerOnUsr", TypeUsr1, func(e *Event) error { return e.SetPointer(Pointer{}) }, ErrInvalidDataType},
		{"AnythingOnNone", TypeNone, func(e *Event) error { return e.SetRaw8(Raw8{}) }, ErrInvalidDataType},
		{"AnythingOnUnassigned", 200, func(e *Event) error { return e.SetConnect(Connect{}) }, nil},
		{"AddrOnPortExit", TypePortExit, func(e *Event) error { return e.SetAddr(Addr{}) }, nil},
		{"ResultOnSystem", TypeSystem, func(e *Event) error { return e.SetResult(Result{}) }, nil},
		{"QueueOnStop", TypeStop, func(e *Event) error { return e.SetQueueControl(QueueControl{}) }, nil},
		{"TimeOnStop", TypeStop, func(e *Event) error { return e.SetTimeData(TimeData{}) }, ErrInvalidDataType},
		{"Raw32OnEcho", TypeEcho, func(e *Event) error { return e.SetRaw32(Raw32{}) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewEvent(tt.eventType)
			before := event.LengthMode()

			err := tt.set(event)
			if tt.expectedErr == nil && err != nil {
				t.Fatalf("expected no error, but got '%v'", err)
			}
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error '%v', got '%v'", tt.expectedErr, err)
				}
				// Rejected setters leave the event untouched
				if event.LengthMode() != before {
					t.Errorf("length mode changed by a rejected setter")
				}
			}
		})
	}
}

func TestAccessors_LengthMode(t *testing.T) {
	event := NewEvent(TypeUsrVar0)
	if err := event.SetBlob([]byte("abc")); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}

	_, err := event.Pointer()
	if !errors.Is(err, ErrInvalidLengthMode) {
		t.Fatalf("expected invalid length mode error, got '%v'", err)
	}
	if !strings.Contains(err.Error(), "pointer") || !strings.Contains(err.Error(), "variable") {
		t.Errorf("error message does not name expected and actual modes: %s", err)
	}

	// Setting a pointer drops the blob and switches mode
	if err = event.SetPointer(Pointer{Addr: 42, Len: 3}); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	if event.LengthMode() != LengthPointer {
		t.Fatalf("expected pointer mode, got %s", event.LengthMode())
	}
	if event.Length(false) != HeaderSize {
		t.Errorf("expected blob bytes to be released, length %d", event.Length(false))
	}
	if _, err = event.Blob(); !errors.Is(err, ErrInvalidLengthMode) {
		t.Errorf("expected invalid length mode error, got '%v'", err)
	}
}

func TestAccessors_ReinterpretFixedData(t *testing.T) {
	// User slots accept any fixed shape and view the same 12 bytes
	event := NewEvent(TypeUsr0)
	if err := event.SetRaw8(Raw8{1, 2, 3, 4, 0x10, 0, 0, 0}); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}

	note, err := event.Note()
	if err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	if note.Channel != 1 || note.Note != 2 || note.Velocity != 3 || note.OffVelocity != 4 {
		t.Errorf("unexpected note view: %+v", note)
	}
	if note.Duration != byteOrder.Uint32([]byte{0x10, 0, 0, 0}) {
		t.Errorf("unexpected duration view: %d", note.Duration)
	}

	connect, err := event.Connect()
	if err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	if connect.Sender != (Addr{Client: 1, Port: 2}) || connect.Dest != (Addr{Client: 3, Port: 4}) {
		t.Errorf("unexpected connect view: %+v", connect)
	}
}

func TestClone_BlobIsolation(t *testing.T) {
	original := NewEvent(TypeSysex)
	if err := original.SetBlob([]byte{0xF0, 0x7E, 0xF7}); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}

	clone := original.Clone()
	if !clone.Equal(original) {
		t.Fatalf("expected clone to equal original")
	}

	if err := original.SetBlob([]byte{0xF0, 0xF7}); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	blob, _ := clone.Blob()
	if len(blob) != 3 || blob[1] != 0x7E {
		t.Errorf("clone shares storage with original: % x", blob)
	}
}

func TestTimeData_DefaultsToTick(t *testing.T) {
	event := NewEvent(TypeUsr5)
	if err := event.SetTimeData(TimeData{}); err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	data, err := event.TimeData()
	if err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	if data.Time != TickTime(0) {
		t.Errorf("expected tick zero, got %v", data.Time)
	}
}
