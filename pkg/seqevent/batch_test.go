package seqevent

import (
	"bytes"
	"testing"
)

func sampleEvents(t *testing.T) (events []*Event) {
	t.Helper()
	events = []*Event{
		mustEvent(t, TypeNoteOn, func(e *Event) error {
			return e.SetNote(Note{Channel: 1, Note: 64, Velocity: 80})
		}),
		mustEvent(t, TypeSysex, func(e *Event) error {
			return e.SetBlob([]byte{0xF0, 0x41, 0x10, 0x42, 0x12, 0xF7})
		}),
		mustEvent(t, TypeController, func(e *Event) error {
			e.Queue = 0
			e.Time = TickTime(1920)
			return e.SetControl(Control{Channel: 1, Param: 10, Value: 64})
		}),
		mustEvent(t, TypeUsrVar3, func(e *Event) error {
			return e.SetBlob(bytes.Repeat([]byte{0xAB}, HeaderSize))
		}),
		mustEvent(t, TypeSysex, func(e *Event) error {
			return e.SetPointer(Pointer{Addr: 0x1000, Len: 16})
		}),
	}
	return
}

func TestBatch_RoundTrip(t *testing.T) {
	for _, aligned := range []bool{false, true} {
		events := sampleEvents(t)
		batch := NewBatch(events, aligned)

		expectedLen := 0
		for _, event := range events {
			expectedLen += event.Length(aligned)
		}
		if batch.Len() != expectedLen {
			t.Fatalf("aligned=%v: expected %d bytes, got %d", aligned, expectedLen, batch.Len())
		}
		if aligned && batch.Len()%HeaderSize != 0 {
			t.Fatalf("aligned batch length %d is not a multiple of %d", batch.Len(), HeaderSize)
		}

		parsed, discarded := ParseBatch(batch.Bytes(), aligned).Events()
		if discarded != 0 {
			t.Errorf("aligned=%v: expected no discarded bytes, got %d", aligned, discarded)
		}
		if len(parsed) != len(events) {
			t.Fatalf("aligned=%v: expected %d events, got %d", aligned, len(events), len(parsed))
		}
		for i := range events {
			if !parsed[i].Equal(events[i]) {
				t.Errorf("aligned=%v: event %d differs:\n%s\n%s", aligned, i, events[i], parsed[i])
			}
		}
	}
}

func TestBatch_Empty(t *testing.T) {
	batch := NewBatch(nil, true)
	if batch.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d bytes", batch.Len())
	}
	events, discarded := batch.Events()
	if len(events) != 0 || discarded != 0 {
		t.Errorf("expected no events, got %d (discarded %d)", len(events), discarded)
	}
}

func TestBatch_TrailingPartialRecord(t *testing.T) {
	events := sampleEvents(t)
	full := NewBatch(events, false).Bytes()

	// Cut into the last record
	cut := full[:len(full)-5]
	parsed, discarded := ParseBatch(cut, false).Events()
	if len(parsed) != len(events)-1 {
		t.Fatalf("expected %d events, got %d", len(events)-1, len(parsed))
	}
	if discarded != HeaderSize-5 {
		t.Errorf("expected %d discarded bytes, got %d", HeaderSize-5, discarded)
	}

	// Cut into a blob
	blobCut := full[:events[0].Length(false)+HeaderSize+2]
	parsed, discarded = ParseBatch(blobCut, false).Events()
	if len(parsed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(parsed))
	}
	if discarded != HeaderSize+2 {
		t.Errorf("expected %d discarded bytes, got %d", HeaderSize+2, discarded)
	}
}

func TestBatch_CloneAndOwnership(t *testing.T) {
	events := sampleEvents(t)
	raw := NewBatch(events, true).Bytes()
	source := append([]byte(nil), raw...)

	batch := ParseBatch(source, true)
	clone := batch.Clone()

	// Neither the transport buffer nor the original batch reach the clone
	clear(source)
	clear(batch.Bytes())

	if !bytes.Equal(clone.Bytes(), raw) {
		t.Fatalf("clone shares its buffer")
	}
	parsed, _ := clone.Events()
	if len(parsed) != len(events) {
		t.Fatalf("expected %d events from clone, got %d", len(events), len(parsed))
	}

	// Parsed blobs do not alias the batch buffer
	clear(clone.Bytes())
	blob, err := parsed[1].Blob()
	if err != nil {
		t.Fatalf("expected no error, but got '%v'", err)
	}
	if blob[0] != 0xF0 {
		t.Errorf("parsed blob aliases batch buffer")
	}
}

func TestBatch_All(t *testing.T) {
	events := sampleEvents(t)
	batch := NewBatch(events, true)

	count := 0
	for index, event := range batch.All() {
		if index != count {
			t.Fatalf("expected index %d, got %d", count, index)
		}
		if !event.Equal(events[index]) {
			t.Errorf("event %d differs", index)
		}
		count++
	}
	if count != len(events) {
		t.Errorf("expected %d events, got %d", len(events), count)
	}

	// Early break
	for index := range batch.All() {
		if index == 1 {
			break
		}
	}
}
