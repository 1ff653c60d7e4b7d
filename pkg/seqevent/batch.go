package seqevent

import "iter"

// Flattens events, in order, into one buffer.
// Aligned batches pad every record to a multiple of the header size.
func NewBatch(events []*Event, aligned bool) (batch *Batch) {
	total := 0
	for _, event := range events {
		total += event.Length(aligned)
	}

	batch = &Batch{
		buf:     make([]byte, total),
		aligned: aligned,
	}

	offset := 0
	for _, event := range events {
		length := event.Length(aligned)
		event.EncodeTo(batch.buf[offset : offset+length])
		offset += length
	}
	return
}

// Adopts a copy of raw bytes read from the transport
func ParseBatch(raw []byte, aligned bool) (batch *Batch) {
	batch = &Batch{
		buf:     make([]byte, len(raw)),
		aligned: aligned,
	}
	copy(batch.buf, raw)
	return
}

// Flattened bytes (owned by the batch, do not modify)
func (batch *Batch) Bytes() (buf []byte) {
	buf = batch.buf
	return
}

func (batch *Batch) Len() (length int) {
	length = len(batch.buf)
	return
}

func (batch *Batch) Aligned() (aligned bool) {
	aligned = batch.aligned
	return
}

// Deep copy of the batch and its backing buffer
func (batch *Batch) Clone() (clone *Batch) {
	clone = ParseBatch(batch.buf, batch.aligned)
	return
}

// Parses all complete records. A partial or malformed record ends the stream;
// the bytes from it onward are returned in discarded.
func (batch *Batch) Events() (events []*Event, discarded int) {
	offset := 0
	for offset < len(batch.buf) {
		event, consumed, err := Decode(batch.buf[offset:], batch.aligned)
		if err != nil {
			break
		}
		events = append(events, event)
		offset += consumed
	}
	discarded = len(batch.buf) - offset
	return
}

// Iterates parsed records lazily, stopping at a partial or malformed record
func (batch *Batch) All() iter.Seq2[int, *Event] {
	return func(yield func(int, *Event) bool) {
		offset := 0
		for index := 0; offset < len(batch.buf); index++ {
			event, consumed, err := Decode(batch.buf[offset:], batch.aligned)
			if err != nil {
				return
			}
			if !yield(index, event) {
				return
			}
			offset += consumed
		}
	}
}
