package seqevent

import "fmt"

// Gets flattened size of the event: header plus blob bytes in variable mode.
// Aligned lengths are rounded up to a multiple of the header size, as the
// kernel ring buffer works in header sized cells.
func (event *Event) Length(aligned bool) (length int) {
	length = HeaderSize
	if blob, ok := event.payload.(Blob); ok {
		length += len(blob)
	}
	if aligned {
		length = alignLength(length)
	}
	return
}

func alignLength(length int) (aligned int) {
	aligned = (length + HeaderSize - 1) / HeaderSize * HeaderSize
	return
}

// Writes header and (variable mode only) blob bytes into buf and nothing
// else; bytes of buf past Length(false) are left untouched.
// Buffer must be sized from Length; a short buffer panics.
func (event *Event) EncodeTo(buf []byte) (written int) {
	length := event.Length(false)
	if len(buf) < length {
		panic(fmt.Sprintf("seqevent: encode buffer of %d bytes for %d byte %s event", len(buf), length, event.Type))
	}

	// HEADER
	buf[offType] = byte(event.Type)
	buf[offFlags] = event.Flags()
	buf[offTag] = byte(event.Tag)
	buf[offQueue] = event.Queue

	// TIME
	timeField := buf[offTime : offTime+lenTimestamp]
	clear(timeField)
	putTimestamp(timeField, event.Time)

	// ADDRESSES
	buf[offSource] = event.Source.Client
	buf[offSource+1] = event.Source.Port
	buf[offDest] = event.Destination.Client
	buf[offDest+1] = event.Destination.Port

	// DATA
	image := event.fixedImage()
	copy(buf[offData:offData+lenData], image[:])
	written = HeaderSize

	// TRAILER
	if blob, ok := event.payload.(Blob); ok {
		written += copy(buf[HeaderSize:], blob)
	}
	return
}

// Flattens a single event into a new buffer (padding stays zero)
func (event *Event) Encode(aligned bool) (record []byte) {
	record = make([]byte, event.Length(aligned))
	event.EncodeTo(record)
	return
}

// Parses one record from the front of buf and reports the bytes consumed.
// Blob bytes are copied out of buf; pointer descriptors are copied verbatim.
// Returns ErrTruncated when buf holds less than a full record.
func Decode(buf []byte, aligned bool) (event *Event, consumed int, err error) {
	if len(buf) < HeaderSize {
		err = fmt.Errorf("%w: %d of %d header bytes", ErrTruncated, len(buf), HeaderSize)
		return
	}

	flags := buf[offFlags]
	parsed := &Event{
		Type:  Type(buf[offType]),
		Tag:   int8(buf[offTag]),
		Queue: buf[offQueue],
		Source: Addr{
			Client: buf[offSource],
			Port:   buf[offSource+1],
		},
		Destination: Addr{
			Client: buf[offDest],
			Port:   buf[offDest+1],
		},
	}

	if flags&flagTimeModeRel != 0 {
		parsed.TimeMode = TimeModeRelative
	}
	if flags&flagPriorityHigh != 0 {
		parsed.Priority = PriorityHigh
	}
	stampMode := TimeStampTick
	if flags&flagTimeStampReal != 0 {
		stampMode = TimeStampReal
	}
	parsed.Time = readTimestamp(buf[offTime:offTime+lenTimestamp], stampMode)

	var image Raw8
	copy(image[:], buf[offData:offData+lenData])
	consumed = HeaderSize

	switch flags & flagLengthMask {
	case lengthVariableBits:
		blobLen := int(byteOrder.Uint32(image[0:4]) & extLengthMask)
		if len(buf)-HeaderSize < blobLen {
			err = fmt.Errorf("%w: %s event needs %d data bytes, %d remain",
				ErrTruncated, parsed.Type, blobLen, len(buf)-HeaderSize)
			consumed = 0
			return
		}
		parsed.payload = cloneBlob(buf[HeaderSize : HeaderSize+blobLen])
		consumed += blobLen
	case lengthPointerBits:
		parsed.payload = Pointer{
			Len:  byteOrder.Uint32(image[0:4]),
			Addr: byteOrder.Uint64(image[4:12]),
		}
	case lengthFixedBits:
		parsed.payload = decodeFixed(image, parsed.Type, stampMode)
	default:
		err = fmt.Errorf("%w: %s event has reserved length bits %#x",
			ErrInvalidLengthMode, parsed.Type, flags&flagLengthMask)
		consumed = 0
		return
	}

	// Padding is skipped when present; a final record may omit it
	if aligned {
		consumed = min(alignLength(consumed), len(buf))
	}

	event = parsed
	return
}
