// In-memory model of kernel sequencer events and their wire codec
package seqevent

// Creates an event of the given type addressed for direct delivery,
// stamped with tick zero and carrying a zeroed fixed payload
func NewEvent(eventType Type) (event *Event) {
	event = &Event{
		Type:  eventType,
		Queue: QueueDirect,
		Time:  TickTime(0),
	}
	return
}

func (TickTime) Mode() TimeStampMode { return TimeStampTick }
func (TickTime) timestamp()          {}
func (RealTime) Mode() TimeStampMode { return TimeStampReal }
func (RealTime) timestamp()          {}

func (Note) Category() Category         { return CategoryNote }
func (Control) Category() Category      { return CategoryControl }
func (Raw8) Category() Category         { return CategoryRaw8 }
func (Raw32) Category() Category        { return CategoryRaw32 }
func (QueueControl) Category() Category { return CategoryQueue }
func (Addr) Category() Category         { return CategoryAddr }
func (Connect) Category() Category      { return CategoryConnect }
func (Result) Category() Category       { return CategoryResult }
func (TimeData) Category() Category     { return CategoryTimestamp }
func (Blob) Category() Category         { return CategoryBlob }
func (Pointer) Category() Category      { return CategoryPointer }

func (Note) payload()         {}
func (Control) payload()      {}
func (Raw8) payload()         {}
func (Raw32) payload()        {}
func (QueueControl) payload() {}
func (Addr) payload()         {}
func (Connect) payload()      {}
func (Result) payload()       {}
func (TimeData) payload()     {}
func (Blob) payload()         {}
func (Pointer) payload()      {}

func (QueueValue) queueParam()    {}
func (QueueTime) queueParam()     {}
func (QueuePosition) queueParam() {}
func (QueueSkew) queueParam()     {}
func (QueueRaw) queueParam()      {}

// Live payload alternative (never nil)
func (event *Event) Payload() (payload Payload) {
	payload = event.payload
	if payload == nil {
		payload = Raw8{}
	}
	return
}

// Length mode implied by the live payload
func (event *Event) LengthMode() (mode LengthMode) {
	switch event.payload.(type) {
	case Blob:
		mode = LengthVariable
	case Pointer:
		mode = LengthPointer
	default:
		mode = LengthFixed
	}
	return
}

// Timestamp mode implied by the live timestamp
func (event *Event) TimeStampMode() (mode TimeStampMode) {
	if event.Time == nil {
		mode = TimeStampTick
		return
	}
	mode = event.Time.Mode()
	return
}

// Wire representation of all flag fields
func (event *Event) Flags() (flags uint8) {
	switch event.LengthMode() {
	case LengthVariable:
		flags |= lengthVariableBits
	case LengthPointer:
		flags |= lengthPointerBits
	default:
		flags |= lengthFixedBits
	}
	if event.TimeStampMode() == TimeStampReal {
		flags |= flagTimeStampReal
	}
	if event.TimeMode == TimeModeRelative {
		flags |= flagTimeModeRel
	}
	if event.Priority == PriorityHigh {
		flags |= flagPriorityHigh
	}
	return
}

// Deep copy. The blob payload, if any, is duplicated.
func (event *Event) Clone() (clone *Event) {
	clone = new(Event)
	*clone = *event
	if blob, ok := event.payload.(Blob); ok {
		clone.payload = cloneBlob(blob)
	}
	return
}

func cloneBlob(blob []byte) (owned Blob) {
	owned = make(Blob, len(blob))
	copy(owned, blob)
	return
}

// Reports whether two events carry identical fields and payload bytes
func (event *Event) Equal(other *Event) (equal bool) {
	if event == nil || other == nil {
		equal = event == other
		return
	}
	if event.Type != other.Type || event.Flags() != other.Flags() ||
		event.Tag != other.Tag || event.Queue != other.Queue ||
		event.Source != other.Source || event.Destination != other.Destination {
		return
	}

	var ownTime, otherTime [lenTimestamp]byte
	putTimestamp(ownTime[:], event.Time)
	putTimestamp(otherTime[:], other.Time)
	if ownTime != otherTime {
		return
	}

	switch own := event.payload.(type) {
	case Blob:
		peer, ok := other.payload.(Blob)
		equal = ok && string(own) == string(peer)
	case Pointer:
		peer, ok := other.payload.(Pointer)
		equal = ok && own == peer
	default:
		equal = event.fixedImage() == other.fixedImage()
	}
	return
}
