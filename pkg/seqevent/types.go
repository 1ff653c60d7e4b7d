package seqevent

// Event type code (0..255)
type Type uint8

// Set of payload categories legal for an event type
type Category uint16

// How the payload of an event is carried on the wire
type LengthMode uint8

const (
	LengthFixed    LengthMode = iota // 12 byte inline data
	LengthVariable                   // owned blob following the header
	LengthPointer                    // unowned pointer/length descriptor, direct delivery only
)

type TimeStampMode uint8

const (
	TimeStampTick TimeStampMode = iota
	TimeStampReal
)

type TimeMode uint8

const (
	TimeModeAbsolute TimeMode = iota
	TimeModeRelative
)

type Priority uint8

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

// Client/port pair
type Addr struct {
	Client uint8
	Port   uint8
}

// Either TickTime or RealTime
type Timestamp interface {
	Mode() TimeStampMode
	timestamp()
}

// Tick count of a queue
type TickTime uint32

// Seconds and nanoseconds of a queue
type RealTime struct {
	Sec  uint32
	Nsec uint32
}

// One of the payload shapes below.
// The set of implementations is closed.
type Payload interface {
	Category() Category
	payload()
}

type Note struct {
	Channel     uint8
	Note        uint8
	Velocity    uint8
	OffVelocity uint8
	Duration    uint32
}

type Control struct {
	Channel uint8
	Param   uint32
	Value   int32
}

// Raw 12 bytes
type Raw8 [12]byte

// Raw three 32 bit words
type Raw32 [3]uint32

// Queue control data: target queue plus one parameter alternative
type QueueControl struct {
	Queue uint8
	Param QueueParam
}

// One of QueueValue, QueueTime, QueuePosition, QueueSkew or QueueRaw
type QueueParam interface {
	queueParam()
}

type QueueValue int32

type QueueTime struct {
	Time Timestamp
}

type QueuePosition uint32

type QueueSkew struct {
	Value uint32
	Base  uint32
}

type QueueRaw [8]byte

type Connect struct {
	Sender Addr
	Dest   Addr
}

type Result struct {
	Event  int32
	Result int32
}

// Timestamp carried as payload
type TimeData struct {
	Time Timestamp
}

// Variable length data exclusively owned by its event
type Blob []byte

// Descriptor of externally owned memory. Never dereferenced.
type Pointer struct {
	Addr uint64
	Len  uint32
}

// One sequencer event
type Event struct {
	Type        Type
	TimeMode    TimeMode
	Priority    Priority
	Tag         int8
	Queue       uint8
	Time        Timestamp // nil is tick zero
	Source      Addr
	Destination Addr

	payload Payload // nil is a zeroed fixed payload
}

// Ordered events flattened into one contiguous buffer
type Batch struct {
	buf     []byte
	aligned bool
}
