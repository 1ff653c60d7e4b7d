package seqevent

// Event type codes as defined by the kernel sequencer ABI
const (
	TypeSystem Type = 0
	TypeResult Type = 1

	TypeNote     Type = 5
	TypeNoteOn   Type = 6
	TypeNoteOff  Type = 7
	TypeKeyPress Type = 8

	TypeController  Type = 10
	TypePgmChange   Type = 11
	TypeChanPress   Type = 12
	TypePitchBend   Type = 13
	TypeControl14   Type = 14
	TypeNonRegParam Type = 15
	TypeRegParam    Type = 16

	TypeSongPos  Type = 20
	TypeSongSel  Type = 21
	TypeQFrame   Type = 22
	TypeTimeSign Type = 23
	TypeKeySign  Type = 24

	TypeStart      Type = 30
	TypeContinue   Type = 31
	TypeStop       Type = 32
	TypeSetPosTick Type = 33
	TypeSetPosTime Type = 34
	TypeTempo      Type = 35
	TypeClock      Type = 36
	TypeTick       Type = 37
	TypeQueueSkew  Type = 38
	TypeSyncPos    Type = 39

	TypeTuneRequest Type = 40
	TypeReset       Type = 41
	TypeSensing     Type = 42

	TypeEcho Type = 50
	TypeOSS  Type = 51

	TypeClientStart      Type = 60
	TypeClientExit       Type = 61
	TypeClientChange     Type = 62
	TypePortStart        Type = 63
	TypePortExit         Type = 64
	TypePortChange       Type = 65
	TypePortSubscribed   Type = 66
	TypePortUnsubscribed Type = 67

	TypeUsr0 Type = 90
	TypeUsr1 Type = 91
	TypeUsr2 Type = 92
	TypeUsr3 Type = 93
	TypeUsr4 Type = 94
	TypeUsr5 Type = 95
	TypeUsr6 Type = 96
	TypeUsr7 Type = 97
	TypeUsr8 Type = 98
	TypeUsr9 Type = 99

	TypeSysex  Type = 130
	TypeBounce Type = 131

	TypeUsrVar0 Type = 135
	TypeUsrVar1 Type = 136
	TypeUsrVar2 Type = 137
	TypeUsrVar3 Type = 138
	TypeUsrVar4 Type = 139

	TypeNone Type = 255
)

// Reserved queue and address values
const (
	// Deliver immediately without passing through a scheduling queue
	QueueDirect uint8 = 253

	ClientSystem      uint8 = 0
	AddressUnknown    uint8 = 253
	AddressSubscribed uint8 = 254
	AddressBroadcast  uint8 = 255
)

// Flags byte layout
const (
	flagTimeStampReal  uint8 = 1 << 0
	flagTimeModeRel    uint8 = 1 << 1
	flagLengthShift          = 2
	flagLengthMask     uint8 = 3 << flagLengthShift
	flagPriorityHigh   uint8 = 1 << 4
	lengthFixedBits    uint8 = 0
	lengthVariableBits uint8 = 1 << flagLengthShift
	lengthPointerBits  uint8 = 2 << flagLengthShift
)

// Wire field lengths and offsets of the fixed record header
const (
	lenType      int = 1
	lenFlags     int = 1
	lenTag       int = 1
	lenQueue     int = 1
	lenTimestamp int = 8
	lenAddr      int = 2
	lenData      int = 12

	offType   int = 0
	offFlags  int = offType + lenType
	offTag    int = offFlags + lenFlags
	offQueue  int = offTag + lenTag
	offTime   int = offQueue + lenQueue
	offSource int = offTime + lenTimestamp
	offDest   int = offSource + lenAddr
	offData   int = offDest + lenAddr

	// Size of one record header (and the stride of the kernel ring buffer)
	HeaderSize int = offData + lenData

	// Upper bits of the ext length carry kernel-internal markers
	extLengthMask uint32 = 0x0fffffff
)
