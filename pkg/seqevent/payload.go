package seqevent

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Kernel ABI uses host byte order
var byteOrder = binary.NativeEndian

// Checks that the event type allows the shape and that the event is in the
// length mode the shape requires
func (event *Event) ValidateShape(expected Category) (err error) {
	err = event.checkType(expected)
	if err != nil {
		return
	}

	required := expected.LengthMode()
	current := event.LengthMode()
	if current != required {
		err = &ShapeError{
			Type:         event.Type,
			Expected:     expected,
			Allowed:      Classify(event.Type),
			Mode:         current,
			ExpectedMode: required,
			Err:          ErrInvalidLengthMode,
		}
		return
	}
	return
}

// Type only check used by setters (the setter fixes the length mode itself)
func (event *Event) checkType(expected Category) (err error) {
	allowed := Classify(event.Type)
	if !allowed.Has(expected) {
		err = &ShapeError{
			Type:         event.Type,
			Expected:     expected,
			Allowed:      allowed,
			Mode:         event.LengthMode(),
			ExpectedMode: expected.LengthMode(),
			Err:          ErrInvalidDataType,
		}
		return
	}
	return
}

func (event *Event) install(expected Category, payload Payload) (err error) {
	err = event.checkType(expected)
	if err != nil {
		return
	}
	event.payload = payload
	return
}

// Note accessors

func (event *Event) Note() (note Note, err error) {
	err = event.ValidateShape(CategoryNote)
	if err != nil {
		return
	}
	note, ok := event.payload.(Note)
	if !ok {
		note = decodeNote(event.fixedImage())
	}
	return
}

func (event *Event) SetNote(note Note) (err error) {
	err = event.install(CategoryNote, note)
	return
}

// Control accessors

func (event *Event) Control() (control Control, err error) {
	err = event.ValidateShape(CategoryControl)
	if err != nil {
		return
	}
	control, ok := event.payload.(Control)
	if !ok {
		control = decodeControl(event.fixedImage())
	}
	return
}

func (event *Event) SetControl(control Control) (err error) {
	err = event.install(CategoryControl, control)
	return
}

// Raw byte accessors

func (event *Event) Raw8() (raw Raw8, err error) {
	err = event.ValidateShape(CategoryRaw8)
	if err != nil {
		return
	}
	raw = event.fixedImage()
	return
}

func (event *Event) SetRaw8(raw Raw8) (err error) {
	err = event.install(CategoryRaw8, raw)
	return
}

// Raw word accessors

func (event *Event) Raw32() (raw Raw32, err error) {
	err = event.ValidateShape(CategoryRaw32)
	if err != nil {
		return
	}
	raw, ok := event.payload.(Raw32)
	if !ok {
		raw = decodeRaw32(event.fixedImage())
	}
	return
}

func (event *Event) SetRaw32(raw Raw32) (err error) {
	err = event.install(CategoryRaw32, raw)
	return
}

// Queue control accessors

func (event *Event) QueueControl() (control QueueControl, err error) {
	err = event.ValidateShape(CategoryQueue)
	if err != nil {
		return
	}
	control, ok := event.payload.(QueueControl)
	if !ok {
		control = decodeQueueControl(event.fixedImage(), event.Type)
	}
	return
}

func (event *Event) SetQueueControl(control QueueControl) (err error) {
	if control.Param == nil {
		control.Param = QueueRaw{}
	}
	err = event.install(CategoryQueue, control)
	return
}

// Address accessors

func (event *Event) Addr() (addr Addr, err error) {
	err = event.ValidateShape(CategoryAddr)
	if err != nil {
		return
	}
	image := event.fixedImage()
	addr = Addr{Client: image[0], Port: image[1]}
	return
}

func (event *Event) SetAddr(addr Addr) (err error) {
	err = event.install(CategoryAddr, addr)
	return
}

// Connection accessors

func (event *Event) Connect() (connect Connect, err error) {
	err = event.ValidateShape(CategoryConnect)
	if err != nil {
		return
	}
	image := event.fixedImage()
	connect = Connect{
		Sender: Addr{Client: image[0], Port: image[1]},
		Dest:   Addr{Client: image[2], Port: image[3]},
	}
	return
}

func (event *Event) SetConnect(connect Connect) (err error) {
	err = event.install(CategoryConnect, connect)
	return
}

// Result accessors

func (event *Event) Result() (result Result, err error) {
	err = event.ValidateShape(CategoryResult)
	if err != nil {
		return
	}
	image := event.fixedImage()
	result = Result{
		Event:  int32(byteOrder.Uint32(image[0:4])),
		Result: int32(byteOrder.Uint32(image[4:8])),
	}
	return
}

func (event *Event) SetResult(result Result) (err error) {
	err = event.install(CategoryResult, result)
	return
}

// Timestamp payload accessors.
// A timestamp decoded from the wire is interpreted in the event's own timestamp mode.

func (event *Event) TimeData() (data TimeData, err error) {
	err = event.ValidateShape(CategoryTimestamp)
	if err != nil {
		return
	}
	data, ok := event.payload.(TimeData)
	if !ok {
		image := event.fixedImage()
		data.Time = readTimestamp(image[0:lenTimestamp], event.TimeStampMode())
	}
	if data.Time == nil {
		data.Time = TickTime(0)
	}
	return
}

func (event *Event) SetTimeData(data TimeData) (err error) {
	if data.Time == nil {
		data.Time = TickTime(0)
	}
	err = event.install(CategoryTimestamp, data)
	return
}

// Blob accessors. The getter returns a copy, the setter copies its input.

func (event *Event) Blob() (blob []byte, err error) {
	err = event.ValidateShape(CategoryBlob)
	if err != nil {
		return
	}
	blob = cloneBlob(event.payload.(Blob))
	return
}

// Blobs longer than the descriptor's 28 bit length field are rejected
func (event *Event) SetBlob(blob []byte) (err error) {
	err = checkBlobLength(len(blob))
	if err != nil {
		return
	}
	err = event.install(CategoryBlob, cloneBlob(blob))
	return
}

func checkBlobLength(length int) (err error) {
	if uint64(length) > uint64(extLengthMask) {
		err = fmt.Errorf("%w: %d byte blob exceeds %d byte limit",
			ErrInvalidLengthMode, length, extLengthMask)
	}
	return
}

// Pointer accessors. The referenced memory is never touched.

func (event *Event) Pointer() (pointer Pointer, err error) {
	err = event.ValidateShape(CategoryPointer)
	if err != nil {
		return
	}
	pointer = event.payload.(Pointer)
	return
}

func (event *Event) SetPointer(pointer Pointer) (err error) {
	err = event.install(CategoryPointer, pointer)
	return
}

// 12 byte data area as the kernel sees it
func (event *Event) fixedImage() (image Raw8) {
	switch p := event.payload.(type) {
	case nil:
	case Note:
		image[0] = p.Channel
		image[1] = p.Note
		image[2] = p.Velocity
		image[3] = p.OffVelocity
		byteOrder.PutUint32(image[4:8], p.Duration)
	case Control:
		image[0] = p.Channel
		byteOrder.PutUint32(image[4:8], p.Param)
		byteOrder.PutUint32(image[8:12], uint32(p.Value))
	case Raw8:
		image = p
	case Raw32:
		for i, word := range p {
			byteOrder.PutUint32(image[i*4:i*4+4], word)
		}
	case QueueControl:
		image[0] = p.Queue
		putQueueParam(image[4:12], p.Param)
	case Addr:
		image[0] = p.Client
		image[1] = p.Port
	case Connect:
		image[0] = p.Sender.Client
		image[1] = p.Sender.Port
		image[2] = p.Dest.Client
		image[3] = p.Dest.Port
	case Result:
		byteOrder.PutUint32(image[0:4], uint32(p.Event))
		byteOrder.PutUint32(image[4:8], uint32(p.Result))
	case TimeData:
		putTimestamp(image[0:lenTimestamp], p.Time)
	case Blob:
		byteOrder.PutUint32(image[0:4], uint32(len(p)))
	case Pointer:
		byteOrder.PutUint32(image[0:4], p.Len)
		byteOrder.PutUint64(image[4:12], p.Addr)
	}
	return
}

// Picks the payload shape for a fixed record read from the wire
func decodeFixed(image Raw8, eventType Type, mode TimeStampMode) (payload Payload) {
	fixed := Classify(eventType) & CategoryFixed
	if bits.OnesCount16(uint16(fixed)) != 1 {
		payload = image
		return
	}

	switch fixed {
	case CategoryNote:
		payload = decodeNote(image)
	case CategoryControl:
		payload = decodeControl(image)
	case CategoryRaw32:
		payload = decodeRaw32(image)
	case CategoryQueue:
		payload = decodeQueueControl(image, eventType)
	case CategoryAddr:
		payload = Addr{Client: image[0], Port: image[1]}
	case CategoryConnect:
		payload = Connect{
			Sender: Addr{Client: image[0], Port: image[1]},
			Dest:   Addr{Client: image[2], Port: image[3]},
		}
	case CategoryResult:
		payload = Result{
			Event:  int32(byteOrder.Uint32(image[0:4])),
			Result: int32(byteOrder.Uint32(image[4:8])),
		}
	case CategoryTimestamp:
		payload = TimeData{Time: readTimestamp(image[0:lenTimestamp], mode)}
	default:
		payload = image
	}
	return
}

func decodeNote(image Raw8) (note Note) {
	note = Note{
		Channel:     image[0],
		Note:        image[1],
		Velocity:    image[2],
		OffVelocity: image[3],
		Duration:    byteOrder.Uint32(image[4:8]),
	}
	return
}

func decodeControl(image Raw8) (control Control) {
	control = Control{
		Channel: image[0],
		Param:   byteOrder.Uint32(image[4:8]),
		Value:   int32(byteOrder.Uint32(image[8:12])),
	}
	return
}

func decodeRaw32(image Raw8) (raw Raw32) {
	for i := range raw {
		raw[i] = byteOrder.Uint32(image[i*4 : i*4+4])
	}
	return
}

// Queue parameter alternative is selected by the event type
func decodeQueueControl(image Raw8, eventType Type) (control QueueControl) {
	control.Queue = image[0]
	param := image[4:12]

	switch eventType {
	case TypeSetPosTick:
		control.Param = QueueTime{Time: readTimestamp(param, TimeStampTick)}
	case TypeSetPosTime:
		control.Param = QueueTime{Time: readTimestamp(param, TimeStampReal)}
	case TypeTempo, TypeClock, TypeTick:
		control.Param = QueueValue(int32(byteOrder.Uint32(param[0:4])))
	case TypeQueueSkew:
		control.Param = QueueSkew{
			Value: byteOrder.Uint32(param[0:4]),
			Base:  byteOrder.Uint32(param[4:8]),
		}
	case TypeSyncPos:
		control.Param = QueuePosition(byteOrder.Uint32(param[0:4]))
	default:
		var raw QueueRaw
		copy(raw[:], param)
		control.Param = raw
	}
	return
}

func putQueueParam(dst []byte, param QueueParam) {
	switch p := param.(type) {
	case QueueValue:
		byteOrder.PutUint32(dst[0:4], uint32(p))
	case QueueTime:
		putTimestamp(dst[0:lenTimestamp], p.Time)
	case QueuePosition:
		byteOrder.PutUint32(dst[0:4], uint32(p))
	case QueueSkew:
		byteOrder.PutUint32(dst[0:4], p.Value)
		byteOrder.PutUint32(dst[4:8], p.Base)
	case QueueRaw:
		copy(dst, p[:])
	}
}

// Tick occupies the first word, real time is seconds then nanoseconds
func putTimestamp(dst []byte, stamp Timestamp) {
	switch t := stamp.(type) {
	case TickTime:
		byteOrder.PutUint32(dst[0:4], uint32(t))
	case RealTime:
		byteOrder.PutUint32(dst[0:4], t.Sec)
		byteOrder.PutUint32(dst[4:8], t.Nsec)
	}
}

func readTimestamp(src []byte, mode TimeStampMode) (stamp Timestamp) {
	if mode == TimeStampReal {
		stamp = RealTime{
			Sec:  byteOrder.Uint32(src[0:4]),
			Nsec: byteOrder.Uint32(src[4:8]),
		}
		return
	}
	stamp = TickTime(byteOrder.Uint32(src[0:4]))
	return
}
