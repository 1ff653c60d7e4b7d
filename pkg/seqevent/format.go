package seqevent

import (
	"fmt"
	"strings"
)

var typeNames = map[Type]string{
	TypeSystem:           "system",
	TypeResult:           "result",
	TypeNote:             "note",
	TypeNoteOn:           "note-on",
	TypeNoteOff:          "note-off",
	TypeKeyPress:         "key-press",
	TypeController:       "controller",
	TypePgmChange:        "program-change",
	TypeChanPress:        "channel-pressure",
	TypePitchBend:        "pitch-bend",
	TypeControl14:        "control14",
	TypeNonRegParam:      "non-registered-param",
	TypeRegParam:         "registered-param",
	TypeSongPos:          "song-position",
	TypeSongSel:          "song-select",
	TypeQFrame:           "quarter-frame",
	TypeTimeSign:         "time-signature",
	TypeKeySign:          "key-signature",
	TypeStart:            "start",
	TypeContinue:         "continue",
	TypeStop:             "stop",
	TypeSetPosTick:       "set-position-tick",
	TypeSetPosTime:       "set-position-time",
	TypeTempo:            "tempo",
	TypeClock:            "clock",
	TypeTick:             "tick",
	TypeQueueSkew:        "queue-skew",
	TypeSyncPos:          "sync-position",
	TypeTuneRequest:      "tune-request",
	TypeReset:            "reset",
	TypeSensing:          "sensing",
	TypeEcho:             "echo",
	TypeOSS:              "oss",
	TypeClientStart:      "client-start",
	TypeClientExit:       "client-exit",
	TypeClientChange:     "client-change",
	TypePortStart:        "port-start",
	TypePortExit:         "port-exit",
	TypePortChange:       "port-change",
	TypePortSubscribed:   "port-subscribed",
	TypePortUnsubscribed: "port-unsubscribed",
	TypeSysex:            "sysex",
	TypeBounce:           "bounce",
	TypeNone:             "none",
}

func (eventType Type) String() (name string) {
	name, known := typeNames[eventType]
	if known {
		return
	}
	switch {
	case eventType >= TypeUsr0 && eventType <= TypeUsr9:
		name = fmt.Sprintf("user%d", eventType-TypeUsr0)
	case eventType >= TypeUsrVar0 && eventType <= TypeUsrVar4:
		name = fmt.Sprintf("user-var%d", eventType-TypeUsrVar0)
	default:
		name = fmt.Sprintf("type-%d", uint8(eventType))
	}
	return
}

func (addr Addr) String() string {
	return fmt.Sprintf("%d:%d", addr.Client, addr.Port)
}

func (t TickTime) String() string {
	return fmt.Sprintf("tick %d", uint32(t))
}

func (t RealTime) String() string {
	return fmt.Sprintf("%d.%09ds", t.Sec, t.Nsec)
}

// Single line description for logs
func (event *Event) String() (text string) {
	var parts []string
	parts = append(parts, event.Type.String())
	parts = append(parts, fmt.Sprintf("%s->%s", event.Source, event.Destination))

	if event.Queue == QueueDirect {
		parts = append(parts, "direct")
	} else {
		parts = append(parts, fmt.Sprintf("queue %d", event.Queue))
	}

	if event.Time != nil {
		parts = append(parts, fmt.Sprint(event.Time))
	}

	switch p := event.payload.(type) {
	case nil:
	case Blob:
		parts = append(parts, fmt.Sprintf("blob[%d] % x", len(p), []byte(p)))
	case Pointer:
		parts = append(parts, fmt.Sprintf("pointer 0x%x len %d", p.Addr, p.Len))
	default:
		parts = append(parts, fmt.Sprintf("%+v", p))
	}

	text = strings.Join(parts, " ")
	return
}
