package seqevent

import "strings"

// Payload categories
const (
	CategoryNote Category = 1 << iota
	CategoryControl
	CategoryRaw8
	CategoryRaw32
	CategoryQueue
	CategoryAddr
	CategoryConnect
	CategoryResult
	CategoryTimestamp
	CategoryBlob
	CategoryPointer

	// Marker: slot reserved for application defined use
	CategoryUser

	// Not writable to the bus
	CategoryNone Category = 0

	CategoryFixed Category = CategoryNote | CategoryControl | CategoryRaw8 | CategoryRaw32 |
		CategoryQueue | CategoryAddr | CategoryConnect | CategoryResult | CategoryTimestamp
	CategoryAny Category = CategoryFixed | CategoryBlob | CategoryPointer

	shapeMask Category = CategoryAny
)

type classRange struct {
	low      Type
	high     Type
	category Category
}

// Evaluated in order, first match wins
var classTable = []classRange{
	{TypeSystem, TypeResult, CategoryResult},
	{TypeNote, TypeKeyPress, CategoryNote},
	{TypeController, TypeRegParam, CategoryControl},
	{TypeSongPos, TypeKeySign, CategoryControl},
	{TypeStart, TypeSyncPos, CategoryQueue},
	{TypeTuneRequest, TypeSensing, CategoryRaw8 | CategoryRaw32},
	{TypeEcho, TypeOSS, CategoryRaw8 | CategoryRaw32},
	{TypeClientStart, TypePortChange, CategoryAddr},
	{TypePortSubscribed, TypePortUnsubscribed, CategoryConnect},
	{TypeUsr0, TypeUsr9, CategoryFixed | CategoryUser},
	{TypeSysex, TypeBounce, CategoryBlob | CategoryPointer},
	{TypeUsrVar0, TypeUsrVar4, CategoryBlob | CategoryPointer | CategoryUser},
	{TypeNone, TypeNone, CategoryNone},
}

// Returns the categories legal for the given event type.
// Types outside the table (kernel originated or unassigned) pass through as any.
func Classify(eventType Type) (category Category) {
	for _, r := range classTable {
		if eventType >= r.low && eventType <= r.high {
			category = r.category
			return
		}
	}
	category = CategoryAny
	return
}

// Reports whether every bit of want is present
func (category Category) Has(want Category) (present bool) {
	present = want != 0 && category&want == want
	return
}

// Reports whether any fixed shape is present
func (category Category) Fixed() (fixed bool) {
	fixed = category&CategoryFixed != 0
	return
}

// Length mode required to carry a single shape category
func (category Category) LengthMode() (mode LengthMode) {
	switch category & shapeMask {
	case CategoryBlob:
		mode = LengthVariable
	case CategoryPointer:
		mode = LengthPointer
	default:
		mode = LengthFixed
	}
	return
}

var categoryNames = []struct {
	bit  Category
	name string
}{
	{CategoryNote, "note"},
	{CategoryControl, "control"},
	{CategoryRaw8, "raw8"},
	{CategoryRaw32, "raw32"},
	{CategoryQueue, "queue"},
	{CategoryAddr, "addr"},
	{CategoryConnect, "connect"},
	{CategoryResult, "result"},
	{CategoryTimestamp, "timestamp"},
	{CategoryBlob, "blob"},
	{CategoryPointer, "pointer"},
	{CategoryUser, "user"},
}

func (category Category) String() (text string) {
	if category == CategoryNone {
		text = "none"
		return
	}
	if category&CategoryAny == CategoryAny && category&^CategoryAny == 0 {
		text = "any"
		return
	}

	var parts []string
	for _, c := range categoryNames {
		if category&c.bit != 0 {
			parts = append(parts, c.name)
		}
	}
	text = strings.Join(parts, "|")
	return
}

func (mode LengthMode) String() (text string) {
	switch mode {
	case LengthFixed:
		text = "fixed"
	case LengthVariable:
		text = "variable"
	case LengthPointer:
		text = "pointer"
	default:
		text = "unknown"
	}
	return
}
