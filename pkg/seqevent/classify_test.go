package seqevent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    Type
		expected Category
	}{
		{"System", TypeSystem, CategoryResult},
		{"Result", TypeResult, CategoryResult},
		{"Note", TypeNote, CategoryNote},
		{"NoteOn", TypeNoteOn, CategoryNote},
		{"KeyPress", TypeKeyPress, CategoryNote},
		{"Controller", TypeController, CategoryControl},
		{"RegParam", TypeRegParam, CategoryControl},
		{"KeySign", TypeKeySign, CategoryControl},
		{"Start", TypeStart, CategoryQueue},
		{"SyncPos", TypeSyncPos, CategoryQueue},
		{"Sensing", TypeSensing, CategoryRaw8 | CategoryRaw32},
		{"Echo", TypeEcho, CategoryRaw8 | CategoryRaw32},
		{"ClientStart", TypeClientStart, CategoryAddr},
		{"PortChange", TypePortChange, CategoryAddr},
		{"PortSubscribed", TypePortSubscribed, CategoryConnect},
		{"Usr0", TypeUsr0, CategoryFixed | CategoryUser},
		{"Usr9", TypeUsr9, CategoryFixed | CategoryUser},
		{"Sysex", TypeSysex, CategoryBlob | CategoryPointer},
		{"UsrVar4", TypeUsrVar4, CategoryBlob | CategoryPointer | CategoryUser},
		{"None", TypeNone, CategoryNone},
		{"GapBelowNote", 3, CategoryAny},
		{"KernelRange", 150, CategoryAny},
		{"Unassigned", 200, CategoryAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			if got != tt.expected {
				t.Errorf("Classify(%d): expected %s, got %s", tt.input, tt.expected, got)
			}
		})
	}
}

func TestClassify_Total(t *testing.T) {
	for code := 0; code <= 255; code++ {
		category := Classify(Type(code))
		if Type(code) == TypeNone {
			if category != CategoryNone {
				t.Fatalf("expected none category for type %d, got %s", code, category)
			}
			continue
		}
		if category&shapeMask == 0 {
			t.Fatalf("type %d has no payload shape: %s", code, category)
		}
	}
}

func TestCategory_LengthMode(t *testing.T) {
	tests := []struct {
		name     string
		input    Category
		expected LengthMode
	}{
		{"Note", CategoryNote, LengthFixed},
		{"Connect", CategoryConnect, LengthFixed},
		{"Timestamp", CategoryTimestamp, LengthFixed},
		{"Blob", CategoryBlob, LengthVariable},
		{"Pointer", CategoryPointer, LengthPointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.LengthMode(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCategory_String(t *testing.T) {
	if got := CategoryAny.String(); got != "any" {
		t.Errorf("expected 'any', got '%s'", got)
	}
	if got := CategoryNone.String(); got != "none" {
		t.Errorf("expected 'none', got '%s'", got)
	}
	if got := (CategoryBlob | CategoryUser).String(); got != "blob|user" {
		t.Errorf("expected 'blob|user', got '%s'", got)
	}
}
