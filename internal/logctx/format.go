package logctx

import (
	"strings"
)

// Nanoseconds always nine digits so columns line up
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Renders "[time] [tag/tag] [severity] message", skipping empty fields.
// Newlines are left to the message.
func (event Event) Format() (text string) {
	var line strings.Builder

	bracket := func(field string) {
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteByte('[')
		line.WriteString(field)
		line.WriteByte(']')
	}

	if !event.Timestamp.IsZero() {
		bracket(event.Timestamp.Format(timestampLayout))
	}
	if len(event.Tags) > 0 {
		bracket(strings.Join(event.Tags, "/"))
	}
	if event.Severity != "" {
		bracket(event.Severity)
	}
	if event.Message != "" {
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(event.Message)
	}

	text = line.String()
	return
}
