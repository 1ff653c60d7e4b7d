package logctx

import (
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
)

// Logs event
func (logger *Logger) log(eventLevel int, eventSeverity string, tags []string, fullMessage string) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	if eventLevel > logger.PrintLevel && eventSeverity != global.ErrorLog {
		return
	}

	event := Event{
		Timestamp: time.Now(),
		Tags:      tags,
		Severity:  eventSeverity,
		Message:   fullMessage,
	}
	logger.queue = append(logger.queue, event)

	// Drop oldest events when nobody is draining the buffer
	if logger.MaxBacklog > 0 && len(logger.queue) > logger.MaxBacklog {
		excess := len(logger.queue) - logger.MaxBacklog
		logger.queue = logger.queue[excess:]
		logger.dropped += excess
	}

	logger.cond.Signal() // Notify watcher that new event is available
}

// Removes and returns buffered events
func (logger *Logger) drain() (events []Event, dropped int) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	events = logger.queue
	logger.queue = make([]Event, 0)
	dropped = logger.dropped
	logger.dropped = 0
	return
}
