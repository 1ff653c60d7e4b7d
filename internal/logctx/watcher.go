package logctx

import (
	"fmt"
	"io"
	"strings"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
)

// Hold main thread exit until logger is finished its work
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Wake signals/broadcasts to any goroutines waiting on the condition variable
func (logger *Logger) Wake() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.cond.Broadcast()
}

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed and the buffer is empty.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		for {
			if !logger.waitForEvents() {
				return
			}

			events, dropped := logger.drain()
			if dropped > 0 {
				fmt.Fprintf(output, "[%s] [%s] Dropped %d log messages (backlog limit %d)\n",
					global.NSWatcher, global.WarnLog, dropped, logger.MaxBacklog)
			}
			for _, event := range events {
				// printf to allow caller to determine newlines
				fmt.Fprintf(output, "%s", event.Format())
			}
		}
	}()
}

// Blocks until events are buffered (true) or done is closed with nothing left (false)
func (logger *Logger) waitForEvents() (available bool) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for len(logger.queue) == 0 {
		select {
		case <-logger.Done:
			return
		default:
			logger.cond.Wait()
		}
	}
	available = true
	return
}

// Formatted copy of all buffered events (without draining)
func (logger *Logger) GetFormattedLogLines() (formatted []string) {
	logger.mutex.Lock()
	events := make([]Event, len(logger.queue))
	copy(events, logger.queue)
	logger.mutex.Unlock()

	formatted = make([]string, 0, len(events))
	for _, event := range events {
		formatted = append(formatted, strings.TrimSuffix(event.Format(), "\n"))
	}
	return
}
