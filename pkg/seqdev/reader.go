package seqdev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"slices"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/beats"
	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"
	"github.com/alsa-project/alsa-gobject-sub000/internal/queue/mpmc"
	"github.com/alsa-project/alsa-gobject-sub000/pkg/seqevent"

	"golang.org/x/sys/unix"
)

// Reader buffer holds cfg.ReadCells header sized cells; events queue between
// cfg.MinQueueSize and cfg.MaxQueueSize entries. With cfg.BeatsEndpoint set,
// every decoded batch is also forwarded there.
func NewReader(namespace []string, transport Transport, cfg Config) (new *Reader, err error) {
	cfg.setDefaults()
	queueNamespace := append(slices.Clone(namespace), global.NSReader, global.NSQueue)

	queue, err := mpmc.New[*seqevent.Event](queueNamespace,
		cfg.MinQueueSize, cfg.MinQueueSize, cfg.MaxQueueSize)
	if err != nil {
		err = fmt.Errorf("failed to create event queue: %w", err)
		return
	}

	new = &Reader{
		transport:     transport,
		pollInterval:  cfg.PollInterval,
		scaleInterval: cfg.ScaleInterval,
		buffer:        make([]byte, cfg.ReadCells*seqevent.HeaderSize),
		outbox:        queue,
	}

	forwarder, err := beats.NewForwarder(cfg.BeatsEndpoint, global.DefaultBeatsTimeout)
	if err != nil {
		new = nil
		return
	}
	if forwarder != nil {
		new.sink = forwarder
	}
	return
}

// Releases the beats connection (the transport belongs to the caller)
func (reader *Reader) Close() (err error) {
	if reader.sink != nil {
		err = reader.sink.Shutdown()
	}
	return
}

// Reads until the context is cancelled or the transport fails/closes.
// Cancellation returns nil.
func (reader *Reader) Run(ctx context.Context) (err error) {
	ctx = logctx.AppendCtxTag(ctx, global.NSReader)
	lastScale := time.Now()

	for {
		if ctx.Err() != nil {
			return nil
		}

		if time.Since(lastScale) >= reader.scaleInterval {
			reader.outbox.ScaleCapacity(ctx)
			lastScale = time.Now()
		}

		var stop bool
		stop, err = reader.readOnce(ctx)
		if stop {
			if ctx.Err() != nil {
				err = nil
			}
			return
		}
	}
}

// One poll/read/parse cycle
func (reader *Reader) readOnce(ctx context.Context) (stop bool, err error) {
	defer func() {
		// Record panics and continue reading
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in reader: %v\n%s", fatalError, stack)
		}
	}()

	revents, err := reader.transport.Poll(ctx, unix.POLLIN, reader.pollInterval)
	if err != nil {
		stop = true
		if ctx.Err() == nil {
			err = fmt.Errorf("failed polling device: %w", err)
		}
		return
	}
	if revents == 0 {
		return
	}
	if revents&unix.POLLIN == 0 {
		// Error or hangup with nothing left to read
		stop = true
		err = fmt.Errorf("device reported revents %#x: %w", revents, io.EOF)
		return
	}

	n, err := reader.transport.Read(reader.buffer)
	if errors.Is(err, unix.EAGAIN) {
		err = nil
		return
	}
	if err != nil {
		stop = true
		err = fmt.Errorf("failed reading device: %w", err)
		return
	}
	if n == 0 {
		stop = true
		err = fmt.Errorf("device closed: %w", io.EOF)
		return
	}

	batch := seqevent.ParseBatch(reader.buffer[:n], true)
	events, discarded := batch.Events()
	if discarded > 0 {
		reader.discarded.Add(uint64(discarded))
		logctx.LogEvent(ctx, global.VerbosityDebug, global.WarnLog,
			"discarded %d trailing bytes of %d byte read\n", discarded, n)
	}

	// Forward before consumers can take ownership of the events
	if reader.sink != nil && len(events) > 0 {
		_, sinkErr := reader.sink.Write(ctx, events...)
		if sinkErr != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"failed forwarding %d events: %v\n", len(events), sinkErr)
		}
	}

	for _, event := range events {
		err = reader.outbox.PushBlocking(ctx, event, event.Length(true))
		if err != nil {
			stop = true
			return
		}
		reader.parsed.Add(1)
	}

	logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog,
		"read %d bytes, queued %d events\n", n, len(events))
	return
}

// Blocks for the next decoded event
func (reader *Reader) Next(ctx context.Context) (event *seqevent.Event, err error) {
	event, ok := reader.outbox.Pop(ctx)
	if !ok {
		err = ctx.Err()
	}
	return
}

// Decoded events queued so far
func (reader *Reader) Parsed() (count uint64) {
	count = reader.parsed.Load()
	return
}

// Bytes dropped as trailing partial records
func (reader *Reader) Discarded() (count uint64) {
	count = reader.discarded.Load()
	return
}

// Events waiting for Next
func (reader *Reader) Pending() (count uint64) {
	count = reader.outbox.Stats().Depth.Load()
	return
}
