package seqdev

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"
	"github.com/alsa-project/alsa-gobject-sub000/pkg/seqevent"

	"golang.org/x/sys/unix"
)

// Writer waits up to cfg.WriteTimeout for the device to accept more bytes
func NewWriter(transport Transport, cfg Config) (new *Writer) {
	cfg.setDefaults()
	new = &Writer{
		transport: transport,
		timeout:   cfg.WriteTimeout,
	}
	return
}

// Checks every event can be delivered, then writes them as one batch.
// Nothing is written if any event is rejected.
// Records are packed without cell padding: the kernel write path reads a
// header and then exactly the blob length it announces.
func (writer *Writer) Write(ctx context.Context, events ...*seqevent.Event) (written int, err error) {
	if len(events) == 0 {
		return
	}
	ctx = logctx.AppendCtxTag(ctx, global.NSWriter)

	for index, event := range events {
		err = event.CheckDelivery()
		if err != nil {
			err = fmt.Errorf("failed delivery check for event %d (%s): %w", index, event.Type, err)
			return
		}
	}

	batch := seqevent.NewBatch(events, false)
	buf := batch.Bytes()

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	for written < len(buf) {
		var n int
		n, err = writer.transport.Write(buf[written:])
		written += n

		if errors.Is(err, unix.EAGAIN) {
			err = writer.waitWritable(ctx)
			if err != nil {
				return
			}
			continue
		}
		if err != nil {
			err = fmt.Errorf("failed to write %d byte batch: %w", len(buf), err)
			return
		}
		if n == 0 {
			err = fmt.Errorf("failed to write %d byte batch: %w", len(buf), io.ErrShortWrite)
			return
		}
	}

	logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
		"wrote %d events (%d bytes)\n", len(events), written)
	return
}

func (writer *Writer) waitWritable(ctx context.Context) (err error) {
	revents, err := writer.transport.Poll(ctx, unix.POLLOUT, writer.timeout)
	if err != nil {
		err = fmt.Errorf("failed waiting for device to accept writes: %w", err)
		return
	}
	if revents&unix.POLLOUT == 0 {
		if revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			err = fmt.Errorf("device not writable (revents %#x)", revents)
			return
		}
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"device output full for %s\n", writer.timeout)
		err = fmt.Errorf("device not writable after %s", writer.timeout)
	}
	return
}
