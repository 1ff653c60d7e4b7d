// Ships decoded sequencer events to a Logstash/Beats endpoint (lumberjack v2)
package beats

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"
	"github.com/alsa-project/alsa-gobject-sub000/pkg/seqevent"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

type Forwarder struct {
	sink     *lumberjack.SyncClient
	hostname string
}

// Connects to the beats server. Returns nil nil if no endpoint.
func NewForwarder(endpoint string, timeout time.Duration) (forwarder *Forwarder, err error) {
	if endpoint == "" {
		return
	}
	if timeout <= 0 {
		timeout = global.DefaultBeatsTimeout
	}

	compression := lumberjack.CompressionLevel(0)
	ljTimeout := lumberjack.Timeout(timeout)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, ljTimeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	hostname, _ := os.Hostname()
	forwarder = &Forwarder{
		sink:     ljClient,
		hostname: hostname,
	}
	return
}

// Sends events as one lumberjack window, returns number acknowledged
func (forwarder *Forwarder) Write(ctx context.Context, events ...*seqevent.Event) (sent int, err error) {
	if forwarder == nil || len(events) == 0 {
		return
	}

	now := time.Now().UTC()
	batch := make([]interface{}, 0, len(events))
	for _, event := range events {
		batch = append(batch, forwarder.fields(now, event))
	}

	sent, err = forwarder.sink.Send(batch)
	if err != nil {
		err = fmt.Errorf("failed sending %d events to beats server: %w", len(events), err)
		return
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSBeats)
	logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
		"forwarded %d of %d events\n", sent, len(events))
	return
}

// Gracefully stops module
func (forwarder *Forwarder) Shutdown() (err error) {
	if forwarder == nil {
		return
	}
	if forwarder.sink != nil {
		err = forwarder.sink.Close()
	}
	return
}

func (forwarder *Forwarder) fields(now time.Time, event *seqevent.Event) (fields map[string]interface{}) {
	record := map[string]interface{}{
		"type":        event.Type.String(),
		"type_code":   uint8(event.Type),
		"tag":         event.Tag,
		"queue":       event.Queue,
		"source":      event.Source.String(),
		"destination": event.Destination.String(),
		"length_mode": event.LengthMode().String(),
		"priority":    event.Priority == seqevent.PriorityHigh,
		"relative":    event.TimeMode == seqevent.TimeModeRelative,
		"payload":     payloadFields(event.Payload()),
	}
	if event.Time != nil {
		record["time"] = fmt.Sprint(event.Time)
	}

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": now,
		"message":    event.String(),

		"host": map[string]interface{}{
			"name": forwarder.hostname,
		},
		"agent": map[string]interface{}{
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"pid":     os.Getpid(),
		},
		"alsa": map[string]interface{}{
			"seq": record,
		},
	}
	return
}

func payloadFields(payload seqevent.Payload) (fields map[string]interface{}) {
	switch p := payload.(type) {
	case seqevent.Note:
		fields = map[string]interface{}{
			"channel":      p.Channel,
			"note":         p.Note,
			"velocity":     p.Velocity,
			"off_velocity": p.OffVelocity,
			"duration":     p.Duration,
		}
	case seqevent.Control:
		fields = map[string]interface{}{
			"channel": p.Channel,
			"param":   p.Param,
			"value":   p.Value,
		}
	case seqevent.Blob:
		fields = map[string]interface{}{
			"length": len(p),
			"hex":    hex.EncodeToString(p),
		}
	case seqevent.Pointer:
		fields = map[string]interface{}{
			"address": p.Addr,
			"length":  p.Len,
		}
	case seqevent.Addr:
		fields = map[string]interface{}{
			"addr": p.String(),
		}
	case seqevent.Connect:
		fields = map[string]interface{}{
			"sender": p.Sender.String(),
			"dest":   p.Dest.String(),
		}
	case seqevent.Result:
		fields = map[string]interface{}{
			"event":  p.Event,
			"result": p.Result,
		}
	default:
		fields = map[string]interface{}{
			"value": fmt.Sprintf("%+v", p),
		}
	}
	return
}
