// Moves encoded sequencer events between the ALSA sequencer character device and decoded Event values
package seqdev

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/queue/mpmc"
	"github.com/alsa-project/alsa-gobject-sub000/pkg/seqevent"
)

// Byte stream endpoint carrying whole event records.
// Read and Write never block; Poll waits for readiness.
type Transport interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Poll(ctx context.Context, events int16, timeout time.Duration) (revents int16, err error)
	Close() (err error)
}

// Open sequencer device (or any descriptor speaking its record format)
type Device struct {
	fd     int
	name   string
	closed atomic.Bool
}

// Serializes batches onto a transport
type Writer struct {
	transport Transport
	timeout   time.Duration
	mutex     sync.Mutex
}

// Receives a copy of every decoded batch (beats forwarding)
type eventSink interface {
	Write(ctx context.Context, events ...*seqevent.Event) (sent int, err error)
	Shutdown() (err error)
}

// Polls a transport and queues decoded events for consumers
type Reader struct {
	transport     Transport
	pollInterval  time.Duration
	scaleInterval time.Duration
	buffer        []byte
	outbox        *mpmc.Queue[*seqevent.Event]
	sink          eventSink // nil without a beats endpoint

	parsed    atomic.Uint64
	discarded atomic.Uint64 // bytes of trailing partial records
}

type JSONConfig struct {
	Device struct {
		Path         string `json:"path"`
		PollInterval string `json:"pollInterval,omitempty"`
		ReadCells    int    `json:"readCells,omitempty"`
		WriteTimeout string `json:"writeTimeout,omitempty"`
	} `json:"device"`
	Queue struct {
		MinSize       int    `json:"minSize,omitempty"`
		MaxSize       int    `json:"maxSize,omitempty"`
		ScaleInterval string `json:"scaleInterval,omitempty"`
	} `json:"queue"`
	Outputs struct {
		BeatsAddress string `json:"beatsAddress,omitempty"`
	} `json:"outputs"`
	LogLevel *int `json:"logLevel,omitempty"` // unset means standard verbosity
}

type Config struct {
	// Device settings
	DevicePath   string
	PollInterval time.Duration
	ReadCells    int
	WriteTimeout time.Duration

	// Queue boundaries
	MinQueueSize  int
	MaxQueueSize  int
	ScaleInterval time.Duration

	// Outputs
	BeatsEndpoint string

	LogLevel int
}
