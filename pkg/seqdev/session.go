package seqdev

import (
	"context"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"
)

// Opens the device named by cfg.DevicePath
func OpenConfig(cfg Config) (device *Device, err error) {
	cfg.setDefaults()
	device, err = Open(cfg.DevicePath)
	return
}

// Attaches a logger at cfg.LogLevel; events print once a watcher is started on it
func (cfg Config) NewLogContext(ctx context.Context, done <-chan struct{}) (logCtx context.Context) {
	logCtx = logctx.New(ctx, global.ProgBaseName, cfg.LogLevel, done)
	return
}
