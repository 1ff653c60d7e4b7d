package seqdev

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"

	"github.com/tidwall/jsonc"
)

// Loads JSON config from file. Comments and trailing commas are allowed.
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	err = json.Unmarshal(jsonc.ToJSON(configFile), &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}

	return
}

// Parses JSON config into runtime config, filling defaults for anything unset
func (cfg JSONConfig) NewConfig() (config Config, err error) {
	// Device settings
	config.DevicePath = cfg.Device.Path
	config.ReadCells = cfg.Device.ReadCells
	config.PollInterval, err = parseOptionalDuration(cfg.Device.PollInterval)
	if err != nil {
		err = fmt.Errorf("failed to parse device poll interval: %w", err)
		return
	}
	config.WriteTimeout, err = parseOptionalDuration(cfg.Device.WriteTimeout)
	if err != nil {
		err = fmt.Errorf("failed to parse device write timeout: %w", err)
		return
	}

	// Queue settings
	config.MinQueueSize = cfg.Queue.MinSize
	config.MaxQueueSize = cfg.Queue.MaxSize
	config.ScaleInterval, err = parseOptionalDuration(cfg.Queue.ScaleInterval)
	if err != nil {
		err = fmt.Errorf("failed to parse queue scale interval: %w", err)
		return
	}

	config.BeatsEndpoint = cfg.Outputs.BeatsAddress
	config.LogLevel = global.VerbosityStandard
	if cfg.LogLevel != nil {
		config.LogLevel = *cfg.LogLevel
	}

	config.setDefaults()

	if config.MinQueueSize > config.MaxQueueSize {
		err = fmt.Errorf("queue minimum size %d exceeds maximum size %d", config.MinQueueSize, config.MaxQueueSize)
		return
	}
	if config.LogLevel < global.VerbosityNone || config.LogLevel > global.VerbosityDebug {
		err = fmt.Errorf("log level %d outside range %d-%d", config.LogLevel, global.VerbosityNone, global.VerbosityDebug)
		return
	}
	return
}

func parseOptionalDuration(text string) (duration time.Duration, err error) {
	if text == "" {
		return
	}
	duration, err = time.ParseDuration(text)
	if err != nil {
		return
	}
	if duration < 0 {
		err = fmt.Errorf("negative duration %q", text)
	}
	return
}

// Sets defaults for any missing/invalid values
func (cfg *Config) setDefaults() {
	// Device
	if cfg.DevicePath == "" {
		cfg.DevicePath = global.DefaultDevicePath
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = global.DefaultPollInterval
	}
	if cfg.ReadCells <= 0 {
		cfg.ReadCells = global.DefaultReadCells
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = global.DefaultWriteTimeout
	}

	// Queue
	if cfg.MinQueueSize <= 0 {
		cfg.MinQueueSize = global.DefaultMinQueueSize
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = global.DefaultMaxQueueSize
	}
	if cfg.ScaleInterval == 0 {
		cfg.ScaleInterval = global.DefaultScaleInterval
	}
}
