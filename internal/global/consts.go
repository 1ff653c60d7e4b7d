package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgBaseName string = "seqcodec"
	ProgVersion  string = "v0.1.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // Chain of tags from broad to specific, one node per AppendCtxTag

	// Device defaults
	DefaultDevicePath   string        = "/dev/snd/seq"
	DefaultPollInterval time.Duration = 100 * time.Millisecond
	DefaultReadCells    int           = 256 // Records per read (the kernel delivers whole header sized cells)
	DefaultWriteTimeout time.Duration = 1 * time.Second

	// Event queue defaults
	DefaultMinQueueSize  int           = 64
	DefaultMaxQueueSize  int           = 4096
	DefaultScaleInterval time.Duration = 5 * time.Second

	// Logger buffer limit before oldest events are dropped
	DefaultMaxLogBacklog int = 10_000

	// Beats forwarding
	DefaultBeatsTimeout time.Duration = 3 * time.Second

	// Namespacing Name Components
	NSTest    string = "Test"
	NSDevice  string = "Device"
	NSReader  string = "Reader"
	NSWriter  string = "Writer"
	NSQueue   string = "Queue"
	NSBeats   string = "Beats"
	NSWatcher string = "Watcher"
)
