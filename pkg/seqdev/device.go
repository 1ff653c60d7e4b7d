package seqdev

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// _IOR('S', 0x00, int) and _IOR('S', 0x01, int)
	ioctlProtocolVersion uint = 0x80045300
	ioctlClientID        uint = 0x80045301

	// Longest single poll(2) wait between context checks
	pollSlice = 50 * time.Millisecond
)

// Opens the sequencer device read/write and non-blocking
func Open(path string) (device *Device, err error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		err = fmt.Errorf("failed to open sequencer device '%s': %w", path, err)
		return
	}
	device = NewDeviceFromFD(fd, path)
	return
}

// Wraps an already open descriptor. The descriptor should be non-blocking.
func NewDeviceFromFD(fd int, name string) (device *Device) {
	device = &Device{
		fd:   fd,
		name: name,
	}
	return
}

func (device *Device) Name() (name string) {
	name = device.name
	return
}

func (device *Device) Read(p []byte) (n int, err error) {
	if device.closed.Load() {
		err = os.ErrClosed
		return
	}
	for {
		n, err = unix.Read(device.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n < 0 {
			n = 0
		}
		return
	}
}

func (device *Device) Write(p []byte) (n int, err error) {
	if device.closed.Load() {
		err = os.ErrClosed
		return
	}
	for {
		n, err = unix.Write(device.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n < 0 {
			n = 0
		}
		return
	}
}

// Waits up to timeout for any of events (unix.POLLIN, unix.POLLOUT).
// A negative timeout waits until the context ends.
// Returns zero revents on timeout.
func (device *Device) Poll(ctx context.Context, events int16, timeout time.Duration) (revents int16, err error) {
	if device.closed.Load() {
		err = os.ErrClosed
		return
	}

	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(device.fd), Events: events}}

	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		wait := pollSlice
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return
			}
			wait = min(wait, remaining)
		}

		// Round up so sub-millisecond waits still sleep
		waitMs := int((wait + time.Millisecond - 1) / time.Millisecond)

		var ready int
		ready, err = unix.Poll(fds, waitMs)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			err = fmt.Errorf("failed to poll '%s': %w", device.name, err)
			return
		}
		if ready > 0 {
			revents = fds[0].Revents
			return
		}
	}
}

func (device *Device) Close() (err error) {
	if device.closed.Swap(true) {
		return
	}
	err = unix.Close(device.fd)
	return
}

// Sequencer client number assigned by the kernel to this open file
func (device *Device) ClientID() (client uint8, err error) {
	id, err := unix.IoctlGetUint32(device.fd, ioctlClientID)
	if err != nil {
		err = fmt.Errorf("failed to query client id: %w", err)
		return
	}
	client = uint8(id)
	return
}

// Kernel sequencer protocol version
func (device *Device) ProtocolVersion() (major, minor, micro int, err error) {
	version, err := unix.IoctlGetUint32(device.fd, ioctlProtocolVersion)
	if err != nil {
		err = fmt.Errorf("failed to query protocol version: %w", err)
		return
	}
	major = int(version>>16) & 0xff
	minor = int(version>>8) & 0xff
	micro = int(version) & 0xff
	return
}
