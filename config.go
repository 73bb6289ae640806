package cg14

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A[28:26] selects the sbus slot (4 to 7):
//   regs: 0x10000 bytes @ 0x80000000 + slot*64M
//   vmem: up to 16M     @ 0xE0000000 + slot*64M
// both sitting behind the 0x8_0000_0000 io space.
const (
	ctrlRegionSize = 0x10000
	vramSlotSize   = 64 << 20
	maxVRAMSize    = 16 << 20

	defaultCtrlBase = 0x09c000000
	defaultVRAMBase = 0x0fc000000
	defaultVRAMSize = 4 << 20

	defaultHWVersion = 0x30 // 0x00 is the old board revision

	defaultWidth  = 640
	defaultHeight = 480
)

// Monitor sense codes, reported in bits 1..3 of the status register
const (
	MonitorID1024x768  byte = 0
	MonitorID1600x1280 byte = 1
	MonitorID1280x1024 byte = 2
	MonitorID1152x900  byte = 7
)

// ErrVRAMSize is returned for video memory sizes the device can't map.
var ErrVRAMSize = errors.New("cg14: bad vram size")

// MonitorInfo describes the display a monitor sense code stands for
type MonitorInfo struct {
	ID     byte
	Name   string
	Width  int
	Height int
}

var monitorTable = map[byte]MonitorInfo{
	MonitorID1024x768:  {MonitorID1024x768, "1024x768", 1024, 768},
	MonitorID1600x1280: {MonitorID1600x1280, "1600x1280", 1600, 1280},
	MonitorID1280x1024: {MonitorID1280x1024, "1280x1024", 1280, 1024},
	MonitorID1152x900:  {MonitorID1152x900, "1152x900", 1152, 900},
}

// LookupMonitor decodes a monitor sense code
func LookupMonitor(id byte) (MonitorInfo, bool) {
	info, ok := monitorTable[id]
	return info, ok
}

// ParseMonitor accepts either a sense code ("7") or a resolution ("1152x900")
func ParseMonitor(s string) (MonitorInfo, error) {
	for _, info := range monitorTable {
		if info.Name == s {
			return info, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return MonitorInfo{}, fmt.Errorf("unknown monitor %q", s)
	}
	info, ok := LookupMonitor(byte(n))
	if !ok {
		return MonitorInfo{}, fmt.Errorf("unknown monitor id %d", n)
	}
	return info, nil
}

// Config holds everything fixed at attach time
type Config struct {
	// VRAMSize is the video memory size in bytes, a power of two up to 16M
	VRAMSize uint32
	// CtrlBase and VRAMBase are the physical addresses the bus maps the
	// register and memory regions at. The device itself only masks them.
	CtrlBase uint64
	VRAMBase uint64

	MonitorID byte
	HWVersion byte

	LogLevel  LogLevel
	LogOutput io.Writer
}

// DefaultConfig returns a 4M board in slot 4 driving a 1024x768 monitor
func DefaultConfig() Config {
	return Config{
		VRAMSize:  defaultVRAMSize,
		CtrlBase:  defaultCtrlBase,
		VRAMBase:  defaultVRAMBase,
		MonitorID: MonitorID1024x768,
		HWVersion: defaultHWVersion,
		LogLevel:  LogError,
		LogOutput: os.Stderr,
	}
}

func checkVRAMSize(size uint32) error {
	if size < 4 || size > maxVRAMSize || !isPow2(size) {
		return fmt.Errorf("%w: %d (want a power of two between 4 and %d)", ErrVRAMSize, size, maxVRAMSize)
	}
	return nil
}

// ParseVRAMSize reads sizes like "8M", "512K" or "0x400000"
func ParseVRAMSize(s string) (uint32, error) {
	str := strings.ToUpper(strings.TrimSpace(s))
	shift := uint(0)
	switch {
	case strings.HasSuffix(str, "M"):
		shift, str = 20, strings.TrimSuffix(str, "M")
	case strings.HasSuffix(str, "K"):
		shift, str = 10, strings.TrimSuffix(str, "K")
	}
	n, err := strconv.ParseUint(str, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrVRAMSize, s)
	}
	if n<<shift > maxVRAMSize {
		return 0, fmt.Errorf("%w: %q is over the 16M window", ErrVRAMSize, s)
	}
	size := uint32(n << shift)
	if err := checkVRAMSize(size); err != nil {
		return 0, err
	}
	return size, nil
}
