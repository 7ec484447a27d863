//go:build linux

package perf

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Counter is a single open perf_event file descriptor. It is created
// disabled with inherit and enable-on-exec set, so counting starts only
// when a child process spawned afterwards performs its exec, and the
// child's events are attributed to this counter.
type Counter struct {
	fd   int
	name string
}

func openCounter(name string, config uint64) (*Counter, error) {
	attr := unix.PerfEventAttr{
		Type:        unix.PERF_TYPE_HARDWARE,
		Size:        uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Config:      config,
		Read_format: unix.PERF_FORMAT_TOTAL_TIME_ENABLED | unix.PERF_FORMAT_TOTAL_TIME_RUNNING,
		Bits:        unix.PerfBitDisabled | unix.PerfBitInherit | unix.PerfBitEnableOnExec,
	}
	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("perf_event_open %s (check PMU availability and perf_event_paranoid): %w", name, err)
	}
	return &Counter{fd: fd, name: name}, nil
}

// Reset clears the accumulated count. The counter is not explicitly
// enabled here; enable-on-exec arms it when the next child execs, so the
// recorder's own work between reset and spawn is never counted.
func (c *Counter) Reset() error {
	if err := unix.IoctlSetInt(c.fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
		return fmt.Errorf("reset %s counter: %w", c.name, err)
	}
	return nil
}

// Disable stops counting. Counters enabled via inherit+enable-on-exec
// keep running after the child exits until explicitly disabled.
func (c *Counter) Disable() error {
	if err := unix.IoctlSetInt(c.fd, unix.PERF_EVENT_IOC_DISABLE, 0); err != nil {
		return fmt.Errorf("disable %s counter: %w", c.name, err)
	}
	return nil
}

// Read returns the raw (count, time_enabled, time_running) tuple.
func (c *Counter) Read() (Reading, error) {
	// u64 value + u64 time_enabled + u64 time_running, per read_format.
	var buf [24]byte
	n, err := unix.Read(c.fd, buf[:])
	if err != nil {
		return Reading{}, fmt.Errorf("read %s counter: %w", c.name, err)
	}
	if n != len(buf) {
		return Reading{}, fmt.Errorf("read %s counter: short read of %d bytes", c.name, n)
	}
	return Reading{
		Count:       binary.NativeEndian.Uint64(buf[0:8]),
		TimeEnabled: binary.NativeEndian.Uint64(buf[8:16]),
		TimeRunning: binary.NativeEndian.Uint64(buf[16:24]),
	}, nil
}

func (c *Counter) Close() error {
	return unix.Close(c.fd)
}

// Group holds the two counters a recording run measures. Both are opened
// up front and live for the whole run; Reset and Disable apply to both in
// lockstep, reads stay per-counter.
type Group struct {
	refCycles    *Counter
	instructions *Counter
}

// Open acquires the reference-cycles and instructions counters. Failure
// here (missing PMU, insufficient permission) aborts before any
// measurement is taken.
func Open() (*Group, error) {
	refCycles, err := openCounter("ref-cycles", unix.PERF_COUNT_HW_REF_CPU_CYCLES)
	if err != nil {
		return nil, err
	}
	instructions, err := openCounter("instructions", unix.PERF_COUNT_HW_INSTRUCTIONS)
	if err != nil {
		refCycles.Close()
		return nil, err
	}
	return &Group{refCycles: refCycles, instructions: instructions}, nil
}

func (g *Group) counters() []*Counter {
	return []*Counter{g.refCycles, g.instructions}
}

// Reset zeroes both counters ahead of the next child process.
func (g *Group) Reset() error {
	for _, c := range g.counters() {
		if err := c.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// Disable stops both counters after the child exits.
func (g *Group) Disable() error {
	for _, c := range g.counters() {
		if err := c.Disable(); err != nil {
			return err
		}
	}
	return nil
}

// RefCycles reads the raw reference-cycles sample.
func (g *Group) RefCycles() (Reading, error) {
	return g.refCycles.Read()
}

// Instructions reads the raw retired-instructions sample.
func (g *Group) Instructions() (Reading, error) {
	return g.instructions.Read()
}

func (g *Group) Close() error {
	var firstErr error
	for _, c := range g.counters() {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
