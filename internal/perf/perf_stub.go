//go:build !linux

package perf

import "errors"

var errUnsupported = errors.New("hardware performance counters require linux perf_event support")

// Group is a stub on non-Linux platforms; Open always fails.
type Group struct{}

func Open() (*Group, error) {
	return nil, errUnsupported
}

func (g *Group) Reset() error   { return errUnsupported }
func (g *Group) Disable() error { return errUnsupported }
func (g *Group) Close() error   { return nil }

func (g *Group) RefCycles() (Reading, error) {
	return Reading{}, errUnsupported
}

func (g *Group) Instructions() (Reading, error) {
	return Reading{}, errUnsupported
}
