package topo

import "errors"

var (
	errUnclosedLoop     = errors.New("topo: loop did not close")
	errLoopWalkOverflow = errors.New("topo: loop walk exceeded safety bound")
)
