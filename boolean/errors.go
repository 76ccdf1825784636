package boolean

import "errors"

var (
	errEmptyFace      = errors.New("boolean: face has no outer loop")
	errUnclosedPiece  = errors.New("boolean: DCEL face extraction produced an unclosed cycle")
	errDegenerateEdge = errors.New("boolean: zero-length segment after snapping")
)
