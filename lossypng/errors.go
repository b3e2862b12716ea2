package lossypng

import "errors"

// ErrOutOfMemory signals that a buffer required by the core could not be
// allocated. The caller must treat the image buffer as unspecified.
var ErrOutOfMemory = errors.New("lossypng: out of memory")

// ErrInternalInvariant signals that an invariant of the row driver's state
// machine was violated. It indicates a defect in the implementation, not a
// problem with the input image.
var ErrInternalInvariant = errors.New("lossypng: internal invariant violated")
