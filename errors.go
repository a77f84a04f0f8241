package arbor

import "errors"

var (
	// ErrTransformNotCached is returned by point queries on a node whose
	// transforms have not been computed by a Draw yet.
	ErrTransformNotCached = errors.New("arbor: transform not cached; draw the node first")

	// ErrImageUnavailable wraps the load error of an image source that failed.
	ErrImageUnavailable = errors.New("arbor: image unavailable")

	// ErrImagePending is returned by ImageSource.Image while decoding is
	// still in flight.
	ErrImagePending = errors.New("arbor: image pending")
)
