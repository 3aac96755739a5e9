//go:build !debug

package channel

// New creates the job feed for a batch run with the given buffer size.
// Production builds buffer so the manifest can be enqueued ahead of scoring.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
