// Package channel wraps Go channels behind small interfaces so the batch
// scorer can feed jobs to its workers without tying them to a buffer size.
package channel

// Receiver provides read access to a channel. Workers range over Receive
// to drain the job feed.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel.
type Sender[T any] interface {
	Send(T)
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}
