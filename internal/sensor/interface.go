package sensor

import (
	"context"
	"time"
)

// Device is one discoverable sensor.
type Device struct {
	Name    string
	Address string
}

// Stream is an open sensor connection delivering inter-beat intervals in
// milliseconds. Samples is closed when the stream ends; Err reports the
// terminal error afterwards, nil for an orderly close.
type Stream interface {
	Samples() <-chan int
	Err() error
	Close() error
}

// Transport is the physical sensor capability. Discovery, pairing and
// the radio protocol live behind it; the client only sees identifiers
// and sample streams.
type Transport interface {
	Scan(ctx context.Context, timeout time.Duration) ([]Device, error)
	Connect(ctx context.Context, address string) (Stream, error)
}

// SampleFunc receives each streamed inter-beat interval: offset is
// seconds since the first sample of the connection, ms the interval in
// milliseconds.
type SampleFunc func(offset, ms float64)
