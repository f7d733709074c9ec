package sensor

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
)

const (
	connectTimeout = 10 * time.Second
	commandBacklog = 16
)

type cmdKind int

const (
	cmdScan cmdKind = iota
	cmdConnect
	cmdDisconnect
)

type command struct {
	kind    cmdKind
	address string
	done    chan struct{} // closed once the command has been processed
}

// Client drives one sensor connection on a single cooperative loop.
// Scanning, connecting, sample delivery and disconnecting all happen on
// the Run goroutine; the public methods only enqueue commands onto it.
//
// There is no automatic reconnect: a lost stream leaves the client
// Disconnected until the user initiates a new scan/connect.
type Client struct {
	transport   Transport
	model       *model.Model
	onSample    SampleFunc
	scanTimeout time.Duration

	cmds    chan command
	stopped chan struct{}
}

func New(transport Transport, m *model.Model, onSample SampleFunc, scanTimeout time.Duration) *Client {
	return &Client{
		transport:   transport,
		model:       m,
		onSample:    onSample,
		scanTimeout: scanTimeout,
		cmds:        make(chan command, commandBacklog),
		stopped:     make(chan struct{}),
	}
}

// Run executes the client loop until ctx is cancelled. The loop must be
// asked to disconnect (Shutdown) before ctx is cancelled, otherwise an
// open stream is torn down without a status report.
func (c *Client) Run(ctx context.Context) {
	defer close(c.stopped)

	var (
		stream  Stream
		samples <-chan int
		offset  float64
		first   bool
	)

	closeStream := func() {
		if stream == nil {
			return
		}
		if err := stream.Close(); err != nil {
			logger.Debug().Err(err).Msg("closing sensor stream")
		}
		stream, samples = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			closeStream()
			return

		case cmd := <-c.cmds:
			switch cmd.kind {
			case cmdScan:
				if stream != nil {
					c.model.EmitStatus("Disconnect before scanning.")
					break
				}
				c.scan(ctx)

			case cmdConnect:
				if stream != nil {
					c.model.EmitStatus("Already connected.")
					break
				}
				if s := c.connect(ctx, cmd.address); s != nil {
					stream = s
					samples = s.Samples()
					offset = 0
					first = true
					if latest, ok := c.model.LatestIBI(); ok {
						// A later connection continues the buffer's
						// time axis; restarting at zero would fall
						// behind the samples already recorded and the
						// buffer refuses backwards time.
						offset = latest.X
						first = false
					}
				}

			case cmdDisconnect:
				// Idempotent: disconnecting while disconnected is a
				// no-op with no status emission.
				if stream != nil {
					closeStream()
					c.model.SetConnectionState(model.Disconnected)
					c.model.EmitStatus("Sensor disconnected.")
				}
			}
			if cmd.done != nil {
				close(cmd.done)
			}

		case ms, ok := <-samples:
			if !ok {
				err := stream.Err()
				closeStream()
				c.model.SetConnectionState(model.Disconnected)
				if err != nil {
					errFactory := errors.New()
					logger.ErrorWithCode(errFactory.Wrap(ErrStreamLost, err)).Msg("")
					c.model.EmitStatus(fmt.Sprintf("Sensor connection lost: %v.", err))
				} else {
					c.model.EmitStatus("Sensor stream ended.")
				}
				break
			}

			// The time axis advances by the interval itself, starting at
			// zero with the first beat of the first connection.
			if first {
				first = false
			} else {
				offset += float64(ms) / 1000.0
			}
			c.onSample(offset, float64(ms))
		}
	}
}

func (c *Client) scan(ctx context.Context) {
	c.model.SetConnectionState(model.Scanning)
	c.model.EmitStatus(fmt.Sprintf("Scanning for sensors (%.0fs)...", c.scanTimeout.Seconds()))

	scanCtx, cancel := context.WithTimeout(ctx, c.scanTimeout)
	defer cancel()

	devices, err := c.transport.Scan(scanCtx, c.scanTimeout)
	c.model.SetConnectionState(model.Disconnected)
	if err != nil {
		errFactory := errors.New()
		logger.ErrorWithCode(errFactory.Wrap(ErrScanFailed, err)).Msg("")
		c.model.EmitStatus(fmt.Sprintf("Scan failed: %v.", err))
		return
	}

	// The discovered set replaces the previous one wholesale.
	addrs := make([]string, 0, len(devices))
	for _, d := range devices {
		addrs = append(addrs, d.Address)
		logger.Debug().Str("name", d.Name).Str("address", d.Address).Msg("discovered sensor")
	}
	c.model.SetAddresses(addrs)
	c.model.EmitStatus(fmt.Sprintf("Found %d sensor(s).", len(addrs)))
}

func (c *Client) connect(ctx context.Context, address string) Stream {
	c.model.SetConnectionState(model.Connecting)
	c.model.EmitStatus(fmt.Sprintf("Connecting to %s...", address))

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	stream, err := c.transport.Connect(connectCtx, address)
	if err != nil {
		errFactory := errors.New()
		logger.ErrorWithCode(errFactory.Wrap(ErrConnectFailed, err)).Msg("")
		c.model.SetConnectionState(model.Disconnected)
		c.model.EmitStatus(fmt.Sprintf("Connection failed: %v.", err))
		return nil
	}

	c.model.SetConnectionState(model.Connected)
	c.model.EmitStatus(fmt.Sprintf("Connected to %s.", address))

	return stream
}

// Scan requests an asynchronous discovery pass. Never blocks.
func (c *Client) Scan() error {
	return c.enqueue(command{kind: cmdScan})
}

// Connect validates the address format and requests a connection
// attempt. A malformed address is rejected before any I/O.
func (c *Client) Connect(address string) error {
	errFactory := errors.New()

	if !ValidAddress(address) {
		c.model.EmitStatus(fmt.Sprintf("Invalid sensor address: %s.", address))
		return errFactory.WithData(ErrInvalidAddress, address)
	}

	return c.enqueue(command{kind: cmdConnect, address: address})
}

// Disconnect requests teardown of the active connection, if any.
func (c *Client) Disconnect() error {
	return c.enqueue(command{kind: cmdDisconnect})
}

// Shutdown injects a disconnect through the loop's own command queue and
// waits until the loop has processed it. This must complete before the
// Run context is cancelled and joined; cancelling first can leave the
// disconnect unprocessed while the loop is blocked on stream I/O.
func (c *Client) Shutdown(ctx context.Context) error {
	errFactory := errors.New()

	done := make(chan struct{})
	if err := c.enqueue(command{kind: cmdDisconnect, done: done}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-c.stopped:
		// Loop already gone; nothing left to disconnect.
		return nil
	case <-ctx.Done():
		return errFactory.Wrap(ErrShutdownFailed, ctx.Err())
	}
}

func (c *Client) enqueue(cmd command) error {
	errFactory := errors.New()

	select {
	case <-c.stopped:
		return errFactory.New(ErrNotRunning)
	default:
	}

	select {
	case c.cmds <- cmd:
		return nil
	default:
		return errFactory.WithMessage(ErrNotRunning, "sensor command queue full")
	}
}
