package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nerrad567/irrigation-console/internal/infrastructure/mqtt"
)

// Phase is a step of the console lifecycle.
type Phase int

// Lifecycle phases, in order.
const (
	PhaseUnstarted Phase = iota
	PhaseConnecting
	PhaseRunning
	PhaseStopping
	PhaseTerminated
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnstarted:
		return "unstarted"
	case PhaseConnecting:
		return "connecting"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Connection is the broker session Serve manages. *mqtt.Client satisfies it.
type Connection interface {
	Broker
	SetConnectHandler(h mqtt.ConnectHandler)
	SetMessageHandler(h mqtt.MessageHandler)
	Connect() error
	Close() error
}

// Console runs one Session over one Connection.
type Console struct {
	conn    Connection
	session *Session

	phase   Phase
	phaseMu sync.RWMutex
}

// NewConsole creates a Console. opts.Broker is replaced by conn.
func NewConsole(conn Connection, opts Options) *Console {
	opts.Broker = conn
	return &Console{
		conn:    conn,
		session: New(opts),
	}
}

// Session returns the console's session.
func (c *Console) Session() *Session {
	return c.session
}

// Phase returns the current lifecycle phase.
func (c *Console) Phase() Phase {
	c.phaseMu.RLock()
	defer c.phaseMu.RUnlock()
	return c.phase
}

func (c *Console) setPhase(p Phase) {
	c.phaseMu.Lock()
	c.phase = p
	c.phaseMu.Unlock()
	c.session.logger.Debug("console phase", "phase", p.String())
}

// Serve runs the lifecycle to completion:
//
//	UNSTARTED -> CONNECTING -> RUNNING -> STOPPING -> TERMINATED
//	                       \-> TERMINATED (broker unreachable)
//
// The handshake result does not gate RUNNING: the input loop starts as soon
// as Connect returns, so commands can be typed before the broker has
// accepted the session, or after it refused it.
//
// A connect failure is printed and returned with ExitConnectFailed. On every
// path the connection is closed exactly once before Serve returns.
func (c *Console) Serve(ctx context.Context, in io.Reader) (Exit, error) {
	s := c.session

	c.setPhase(PhaseConnecting)
	c.conn.SetConnectHandler(s)
	c.conn.SetMessageHandler(s)

	s.out.printf("Connecting to %s...\n", s.cfg.MQTT.Broker.Host)
	if err := c.conn.Connect(); err != nil {
		s.out.printf("Connection failed: %v\n", err)
		_ = c.conn.Close()
		c.setPhase(PhaseTerminated)
		return ExitConnectFailed, err
	}

	c.setPhase(PhaseRunning)
	exit := s.Run(ctx, in)

	c.setPhase(PhaseStopping)
	if err := c.conn.Close(); err != nil {
		s.logger.Error("closing broker connection", "error", err)
	}

	c.setPhase(PhaseTerminated)
	return exit, nil
}

// Serve is a convenience wrapper: NewConsole(conn, opts).Serve(ctx, in).
func Serve(ctx context.Context, conn Connection, opts Options, in io.Reader) (Exit, error) {
	return NewConsole(conn, opts).Serve(ctx, in)
}
