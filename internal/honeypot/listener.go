// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package honeypot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/RayaneAll/honeypot-attack-map/internal/config"
	"github.com/RayaneAll/honeypot-attack-map/internal/logging"
	"github.com/RayaneAll/honeypot-attack-map/internal/metrics"
	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// Listener states reported by Status.
const (
	StateListening  = "listening"
	StateRestarting = "restarting"
	StateFailed     = "failed"
	StateStopped    = "stopped"
)

const (
	// maxAcceptErrors consecutive accept errors make the loop give up and
	// rebind.
	maxAcceptErrors  = 10
	maxAcceptDelay   = time.Second
	firstAcceptDelay = 5 * time.Millisecond
)

// Handler consumes captures. It is called once per accepted connection,
// after the connection is closed.
type Handler interface {
	Ingest(ctx context.Context, capture models.Capture) (*models.AttackEvent, error)
}

// PortListener runs the accept loop of one port.
type PortListener struct {
	port    int
	cfg     config.HoneypotConfig
	handler Handler
	banner  string

	mu        sync.Mutex
	ln        net.Listener
	boundPort int
	conns     map[net.Conn]struct{}
	state     string
	since     time.Time
	lastErr   string
	failures  int
	restarts  int

	captures atomic.Uint64
	wg       sync.WaitGroup

	listenFn    func(ctx context.Context, network, addr string) (net.Listener, error)
	acceptDelay time.Duration
}

// NewPortListener creates an unbound listener for port.
func NewPortListener(port int, cfg config.HoneypotConfig, handler Handler) *PortListener {
	return &PortListener{
		port:    port,
		cfg:     cfg,
		handler: handler,
		banner:  BannerFor(port, cfg.Banners),
		conns:   make(map[net.Conn]struct{}),
		state:   StateStopped,
		since:   time.Now().UTC(),

		listenFn:    (&net.ListenConfig{}).Listen,
		acceptDelay: firstAcceptDelay,
	}
}

// String implements fmt.Stringer for suture logs.
func (l *PortListener) String() string {
	return "honeypot-port-" + strconv.Itoa(l.port)
}

// Port returns the configured port.
func (l *PortListener) Port() int {
	return l.port
}

// Addr returns the bound address, or nil when not listening.
func (l *PortListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Bind opens the listening socket. Serve uses a socket bound here before
// binding its own.
func (l *PortListener) Bind(ctx context.Context) error {
	ln, err := l.listen(ctx)
	if err != nil {
		l.setState(StateFailed, err)
		return err
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	l.setState(StateListening, nil)
	return nil
}

func (l *PortListener) listen(ctx context.Context) (net.Listener, error) {
	addr := net.JoinHostPort(l.cfg.Host, strconv.Itoa(l.port))
	ln, err := l.listenFn(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		l.mu.Lock()
		l.boundPort = tcpAddr.Port
		l.mu.Unlock()
	}
	return ln, nil
}

// takeListener returns the pre-bound socket or binds a new one.
func (l *PortListener) takeListener(ctx context.Context) (net.Listener, error) {
	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	if ln != nil {
		return ln, nil
	}

	ln, err := l.listen(ctx)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	return ln, nil
}

// Serve implements suture.Service. It accepts until ctx is done, then
// closes the socket and joins in-flight connections.
//
// Failed binds and crashed accept loops share one failure counter, reset
// only once a connection has been accepted.
func (l *PortListener) Serve(ctx context.Context) error {
	ln, err := l.takeListener(ctx)
	if err != nil {
		metrics.RecordCaptureError(l.port, "bind")
		return l.retryOrGiveUp(ctx, err)
	}

	l.setState(StateListening, nil)
	logging.Info().
		Str("component", "honeypot").
		Int("port", l.port).
		Str("addr", ln.Addr().String()).
		Msg("honeypot listening")

	// Connection work outlives ctx until the shutdown join gives up.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()

	acceptErr := l.acceptLoop(ctx, workCtx, ln)
	close(stop)
	_ = ln.Close()
	l.mu.Lock()
	l.ln = nil
	l.mu.Unlock()

	l.drain(cancelWork)

	if ctx.Err() != nil {
		l.setState(StateStopped, nil)
		return ctx.Err()
	}

	if acceptErr == nil {
		acceptErr = net.ErrClosed
	}
	logging.Error().
		Str("component", "honeypot").
		Int("port", l.port).
		Err(acceptErr).
		Msg("accept loop failed")
	return l.retryOrGiveUp(ctx, fmt.Errorf("port %d accept loop: %w", l.port, acceptErr))
}

// retryOrGiveUp counts a failed bind or accept loop and decides whether
// suture may restart the port.
func (l *PortListener) retryOrGiveUp(ctx context.Context, err error) error {
	l.mu.Lock()
	l.failures++
	failures := l.failures
	l.mu.Unlock()

	if failures > l.cfg.MaxRestarts {
		l.setState(StateFailed, err)
		logging.Error().
			Str("component", "honeypot").
			Int("port", l.port).
			Int("attempts", failures).
			Err(err).
			Msg("giving up on honeypot port")
		return fmt.Errorf("port %d: %w: %w", l.port, suture.ErrDoNotRestart, err)
	}

	l.mu.Lock()
	l.restarts++
	l.mu.Unlock()
	l.setState(StateRestarting, err)
	metrics.RecordListenerRestart(l.port)
	logging.Warn().
		Str("component", "honeypot").
		Int("port", l.port).
		Int("attempt", failures).
		Dur("backoff", l.cfg.RestartBackoff).
		Err(err).
		Msg("honeypot port failed, retrying")

	if l.cfg.RestartBackoff > 0 {
		timer := time.NewTimer(l.cfg.RestartBackoff)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			l.setState(StateStopped, nil)
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// acceptLoop returns nil once ln is closed, or the last error after too
// many consecutive accept failures.
func (l *PortListener) acceptLoop(ctx, workCtx context.Context, ln net.Listener) error {
	var delay time.Duration
	consecutive := 0
	accepted := false

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			consecutive++
			metrics.RecordCaptureError(l.port, "accept")
			if consecutive >= maxAcceptErrors {
				return err
			}

			if delay == 0 {
				delay = l.acceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			logging.Warn().
				Str("component", "honeypot").
				Int("port", l.port).
				Dur("retry_in", delay).
				Err(err).
				Msg("accept error")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		capturedAt := time.Now().UTC()
		consecutive = 0
		delay = 0
		if !accepted {
			accepted = true
			l.mu.Lock()
			l.failures = 0
			l.mu.Unlock()
		}

		l.wg.Add(1)
		go l.handleConn(workCtx, conn, capturedAt)
	}
}

// handleConn greets, reads and closes conn, then hands the capture on.
func (l *PortListener) handleConn(ctx context.Context, conn net.Conn, capturedAt time.Time) {
	defer l.wg.Done()

	l.track(conn)
	destPort := l.localPort(conn)
	source := remoteIP(conn)

	deadline := capturedAt.Add(l.cfg.ReadTimeout)
	if l.banner != "" {
		_ = conn.SetWriteDeadline(deadline)
		if _, err := conn.Write([]byte(l.banner)); err != nil {
			logging.Debug().Str("source_ip", source).Int("port", destPort).Err(err).Msg("banner write failed")
		}
	}

	if l.cfg.ReadLimit > 0 {
		_ = conn.SetReadDeadline(deadline)
		buf := make([]byte, l.cfg.ReadLimit)
		n, err := conn.Read(buf)
		switch {
		case err == nil, errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		default:
			metrics.RecordCaptureError(l.port, "read")
			logging.Debug().Str("source_ip", source).Int("port", destPort).Err(err).Msg("read failed")
		}
		if n > 0 {
			logging.Debug().Str("source_ip", source).Int("port", destPort).Int("bytes", n).Msg("payload received")
		}
	}

	_ = conn.Close()
	l.untrack(conn)

	l.captures.Add(1)
	metrics.RecordConnection(l.port)

	capture := models.Capture{
		SourceIP:   source,
		DestPort:   destPort,
		Protocol:   models.ProtocolTCP,
		CapturedAt: capturedAt,
	}
	if _, err := l.handler.Ingest(ctx, capture); err != nil {
		logging.Debug().
			Str("component", "honeypot").
			Str("source_ip", source).
			Int("port", destPort).
			Err(err).
			Msg("capture not ingested")
	}
}

// drain waits for in-flight connections. After ShutdownTimeout it closes
// the remaining sockets and cancels their work context.
func (l *PortListener) drain(cancelWork context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	timeout := l.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	select {
	case <-done:
		return
	case <-time.After(timeout):
	}

	closed := l.closeTracked()
	cancelWork()
	logging.Warn().
		Str("component", "honeypot").
		Int("port", l.port).
		Int("force_closed", closed).
		Msg("shutdown timeout, canceled in-flight captures")

	select {
	case <-done:
	case <-time.After(timeout):
		logging.Error().Str("component", "honeypot").Int("port", l.port).Msg("in-flight captures did not finish")
	}
}

func (l *PortListener) track(conn net.Conn) {
	l.mu.Lock()
	l.conns[conn] = struct{}{}
	l.mu.Unlock()
}

func (l *PortListener) untrack(conn net.Conn) {
	l.mu.Lock()
	delete(l.conns, conn)
	l.mu.Unlock()
}

func (l *PortListener) closeTracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.conns)
	for conn := range l.conns {
		_ = conn.Close()
		delete(l.conns, conn)
	}
	return n
}

// localPort prefers the port the peer actually connected to.
func (l *PortListener) localPort(conn net.Conn) int {
	if addr, ok := conn.LocalAddr().(*net.TCPAddr); ok && addr.Port != 0 {
		return addr.Port
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.boundPort != 0 {
		return l.boundPort
	}
	return l.port
}

func (l *PortListener) setState(state string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != state {
		l.state = state
		l.since = time.Now().UTC()
	}
	if err != nil {
		l.lastErr = err.Error()
	} else if state == StateListening {
		l.lastErr = ""
	}
}

// State returns the current listener state.
func (l *PortListener) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Status reports the listener state and counters.
func (l *PortListener) Status() models.ListenerStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	since := l.since
	return models.ListenerStatus{
		Port:      l.port,
		State:     l.state,
		Captures:  l.captures.Load(),
		Restarts:  l.restarts,
		LastError: l.lastErr,
		Since:     &since,
	}
}

func remoteIP(conn net.Conn) string {
	switch addr := conn.RemoteAddr().(type) {
	case *net.TCPAddr:
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String()
		}
		return addr.IP.String()
	default:
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			return addr.String()
		}
		return host
	}
}

