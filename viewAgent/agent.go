package vagent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"xwebview/compositor"
	"xwebview/input"
	"xwebview/layout"
	"xwebview/metrics"
	"xwebview/protocol"
	"xwebview/sdriver"
)

var (
	ErrDisconnected = errors.New("source disconnected")
	ErrStopped      = errors.New("agent stopped")
)

// Agent owns all state of one viewer session. Inbound messages and local
// requests are handled one at a time on the goroutine running Run, so no
// state here is ever touched concurrently.
type Agent struct {
	id      string
	source  sdriver.Source
	metrics *metrics.Metrics
	debug   bool

	layout     *layout.Layout
	compositor *compositor.Compositor
	encoder    *input.Encoder

	header     protocol.FrameHeader
	haveHeader bool

	connected     bool
	framesDrawn   uint64
	framesDropped uint64

	requests     chan func()
	stopped      chan struct{}
	disconnected chan struct{}
}

func NewAgent(src sdriver.Source, config AgentConfig, m *metrics.Metrics) (*Agent, error) {
	dec, err := compositor.NewDecompressor(config.Compression)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}
	l := layout.New(config.ViewportWidth)
	a := &Agent{
		id:           uuid.NewString(),
		source:       src,
		metrics:      m,
		debug:        config.Debug,
		layout:       l,
		compositor:   compositor.New(compositor.NewCanvas(0, 0), dec, config.LengthCheck),
		encoder:      input.NewEncoder(src, config.EscapeKey),
		connected:    true,
		requests:     make(chan func()),
		stopped:      make(chan struct{}),
		disconnected: make(chan struct{}),
	}
	m.Connected.Set(1)
	log.Printf("Session %s started (compression=%s, viewport=%d)", a.id, dec.Name(), l.ViewportWidth())
	return a, nil
}

func (a *Agent) ID() string { return a.id }

// Disconnected is closed once the source connection has ended.
func (a *Agent) Disconnected() <-chan struct{} { return a.disconnected }

// Run processes the session until ctx is cancelled. A remote close does not
// end Run: the session stays inspectable in its disconnected state.
func (a *Agent) Run(ctx context.Context) error {
	defer close(a.stopped)

	msgCh := make(chan sdriver.Message)
	errCh := make(chan error, 1)
	go a.readLoop(ctx, msgCh, errCh)

	for {
		select {
		case <-ctx.Done():
			if a.connected {
				a.markDisconnected(nil)
			}
			return nil
		case m := <-msgCh:
			a.dispatch(m)
		case err := <-errCh:
			msgCh, errCh = nil, nil
			a.markDisconnected(err)
		case fn := <-a.requests:
			fn()
		}
	}
}

func (a *Agent) readLoop(ctx context.Context, msgCh chan<- sdriver.Message, errCh chan<- error) {
	for {
		m, err := a.source.ReadMessage()
		if err != nil {
			errCh <- err
			return
		}
		select {
		case msgCh <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (a *Agent) markDisconnected(err error) {
	a.connected = false
	a.metrics.Connected.Set(0)
	if err != nil && !errors.Is(err, sdriver.ErrClosed) {
		log.Printf("Session %s: connection lost: %v", a.id, err)
	} else {
		log.Printf("Session %s: connection closed", a.id)
	}
	if cerr := a.source.Close(); cerr != nil {
		log.Printf("Session %s: close source: %v", a.id, cerr)
	}
	close(a.disconnected)
}

// dispatch routes one inbound message. Binary frames are never scanned for
// control markers.
func (a *Agent) dispatch(m sdriver.Message) {
	a.metrics.BytesReceived.Add(float64(len(m.Data)))
	if m.Kind != sdriver.KindBinary {
		switch protocol.Classify(m.Data) {
		case protocol.ClassMonitor:
			a.handleMonitor(m.Data)
			return
		case protocol.ClassFrameHeader:
			a.handleFrameHeader(m.Data)
			return
		}
	}
	a.handleFrame(m.Data)
}

func (a *Agent) handleMonitor(data []byte) {
	kind := protocol.ClassMonitor.String()
	a.metrics.ControlMessages.WithLabelValues(kind).Inc()
	mon, err := protocol.ParseMonitor(data)
	if err == nil {
		err = a.layout.AddMonitor(mon)
	}
	if err != nil {
		a.metrics.ControlErrors.WithLabelValues(kind).Inc()
		log.Printf("Session %s: dropping monitor announcement %q: %v", a.id, data, err)
		return
	}
	w, h := a.layout.CanvasSize()
	a.compositor.Canvas().Resize(w, h)
	a.metrics.Monitors.Set(float64(a.layout.Len()))
	log.Printf("Session %s: monitor %dx%d+%d+%d registered, canvas now %dx%d", a.id, mon.W, mon.H, mon.X, mon.Y, w, h)
}

func (a *Agent) handleFrameHeader(data []byte) {
	kind := protocol.ClassFrameHeader.String()
	a.metrics.ControlMessages.WithLabelValues(kind).Inc()
	h, err := protocol.ParseFrameHeader(data)
	if err != nil {
		a.metrics.ControlErrors.WithLabelValues(kind).Inc()
		log.Printf("Session %s: dropping frame header %q: %v", a.id, data, err)
		return
	}
	if _, err := compositor.HeaderRect(h, a.compositor.Canvas().Bounds()); err != nil {
		// the payload that follows belongs to this header, never draw it
		// with the previous one
		a.metrics.ControlErrors.WithLabelValues(kind).Inc()
		a.haveHeader = false
		log.Printf("Session %s: rejecting frame header %q: %v", a.id, data, err)
		return
	}
	a.header = h
	a.haveHeader = true
}

func (a *Agent) handleFrame(payload []byte) {
	if !a.haveHeader {
		a.dropFrame(metrics.DropNoHeader, errors.New("payload before any frame header"))
		return
	}
	if err := a.compositor.Draw(a.header, payload); err != nil {
		a.dropFrame(dropReason(err), err)
		return
	}
	a.framesDrawn++
	a.metrics.FramesDecoded.Inc()
}

func (a *Agent) dropFrame(reason string, err error) {
	a.framesDropped++
	a.metrics.FramesDropped.WithLabelValues(reason).Inc()
	if a.debug {
		log.Printf("Session %s: frame dropped (%s): %v", a.id, reason, err)
	}
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, compositor.ErrLengthMismatch):
		return metrics.DropLengthMismatch
	case errors.Is(err, compositor.ErrSizeMismatch):
		return metrics.DropSizeMismatch
	case errors.Is(err, compositor.ErrHeaderBounds):
		return metrics.DropHeaderBounds
	default:
		return metrics.DropDecompress
	}
}

// do runs fn on the session goroutine and waits for it.
func (a *Agent) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	req := func() {
		defer close(done)
		fn()
	}
	select {
	case a.requests <- req:
	case <-a.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for session: %w", ctx.Err())
	}
}
