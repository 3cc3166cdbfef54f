// Package replay plays a recorded session back as a source, for offline
// debugging of the decode path without a live capture server.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"xwebview/sdriver"
)

// Driver implements sdriver.Source over a recording. Outbound commands are
// kept in memory instead of being delivered anywhere.
type Driver struct {
	r        *bufio.Reader
	closer   io.Closer
	interval time.Duration

	mu       sync.Mutex
	sent     []string
	stopOnce sync.Once
	stopCh   chan struct{}
}

// Open replays the recording at path, waiting interval before each
// message.
func Open(path string, interval time.Duration) (*Driver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	d := New(f, interval)
	d.closer = f
	return d, nil
}

func New(r io.Reader, interval time.Duration) *Driver {
	return &Driver{
		r:        bufio.NewReader(r),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// ReadMessage returns sdriver.ErrClosed at the end of the recording, the
// same way a live source reports a remote close.
func (d *Driver) ReadMessage() (sdriver.Message, error) {
	if d.interval > 0 {
		t := time.NewTimer(d.interval)
		select {
		case <-t.C:
		case <-d.stopCh:
			t.Stop()
			return sdriver.Message{}, sdriver.ErrClosed
		}
	}
	select {
	case <-d.stopCh:
		return sdriver.Message{}, sdriver.ErrClosed
	default:
	}
	m, err := sdriver.ReadRecord(d.r)
	if errors.Is(err, io.EOF) {
		return sdriver.Message{}, fmt.Errorf("%w: end of recording", sdriver.ErrClosed)
	}
	return m, err
}

func (d *Driver) SendText(cmd string) error {
	select {
	case <-d.stopCh:
		return sdriver.ErrClosed
	default:
	}
	d.mu.Lock()
	d.sent = append(d.sent, cmd)
	d.mu.Unlock()
	log.Printf("replay: dropping outbound command %q", cmd)
	return nil
}

// Sent returns the commands sent so far.
func (d *Driver) Sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sent...)
}

func (d *Driver) Close() error {
	var err error
	d.stopOnce.Do(func() {
		close(d.stopCh)
		if d.closer != nil {
			err = d.closer.Close()
		}
	})
	return err
}
