package sdriver

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

// Session recordings are a plain sequence of
// [1B kind][4B big-endian length][payload] records.
const (
	RecordHeaderSize = 5
	MaxRecordSize    = 64 * 1024 * 1024
)

var ErrRecordTooLarge = errors.New("record exceeds maximum size")

func WriteRecord(w io.Writer, m Message) error {
	if len(m.Data) > MaxRecordSize {
		return ErrRecordTooLarge
	}
	var hdr [RecordHeaderSize]byte
	hdr[0] = byte(m.Kind)
	binary.BigEndian.PutUint32(hdr[1:5], uint32(len(m.Data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(m.Data) > 0 {
		if _, err := w.Write(m.Data); err != nil {
			return err
		}
	}
	return nil
}

// ReadRecord returns io.EOF only on a clean record boundary.
func ReadRecord(r io.Reader) (Message, error) {
	var hdr [RecordHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, fmt.Errorf("truncated record header: %w", err)
		}
		return Message{}, err
	}
	size := binary.BigEndian.Uint32(hdr[1:5])
	if size > MaxRecordSize {
		return Message{}, ErrRecordTooLarge
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return Message{}, fmt.Errorf("truncated record body: %w", err)
	}
	return Message{Kind: MessageKind(hdr[0]), Data: data}, nil
}

// Recorder tees every message read from a Source into a recording.
type Recorder struct {
	Source
	mu  sync.Mutex
	out io.WriteCloser
	w   *bufio.Writer
}

func NewRecorder(src Source, out io.WriteCloser) *Recorder {
	return &Recorder{Source: src, out: out, w: bufio.NewWriter(out)}
}

func (r *Recorder) ReadMessage() (Message, error) {
	m, err := r.Source.ReadMessage()
	if err != nil {
		return m, err
	}
	r.mu.Lock()
	if r.w != nil {
		if werr := WriteRecord(r.w, m); werr != nil {
			log.Printf("recorder: write failed, recording stopped: %v", werr)
			r.w = nil
		}
	}
	r.mu.Unlock()
	return m, nil
}

func (r *Recorder) Close() error {
	err := r.Source.Close()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w != nil {
		if ferr := r.w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		r.w = nil
	}
	if r.out != nil {
		if cerr := r.out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		r.out = nil
	}
	return err
}
