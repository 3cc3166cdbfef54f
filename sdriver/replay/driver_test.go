package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwebview/sdriver"
)

func recording(t *testing.T, msgs ...sdriver.Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		require.NoError(t, sdriver.WriteRecord(&buf, m))
	}
	return buf.Bytes()
}

func TestReplayInOrder(t *testing.T) {
	data := recording(t,
		sdriver.Message{Kind: sdriver.KindText, Data: []byte("one")},
		sdriver.Message{Kind: sdriver.KindBinary, Data: []byte("two")},
	)
	path := filepath.Join(t.TempDir(), "session.rec")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	d, err := Open(path, 0)
	require.NoError(t, err)
	defer d.Close()

	m, err := d.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "one", string(m.Data))
	m, err = d.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, sdriver.KindBinary, m.Kind)

	_, err = d.ReadMessage()
	assert.ErrorIs(t, err, sdriver.ErrClosed)
}

func TestReplayKeepsOutbound(t *testing.T) {
	d := New(bytes.NewReader(nil), 0)
	require.NoError(t, d.SendText("0:1:2:3"))
	assert.Equal(t, []string{"0:1:2:3"}, d.Sent())

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.SendText("1:1:2:3"), sdriver.ErrClosed)
}

func TestCloseInterruptsWait(t *testing.T) {
	d := New(bytes.NewReader(recording(t, sdriver.Message{Kind: sdriver.KindText, Data: []byte("x")})), time.Hour)
	done := make(chan error, 1)
	go func() {
		_, err := d.ReadMessage()
		done <- err
	}()
	require.NoError(t, d.Close())
	select {
	case err := <-done:
		assert.ErrorIs(t, err, sdriver.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadMessage did not return after Close")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), 0)
	assert.Error(t, err)
}
