package layout

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwebview/protocol"
)

func TestAddMonitorKeepsOrderAndCanvasSize(t *testing.T) {
	monitors := []protocol.Monitor{
		{X: 3200, Y: 0, W: 1024, H: 768},
		{X: 0, Y: 0, W: 1920, H: 1080},
		{X: 1920, Y: 100, W: 1280, H: 1024},
		{X: -800, Y: 0, W: 800, H: 600},
	}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		perm := rng.Perm(len(monitors))
		l := New(960)
		for _, i := range perm {
			require.NoError(t, l.AddMonitor(monitors[i]))
		}
		got := l.Monitors()
		assert.True(t, sort.SliceIsSorted(got, func(a, b int) bool { return got[a].X < got[b].X }))
		w, h := l.CanvasSize()
		assert.Equal(t, 1024+1920+1280+800, w)
		assert.Equal(t, 768+1080+1024+600, h)
	}
}

func TestAddMonitorStableForEqualX(t *testing.T) {
	l := New(100)
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, W: 10, H: 1}))
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, W: 20, H: 2}))
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, W: 30, H: 3}))
	got := l.Monitors()
	assert.Equal(t, []int{10, 20, 30}, []int{got[0].W, got[1].W, got[2].W})
}

func TestAddMonitorRejectsEmptyGeometry(t *testing.T) {
	l := New(100)
	assert.ErrorIs(t, l.AddMonitor(protocol.Monitor{W: 0, H: 10}), ErrInvalidMonitor)
	assert.Equal(t, 0, l.Len())
}

func TestViewTransform(t *testing.T) {
	l := New(960)
	_, err := l.View()
	assert.ErrorIs(t, err, ErrNoMonitor)

	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, Y: 0, W: 1920, H: 1080}))
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 1920, Y: 50, W: 1280, H: 1024}))

	v, err := l.View()
	require.NoError(t, err)
	assert.Equal(t, 0.5, v.Scale)
	assert.Equal(t, 0, v.TranslateX)
	assert.False(t, v.CanPrev)
	assert.True(t, v.CanNext)

	require.NoError(t, l.Select(1))
	v, _ = l.View()
	assert.Equal(t, 0.75, v.Scale)
	assert.Equal(t, -1920, v.TranslateX)
	assert.Equal(t, -50, v.TranslateY)
	assert.Equal(t, 1920, v.OriginX)
	assert.Equal(t, 50, v.OriginY)
	assert.True(t, v.CanPrev)
	assert.False(t, v.CanNext)
}

func TestNavigationBoundaries(t *testing.T) {
	l := New(1000)
	assert.False(t, l.Prev())
	assert.False(t, l.Next())

	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, W: 1000, H: 500}))
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 1000, W: 500, H: 500}))

	assert.False(t, l.Prev())
	assert.Equal(t, 0, l.Index())
	v, _ := l.View()
	assert.False(t, v.CanPrev)

	assert.True(t, l.Next())
	assert.Equal(t, 1, l.Index())
	assert.False(t, l.Next())
	assert.Equal(t, 1, l.Index())
	v, _ = l.View()
	assert.False(t, v.CanNext)

	assert.True(t, l.Prev())
	assert.Equal(t, 0, l.Index())
}

func TestSelectOutOfRange(t *testing.T) {
	l := New(1000)
	require.NoError(t, l.AddMonitor(protocol.Monitor{X: 0, W: 1000, H: 500}))
	assert.ErrorIs(t, l.Select(1), ErrMonitorIndex)
	assert.ErrorIs(t, l.Select(-1), ErrMonitorIndex)
	assert.Equal(t, 0, l.Index())
}

func TestResizeLeavesMonitorsAlone(t *testing.T) {
	l := New(960)
	m := protocol.Monitor{X: 0, Y: 0, W: 1920, H: 1080}
	require.NoError(t, l.AddMonitor(m))

	require.NoError(t, l.Resize(1920))
	v, _ := l.View()
	assert.Equal(t, 1.0, v.Scale)
	assert.Equal(t, []protocol.Monitor{m}, l.Monitors())
	w, h := l.CanvasSize()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	assert.ErrorIs(t, l.Resize(0), ErrViewportWidth)
	assert.Equal(t, 1920, l.ViewportWidth())
}
