package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommands(t *testing.T) {
	assert.Equal(t, "0:1:200:100", EncodePointerCommand(ActionMouseDown, 1, 200, 100))
	assert.Equal(t, "1:3:5:6", EncodePointerCommand(ActionMouseUp, 3, 5, 6))
	assert.Equal(t, "2:0:0:0:Left", EncodeKeyCommand(ActionKeyDown, "Left"))
	assert.Equal(t, "3:0:0:0:", EncodeKeyCommand(ActionKeyUp, ""))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"0:1:200:100", Command{Action: ActionMouseDown, Button: 1, X: 200, Y: 100}},
		{"1:2:-5:7", Command{Action: ActionMouseUp, Button: 2, X: -5, Y: 7}},
		{"2:0:0:0:Left", Command{Action: ActionKeyDown, Symbol: "Left"}},
		{"3:0:0:0:", Command{Action: ActionKeyUp}},
		{"2:0:0:0::", Command{Action: ActionKeyDown, Symbol: ":"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	for _, in := range []string{"", "0:1:2", "a:1:2:3", "9:0:0:0", "2:0:0:0"} {
		_, err := ParseCommand(in)
		assert.ErrorIs(t, err, ErrMalformedCommand, in)
	}
}

func TestKeySymbol(t *testing.T) {
	tests := map[string]string{
		"ArrowLeft": "Left",
		"ArrowDown": "Down",
		" ":         "KP_Space",
		"Enter":     "Return",
		"PageUp":    "KP_Page_Up",
		"a":         "a",
		"Z":         "Z",
		"é":         "é",
		"F5":        "",
		"Escape":    "",
		"\x01":      "",
	}
	for key, want := range tests {
		assert.Equal(t, want, KeySymbol(key), "key %q", key)
	}
	assert.Len(t, MappedKeys(), 14)
}
