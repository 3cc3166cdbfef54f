package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is the leading mode field of every outbound command.
type Action uint8

const (
	ActionMouseDown Action = 0
	ActionMouseUp   Action = 1
	ActionKeyDown   Action = 2
	ActionKeyUp     Action = 3
)

func (a Action) String() string {
	switch a {
	case ActionMouseDown:
		return "mousedown"
	case ActionMouseUp:
		return "mouseup"
	case ActionKeyDown:
		return "keydown"
	case ActionKeyUp:
		return "keyup"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

func (a Action) IsPointer() bool { return a == ActionMouseDown || a == ActionMouseUp }

func (a Action) IsKey() bool { return a == ActionKeyDown || a == ActionKeyUp }

var ErrMalformedCommand = errors.New("malformed input command")

// EncodePointerCommand builds "<mode>:<button>:<x>:<y>". button is already
// the 1-based wire value.
func EncodePointerCommand(a Action, button, x, y int) string {
	return fmt.Sprintf("%d:%d:%d:%d", a, button, x, y)
}

// EncodeKeyCommand builds "<mode>:0:0:0:<symbol>". An empty symbol is
// still a valid command.
func EncodeKeyCommand(a Action, symbol string) string {
	return fmt.Sprintf("%d:0:0:0:%s", a, symbol)
}

// ParseCommand reads a wire command the same way the source does.
func ParseCommand(s string) (Command, error) {
	parts := strings.SplitN(s, ":", 5)
	if len(parts) < 4 {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformedCommand, s)
	}
	var nums [4]int
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Command{}, fmt.Errorf("%w: field %d of %q", ErrMalformedCommand, i, s)
		}
		nums[i] = n
	}
	a := Action(nums[0])
	if !a.IsPointer() && !a.IsKey() {
		return Command{}, fmt.Errorf("%w: unknown mode %d", ErrMalformedCommand, nums[0])
	}
	cmd := Command{Action: a, Button: nums[1], X: nums[2], Y: nums[3]}
	if len(parts) == 5 {
		cmd.Symbol = parts[4]
	}
	if a.IsKey() && len(parts) != 5 {
		return Command{}, fmt.Errorf("%w: key command without symbol field", ErrMalformedCommand)
	}
	return cmd, nil
}

// String re-encodes the command.
func (c Command) String() string {
	if c.Action.IsKey() {
		return EncodeKeyCommand(c.Action, c.Symbol)
	}
	return EncodePointerCommand(c.Action, c.Button, c.X, c.Y)
}
