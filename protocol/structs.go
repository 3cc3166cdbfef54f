package protocol

// Monitor is one physical display inside the combined virtual desktop.
type Monitor struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FrameHeader announces placement and size of the next binary payload.
type FrameHeader struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	W      int `json:"w"`
	H      int `json:"h"`
	Length int `json:"length"`
}

// PixelBytes is the size of the decoded buffer the header describes.
func (h FrameHeader) PixelBytes() int {
	return h.W * h.H * BytesPerPixel
}

// PointerEvent is a local pointer press/release in page coordinates.
type PointerEvent struct {
	Action Action
	Button int // zero based, as reported by the local input device
	PageX  float64
	PageY  float64
}

// KeyEvent is a local key press/release. Key uses browser key names
// ("ArrowLeft", "Shift", "a", ...).
type KeyEvent struct {
	Action Action
	Key    string
}

// Command is one decoded outbound wire string.
type Command struct {
	Action Action
	Button int
	X      int
	Y      int
	Symbol string
}
