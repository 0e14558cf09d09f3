package gallery

// Key is a keyboard input the lightbox responds to.
type Key int

const (
	KeyEscape Key = iota + 1
	KeyLeft
	KeyRight
)

// ParseKey maps a DOM KeyboardEvent.key value to a Key.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "Escape":
		return KeyEscape, true
	case "ArrowLeft":
		return KeyLeft, true
	case "ArrowRight":
		return KeyRight, true
	}
	return 0, false
}

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyLeft:
		return "ArrowLeft"
	case KeyRight:
		return "ArrowRight"
	}
	return "unknown"
}

// HandleKey applies a key press. Keys are ignored while the lightbox is
// closed, and HandleKey then returns false without touching any state.
func (g *Controller) HandleKey(k Key) bool {
	if g.selected == nil {
		return false
	}
	switch k {
	case KeyEscape:
		g.CloseLightbox()
	case KeyLeft:
		g.Navigate(Prev)
	case KeyRight:
		g.Navigate(Next)
	default:
		return false
	}
	return true
}
