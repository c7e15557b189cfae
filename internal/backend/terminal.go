// internal/backend/terminal.go
package backend

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

const (
	trailRune   = '·'
	pointerRune = '●'
)

// Terminal uses a terminal's cells as pixels and the text cursor as the
// pointer. Every position the pointer visits is left behind as a faint trail
// so the shape of the move stays visible. Time is wall-clock time.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	pos     motion.Point
	drawn   bool
	trail   tcell.Style
	pointer tcell.Style
}

var _ motion.Backend = (*Terminal)(nil)

// NewTerminal draws on an initialized screen. The caller owns the screen and
// is responsible for Fini.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:  screen,
		trail:   tcell.StyleDefault.Foreground(tcell.ColorGray),
		pointer: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	}
}

func (t *Terminal) Now() time.Time { return time.Now() }

func (t *Terminal) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (t *Terminal) ScreenSize() motion.Size {
	w, h := t.screen.Size()
	return motion.Size{Width: w, Height: h}
}

func (t *Terminal) SetPointerPosition(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.ScreenSize().Clamp(motion.Point{X: x, Y: y})
	if t.drawn {
		t.screen.SetContent(t.pos.X, t.pos.Y, trailRune, nil, t.trail)
	}
	t.screen.SetContent(p.X, p.Y, pointerRune, nil, t.pointer)
	t.screen.ShowCursor(p.X, p.Y)
	t.screen.Show()
	t.pos = p
	t.drawn = true
}

func (t *Terminal) PointerPosition() motion.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// Clear wipes the trail and keeps the pointer where it is.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
	t.drawn = false
	t.screen.ShowCursor(t.pos.X, t.pos.Y)
	t.screen.Show()
}
