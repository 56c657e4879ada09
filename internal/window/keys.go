package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/meteorites/internal/input"
)

// keyFunc reports a key's state; swapped out in tests.
type keyFunc func(ebiten.Key) bool

// Key bindings. Directional keys are sampled as held, the rest as presses.
var (
	leftKeys    = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA, ebiten.KeyJ}
	rightKeys   = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD, ebiten.KeyL}
	upKeys      = []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeyI}
	downKeys    = []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS, ebiten.KeyK}
	fireKeys    = []ebiten.Key{ebiten.KeySpace}
	confirmKeys = []ebiten.Key{ebiten.KeyEnter, ebiten.KeyNumpadEnter}
	quitKeys    = []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}
)

func anyKey(keys []ebiten.Key, f keyFunc) bool {
	for _, k := range keys {
		if f(k) {
			return true
		}
	}
	return false
}

// pollKeys builds one tick's input from keyboard state.
func pollKeys(pressed, justPressed keyFunc) input.Input {
	in := input.Input{
		Held: input.Held{
			Up:    anyKey(upKeys, pressed),
			Down:  anyKey(downKeys, pressed),
			Left:  anyKey(leftKeys, pressed),
			Right: anyKey(rightKeys, pressed),
		},
		Quit: anyKey(quitKeys, justPressed),
	}
	if anyKey(fireKeys, justPressed) {
		in.Events = append(in.Events, input.EventFire)
	}
	if anyKey(confirmKeys, justPressed) {
		in.Events = append(in.Events, input.EventConfirm)
	}
	return in
}

// keyboard is the live ebiten keyboard as an input.Source.
type keyboard struct{}

// Poll implements input.Source.
func (keyboard) Poll() input.Input {
	return pollKeys(ebiten.IsKeyPressed, inpututil.IsKeyJustPressed)
}
