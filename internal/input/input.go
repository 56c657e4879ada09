// Package input turns raw terminal bytes into per-tick key snapshots.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals report no key-up, so held state is inferred from auto-repeat.
const keyHoldDuration = 60 * time.Millisecond

// Held is the snapshot of directional keys sampled once per tick.
type Held struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Event is a discrete key-down event.
type Event int

const (
	EventFire    Event = iota // Shoot
	EventConfirm              // Replay after game over
)

func (e Event) String() string {
	switch e {
	case EventFire:
		return "fire"
	case EventConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Input represents the current frame's input state.
type Input struct {
	Held   Held
	Events []Event // Drained once per tick, in arrival order
	Quit   bool
}

// Has reports whether the event queue contains e.
func (in Input) Has(e Event) bool {
	for _, ev := range in.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Source is anything that can hand the game one input snapshot per tick.
type Source interface {
	Poll() Input
}

// keyState tracks the last time each directional key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// KeyResetter is a Source whose held keys can be forgotten.
type KeyResetter interface {
	ResetKeys()
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	closed  bool
	now     func() time.Time
	pending []byte // Escape sequence cut off at the end of the last poll
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// Poll implements Source.
func (s *Stream) Poll() Input {
	return ReadInput(s)
}

// ResetKeys implements KeyResetter.
func (s *Stream) ResetKeys() {
	ResetKeyInput(s)
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles CSI and SS3 arrow sequences, including ones split across polls;
// directional keys stay held for keyHoldDuration after their last byte.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var in Input
	in.Quit = s.closed

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI (ESC [ <code>) or SS3 (ESC O <code>)
		if b == '\x1b' {
			if i+1 < len(buf) && buf[i+1] != '[' && buf[i+1] != 'O' {
				continue
			}
			if i+2 >= len(buf) {
				if !s.closed {
					s.pending = append([]byte(nil), buf[i:]...)
				}
				break
			}
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		applyByte(&s.state, &in, b, now)
	}

	in.Held = Held{
		Up:    now.Sub(s.state.up) < keyHoldDuration,
		Down:  now.Sub(s.state.down) < keyHoldDuration,
		Left:  now.Sub(s.state.left) < keyHoldDuration,
		Right: now.Sub(s.state.right) < keyHoldDuration,
	}
	return in
}

// applyByte updates key state timestamps and the event queue for a single byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	case ' ':
		in.Events = append(in.Events, EventFire)
	case '\n', '\r':
		in.Events = append(in.Events, EventConfirm)
	}
}

// ResetKeyInput forgets held keys, so a key held across a scene change is not replayed.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}
