package input

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func streamWith(clock *fakeClock, data string) *Stream {
	s := newStream()
	s.now = clock.now
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
	return s
}

func TestArrowKeysAreHeld(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, "\x1b[A\x1b[D")

	in := ReadInput(s)
	if !in.Held.Up || !in.Held.Left {
		t.Errorf("Expected Up and Left held, got %+v", in.Held)
	}
	if in.Held.Down || in.Held.Right {
		t.Errorf("Expected Down and Right released, got %+v", in.Held)
	}

	clock.t = clock.t.Add(keyHoldDuration / 2)
	if in := ReadInput(s); !in.Held.Up {
		t.Error("Expected Up still held within hold duration")
	}

	clock.t = clock.t.Add(keyHoldDuration)
	if in := ReadInput(s); in.Held.Up {
		t.Error("Expected Up released after hold duration")
	}
}

func TestDiscreteEventsKeepOrder(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, " \r ")

	in := ReadInput(s)
	want := []Event{EventFire, EventConfirm, EventFire}
	if len(in.Events) != len(want) {
		t.Fatalf("Expected %d events, got %v", len(want), in.Events)
	}
	for i := range want {
		if in.Events[i] != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], in.Events[i])
		}
	}

	if again := ReadInput(s); len(again.Events) != 0 {
		t.Errorf("Expected queue drained, got %v", again.Events)
	}
}

func TestQuitOnKeyAndOnClose(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, "q")
	if in := ReadInput(s); !in.Quit {
		t.Error("Expected q to request quit")
	}

	s = streamWith(clock, "")
	close(s.ch)
	if in := ReadInput(s); !in.Quit {
		t.Error("Expected a closed stream to request quit")
	}
}

func TestResetKeyInput(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, "w")
	ReadInput(s)

	ResetKeyInput(s)
	if in := ReadInput(s); in.Held.Up {
		t.Error("Expected held keys cleared after reset")
	}
}

func TestStreamResetKeys(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, "\x1b[C")
	ReadInput(s)

	var src Source = s
	r, ok := src.(KeyResetter)
	if !ok {
		t.Fatal("Expected Stream to implement KeyResetter")
	}
	r.ResetKeys()
	if in := ReadInput(s); in.Held.Right {
		t.Error("Expected held keys cleared after ResetKeys")
	}
}

func TestEscapeSequenceSplitAcrossPolls(t *testing.T) {
	tests := []struct {
		name        string
		first, rest string
		want        Held
	}{
		{"csi up after bracket", "\x1b[", "A", Held{Up: true}},
		{"csi down after escape", "\x1b", "[B", Held{Down: true}},
		{"ss3 left after O", "\x1bO", "D", Held{Left: true}},
		{"ss3 right", "\x1bO", "C", Held{Right: true}},
	}
	for _, tt := range tests {
		clock := &fakeClock{t: time.Unix(100, 0)}
		s := streamWith(clock, tt.first)

		if in := ReadInput(s); in.Held != (Held{}) || len(in.Events) != 0 {
			t.Errorf("%s: expected nothing from a partial sequence, got %+v", tt.name, in)
		}
		for i := 0; i < len(tt.rest); i++ {
			s.ch <- tt.rest[i]
		}
		if in := ReadInput(s); in.Held != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.name, tt.want, in.Held)
		}
	}
}

func TestBareEscapeDoesNotEatNextKey(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	s := streamWith(clock, "\x1b")
	ReadInput(s)

	s.ch <- 'w'
	s.ch <- ' '
	in := ReadInput(s)
	if !in.Held.Up {
		t.Errorf("Expected w after escape to hold Up, got %+v", in.Held)
	}
	if !in.Has(EventFire) {
		t.Errorf("Expected fire event, got %v", in.Events)
	}
}

func TestHas(t *testing.T) {
	in := Input{Events: []Event{EventConfirm}}
	if !in.Has(EventConfirm) || in.Has(EventFire) {
		t.Errorf("Has reported wrong membership for %v", in.Events)
	}
}
