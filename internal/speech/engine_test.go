package speech

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"
)

func TestParseSayVoices(t *testing.T) {
	out := "Alex                en_US    # Most people recognize me by my voice.\n" +
		"Eddy (English (US)) en_US    # Hello! My name is Eddy.\n" +
		"Daniel              en_GB    # Hello, my name is Daniel.\n"

	got := parseSayVoices(out)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Name != "Eddy (English (US))" || got[1].Lang != "en-US" {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[2].Lang != "en-GB" {
		t.Errorf("got[2].Lang = %q", got[2].Lang)
	}
}

func TestParseEspeakVoices(t *testing.T) {
	out := "Pty Language       Age/Gender VoiceName          File                 Other Languages\n" +
		" 2  en-gb           --/M      English_(Great_Britain) gmw/en            (en 2)\n" +
		" 2  en-us           --/M      English_(America)  gmw/en-US            (en 3)\n"

	got := parseEspeakVoices(out)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	v, ok := PickVoice(got)
	if !ok || v.Name != "English_(America)" {
		t.Errorf("picked %+v, %v", v, ok)
	}
}

func TestEngineCommandArgs(t *testing.T) {
	ctx := context.Background()
	say := SayEngine{}.Command(ctx, Voice{Name: "Samantha"}, "hi")
	want := []string{"say", "-r", "158", "-v", "Samantha", "--", "hi"}
	if len(say.Args) != len(want) {
		t.Fatalf("args = %v", say.Args)
	}
	for i := range want {
		if say.Args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, say.Args[i], want[i])
		}
	}

	es := EspeakEngine{}.Command(ctx, Voice{}, "hi")
	if len(es.Args) != 5 || es.Args[1] != "-s" {
		t.Errorf("espeak args = %v", es.Args)
	}
}

type sleepEngine struct {
	mu       sync.Mutex
	voiceHit Voice
}

func (e *sleepEngine) Voices(context.Context) ([]Voice, error) {
	return []Voice{{Name: "Alex", Lang: "en-US"}}, nil
}

func (e *sleepEngine) Command(ctx context.Context, voice Voice, text string) *exec.Cmd {
	e.mu.Lock()
	e.voiceHit = voice
	e.mu.Unlock()
	return exec.CommandContext(ctx, "sleep", "10")
}

func TestSpeakerToggle(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	eng := &sleepEngine{}
	s := NewSpeaker(eng)
	ctx := context.Background()

	ended := make(chan struct{})
	speaking, err := s.Toggle(ctx, "hello", func() { close(ended) })
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !speaking || !s.Speaking() {
		t.Fatal("expected speaking after first toggle")
	}
	eng.mu.Lock()
	if eng.voiceHit.Name != "Alex" {
		t.Errorf("voice = %q, want Alex", eng.voiceHit.Name)
	}
	eng.mu.Unlock()

	speaking, err = s.Toggle(ctx, "hello", nil)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if speaking || s.Speaking() {
		t.Fatal("expected silence after second toggle")
	}

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("utterance did not end after stop")
	}
}

func TestSpeakerStartFailure(t *testing.T) {
	s := NewSpeaker(missingEngine{})
	if _, err := s.Toggle(context.Background(), "x", nil); err == nil {
		t.Fatal("expected start error")
	}
	if s.Speaking() {
		t.Error("should not be speaking")
	}
}

type missingEngine struct{}

func (missingEngine) Voices(context.Context) ([]Voice, error) { return nil, nil }

func (missingEngine) Command(ctx context.Context, _ Voice, _ string) *exec.Cmd {
	return exec.CommandContext(ctx, "quantsim-no-such-tts-binary")
}
