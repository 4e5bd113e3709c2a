package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Speaker plays one utterance at a time. Toggling while speaking stops the
// current utterance instead of starting another.
type Speaker struct {
	engine Engine

	mu     sync.Mutex
	cmd    *exec.Cmd
	voice  *Voice
	cancel context.CancelFunc
}

// NewSpeaker creates a speaker for engine. A nil engine uses DefaultEngine.
func NewSpeaker(engine Engine) *Speaker {
	if engine == nil {
		engine = DefaultEngine()
	}
	return &Speaker{engine: engine}
}

// Speaking reports whether an utterance is playing.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Toggle stops the current utterance if one is playing, otherwise starts
// speaking text. It reports whether speech is now playing. done, if non-nil,
// is called once the started utterance ends for any reason.
func (s *Speaker) Toggle(ctx context.Context, text string, done func()) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		s.stopLocked()
		return false, nil
	}

	voice := s.pickVoiceLocked(ctx)
	runCtx, cancel := context.WithCancel(ctx)
	cmd := s.engine.Command(runCtx, voice, text)
	if err := cmd.Start(); err != nil {
		cancel()
		return false, fmt.Errorf("start speech: %w", err)
	}
	s.cmd = cmd
	s.cancel = cancel

	go func() {
		_ = cmd.Wait()
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
		if done != nil {
			done()
		}
	}()
	return true, nil
}

// Stop silences any utterance in progress.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.cmd = nil
	s.cancel = nil
}

// pickVoiceLocked resolves the voice once per speaker. A failed listing falls
// back to the engine default voice.
func (s *Speaker) pickVoiceLocked(ctx context.Context) Voice {
	if s.voice != nil {
		return *s.voice
	}
	var v Voice
	if voices, err := s.engine.Voices(ctx); err == nil {
		v, _ = PickVoice(voices)
	}
	s.voice = &v
	return v
}
