package speech

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Rate is the speaking rate relative to the engine default.
const Rate = 0.9

// defaultWPM is the default words per minute of both say and espeak.
const defaultWPM = 175

// Engine is a host text-to-speech program.
type Engine interface {
	// Voices lists installed voices.
	Voices(ctx context.Context) ([]Voice, error)
	// Command builds the process that speaks text. voice may be zero.
	Command(ctx context.Context, voice Voice, text string) *exec.Cmd
}

// DefaultEngine returns the engine for the current platform: say on macOS,
// espeak elsewhere.
func DefaultEngine() Engine {
	if runtime.GOOS == "darwin" {
		return SayEngine{}
	}
	return EspeakEngine{}
}

func rateWPM() string {
	return strconv.Itoa(int(math.Round(Rate * defaultWPM)))
}

// SayEngine drives the macOS say command.
type SayEngine struct{}

func (SayEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, "say", "-v", "?").Output()
	if err != nil {
		return nil, fmt.Errorf("list say voices: %w", err)
	}
	return parseSayVoices(string(out)), nil
}

func (SayEngine) Command(ctx context.Context, voice Voice, text string) *exec.Cmd {
	args := []string{"-r", rateWPM()}
	if voice.Name != "" {
		args = append(args, "-v", voice.Name)
	}
	args = append(args, "--", text)
	return exec.CommandContext(ctx, "say", args...)
}

// parseSayVoices reads `say -v ?` output:
//
//	Samantha            en_US    # Hello, my name is Samantha.
//	Eddy (English (US)) en_US    # Hello! My name is Eddy.
func parseSayVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		lang := fields[len(fields)-1]
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), lang))
		voices = append(voices, Voice{Name: name, Lang: normalizeLang(lang)})
	}
	return voices
}

// EspeakEngine drives espeak (or espeak-ng installed as espeak).
type EspeakEngine struct{}

func (EspeakEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, "espeak", "--voices=en").Output()
	if err != nil {
		return nil, fmt.Errorf("list espeak voices: %w", err)
	}
	return parseEspeakVoices(string(out)), nil
}

func (EspeakEngine) Command(ctx context.Context, voice Voice, text string) *exec.Cmd {
	args := []string{"-s", rateWPM()}
	if voice.Name != "" {
		args = append(args, "-v", voice.Name)
	}
	args = append(args, "--", text)
	return exec.CommandContext(ctx, "espeak", args...)
}

// parseEspeakVoices reads `espeak --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 2  en-us           --/M      English_(America)  gmw/en-US            (en 3)
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{Name: fields[3], Lang: normalizeLang(fields[1])})
	}
	return voices
}
