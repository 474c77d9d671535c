package announcer

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/julianstephens/chime/internal/logger"
)

// candidates are tried in order when no command is configured.
func candidates() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say"}
	}
	return []string{"espeak-ng", "espeak", "spd-say", "say"}
}

// stdinFlags make the known TTS binaries read the text from stdin, so text
// starting with a dash is never parsed as an option.
var stdinFlags = map[string][]string{
	"espeak-ng": {"--stdin"},
	"espeak":    {"--stdin"},
	"say":       {"-f", "-"},
	"spd-say":   {"-e"},
}

// Speech shells out to a TTS binary. Known binaries read the text on stdin;
// any other configured command gets it as the last argument.
type Speech struct {
	command string
	args    []string

	lookPath func(string) (string, error)

	mu      sync.Mutex
	current *utterance
}

type utterance struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// NewSpeech uses command when set, otherwise the first TTS binary on PATH.
func NewSpeech(command string, args []string) *Speech {
	return &Speech{
		command:  command,
		args:     args,
		lookPath: exec.LookPath,
	}
}

// Resolve returns the binary Speak would run.
func (s *Speech) Resolve() (string, error) {
	if s.command != "" {
		path, err := s.lookPath(s.command)
		if err != nil {
			return "", ErrSpeechUnsupported
		}
		return path, nil
	}
	for _, c := range candidates() {
		if path, err := s.lookPath(c); err == nil {
			return path, nil
		}
	}
	return "", ErrSpeechUnsupported
}

func (s *Speech) Speak(text string) error {
	bin, err := s.Resolve()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()

	cmd := s.buildCmd(bin, text)
	if err := cmd.Start(); err != nil {
		return err
	}
	u := &utterance{cmd: cmd, done: make(chan struct{})}
	s.current = u

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("Speech process exited", "error", err)
		}
		close(u.done)
		s.mu.Lock()
		if s.current == u {
			s.current = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

func (s *Speech) buildCmd(bin, text string) *exec.Cmd {
	args := append([]string{}, s.args...)
	flags, ok := stdinFlags[filepath.Base(bin)]
	if !ok {
		return exec.Command(bin, append(args, text)...)
	}
	cmd := exec.Command(bin, append(args, flags...)...)
	cmd.Stdin = strings.NewReader(text)
	return cmd
}

// Cancel stops the running utterance, if any.
func (s *Speech) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Speech) cancelLocked() {
	if s.current == nil {
		return
	}
	if s.current.cmd.Process != nil {
		_ = s.current.cmd.Process.Kill()
	}
	s.current = nil
}

// Speaking reports whether an utterance is still running.
func (s *Speech) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}
