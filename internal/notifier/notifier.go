// Package notifier delivers desktop notifications through the companion tray
// app, which listens on a loopback port advertised in its lockfile.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/chime/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray process can be found.
var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

type Notifier struct {
	DurationMs uint32
	client     *http.Client
}

type WebhookPayload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type tray struct {
	port   int
	pid    int
	secret string
}

func New(durationMs int) *Notifier {
	if durationMs <= 0 {
		durationMs = constants.NotificationDurationMs
	}
	return &Notifier{
		DurationMs: uint32(durationMs),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Probe reports whether a tray is running and reachable, without sending.
func (n *Notifier) Probe() error {
	_, err := locateTray()
	return err
}

func (n *Notifier) Notify(title, text string) error {
	t, err := locateTray()
	if err != nil {
		return err
	}
	return n.send(t.port, t.secret, WebhookPayload{
		Title:      title,
		Text:       text,
		DurationMs: n.DurationMs,
	})
}

func locateTray() (tray, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return tray{}, err
	}
	content, err := os.ReadFile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return tray{}, ErrTrayNotRunning
	}
	t, err := parseLockfile(string(content))
	if err != nil {
		return tray{}, err
	}
	if err := verifyProcess(t.pid); err != nil {
		return tray{}, err
	}
	return t, nil
}

// GetTrayAppConfigDir returns where the tray writes its lockfile, honouring
// a lockfile_dir override in the tray's settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

// parseLockfile reads the "port|pid|secret" lockfile format.
func parseLockfile(content string) (tray, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return tray{}, errors.New("lockfile is malformed")
	}
	if strings.TrimSpace(parts[0]) == "" {
		return tray{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return tray{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return tray{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return tray{}, errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(parts[2]) == "" {
		return tray{}, errors.New("secret in lockfile is empty")
	}
	return tray{port: port, pid: pid, secret: parts[2]}, nil
}

func verifyProcess(pid int) error {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return nil
}

func (n *Notifier) send(port int, secret string, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%d", port), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
