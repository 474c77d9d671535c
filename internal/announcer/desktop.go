package announcer

import (
	"sync"

	"github.com/julianstephens/chime/internal/logger"
)

// Tray is the part of the tray notifier Desktop depends on.
type Tray interface {
	Probe() error
	Notify(title, text string) error
}

// Desktop gates tray notifications behind a permission asked once at startup.
type Desktop struct {
	tray    Tray
	enabled bool

	once    sync.Once
	mu      sync.Mutex
	granted bool
}

func NewDesktop(tray Tray, enabled bool) *Desktop {
	return &Desktop{tray: tray, enabled: enabled}
}

// RequestPermission grants notifications when they are enabled and a tray is
// reachable. Only the first call probes; later calls return the same answer.
func (d *Desktop) RequestPermission() bool {
	d.once.Do(func() {
		granted := false
		if d.enabled && d.tray != nil {
			if err := d.tray.Probe(); err != nil {
				logger.Info("Desktop notifications unavailable", "reason", err)
			} else {
				granted = true
			}
		}
		d.mu.Lock()
		d.granted = granted
		d.mu.Unlock()
	})
	return d.Granted()
}

func (d *Desktop) Granted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.granted
}

func (d *Desktop) Notify(title, body string) error {
	if !d.Granted() {
		return ErrNotPermitted
	}
	return d.tray.Notify(title, body)
}
