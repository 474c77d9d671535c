package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
)

// Encode renders a snapshot as raw values per key. Collections are JSON
// arrays; the theme and version are bare strings.
func Encode(s models.Snapshot) (map[string]string, error) {
	s = s.Clone()
	out := map[string]string{
		constants.KeyVersion: strconv.Itoa(constants.SnapshotVersion),
		constants.KeyTheme:   string(s.Theme),
	}
	if s.Theme == "" {
		out[constants.KeyTheme] = string(models.ThemeLight)
	}

	collections := []struct {
		key string
		v   any
	}{
		{constants.KeyReminders, s.Reminders},
		{constants.KeyNotes, s.Notes},
		{constants.KeyLogs, s.Logs},
	}
	for _, c := range collections {
		data, err := json.Marshal(c.v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", c.key, err)
		}
		out[c.key] = string(data)
	}
	return out, nil
}

// Decode rebuilds a snapshot from raw values. A key that is missing or cannot
// be parsed falls back to its default; individual bad records are skipped.
func Decode(values map[string]string) models.Snapshot {
	snap := models.DefaultSnapshot()

	if v, ok := values[constants.KeyVersion]; ok {
		version, err := strconv.Atoi(strings.Trim(strings.TrimSpace(v), `"`))
		if err != nil {
			logger.Warn("Unreadable snapshot version", "value", v)
		} else if version > constants.SnapshotVersion {
			logger.Warn("Snapshot written by a newer chime, reading what is recognised", "version", version)
		}
	}

	if v, ok := values[constants.KeyReminders]; ok {
		reminders, skipped, err := models.DecodeReminders([]byte(v))
		if err != nil {
			logger.Warn("Discarding stored reminders", "error", err)
		} else {
			snap.Reminders = reminders
			warnSkipped(constants.KeyReminders, skipped)
		}
	}
	if v, ok := values[constants.KeyNotes]; ok {
		notes, skipped, err := models.DecodeNotes([]byte(v))
		if err != nil {
			logger.Warn("Discarding stored notes", "error", err)
		} else {
			snap.Notes = notes
			warnSkipped(constants.KeyNotes, skipped)
		}
	}
	if v, ok := values[constants.KeyLogs]; ok {
		logs, skipped, err := models.DecodeLogs([]byte(v), constants.MaxLogEntries)
		if err != nil {
			logger.Warn("Discarding stored logs", "error", err)
		} else {
			snap.Logs = logs
			warnSkipped(constants.KeyLogs, skipped)
		}
	}
	if v, ok := values[constants.KeyTheme]; ok {
		theme, err := models.DecodeTheme([]byte(v))
		if err != nil {
			logger.Warn("Unknown stored theme, using light", "error", err)
		} else {
			snap.Theme = theme
		}
	}
	return snap
}

// DecodeJSON reads a JSON object keyed like the store: a JSONStore file, an
// export, or a browser localStorage dump whose values are JSON strings.
func DecodeJSON(data []byte) (models.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Snapshot{}, err
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = string(v)
	}
	return Decode(values), nil
}

func warnSkipped(key string, n int) {
	if n > 0 {
		logger.Warn("Skipped unreadable records", "key", key, "count", n)
	}
}

// revisionOf hashes raw values in key order.
func revisionOf(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(values[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
