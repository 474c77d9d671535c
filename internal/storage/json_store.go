package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/models"
)

// JSONStore keeps the snapshot as one JSON object. It also reads a
// localStorage dump where each value is itself a JSON-encoded string.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) Load() models.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read storage, using defaults", "path", s.path, "error", err)
		}
		return models.DefaultSnapshot()
	}

	snap, err := DecodeJSON(data)
	if err != nil {
		logger.Warn("Failed to parse storage, using defaults", "path", s.path, "error", err)
		return models.DefaultSnapshot()
	}
	return snap
}

func (s *JSONStore) Save(snap models.Snapshot) error {
	values, err := Encode(snap)
	if err != nil {
		return err
	}

	theme, _ := json.Marshal(values[constants.KeyTheme])
	doc := map[string]json.RawMessage{
		constants.KeyVersion:   json.RawMessage(values[constants.KeyVersion]),
		constants.KeyReminders: json.RawMessage(values[constants.KeyReminders]),
		constants.KeyNotes:     json.RawMessage(values[constants.KeyNotes]),
		constants.KeyLogs:      json.RawMessage(values[constants.KeyLogs]),
		constants.KeyTheme:     theme,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a sibling temp file so a crash never leaves a partial store.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// Revision hashes the file bytes. A missing file has the empty revision.
func (s *JSONStore) Revision() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (s *JSONStore) GetConfigPath() string { return s.path }
func (s *JSONStore) Backend() string       { return BackendJSON }
