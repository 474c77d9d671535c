package system

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/chime/internal/cli"
	"github.com/julianstephens/chime/internal/constants"
	apperrors "github.com/julianstephens/chime/internal/errors"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/storage"
)

// document is the export layout. Its JSON form is readable by the JSON store.
type document struct {
	Version         int `json:"version" yaml:"version"`
	models.Snapshot `yaml:",inline"`
}

type ExportCmd struct {
	Format string `help:"Output format." enum:"json,yaml" default:"json"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc := document{Version: constants.SnapshotVersion, Snapshot: ctx.Session.Snapshot()}

	var (
		data []byte
		err  error
	)
	switch c.Format {
	case "yaml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if c.Output == "" {
		_, err = ctx.Stdout().Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported %d reminder(s), %d note(s), %d log entries to %s\n",
		len(doc.Reminders), len(doc.Notes), len(doc.Logs), c.Output)
	return nil
}

// ImportCmd replaces the stored state with a file produced by export, a JSON
// store file, or a browser localStorage dump.
type ImportCmd struct {
	File string `arg:"" help:"JSON or YAML file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	snap, err := decodeImport(c.File, data)
	if err != nil {
		return apperrors.Usage(err)
	}

	if !c.Yes {
		ctx.Printf("Replace current data with %d reminder(s), %d note(s), %d log entries? [y/N]: ",
			len(snap.Reminders), len(snap.Notes), len(snap.Logs))
		var response string
		fmt.Fscanln(ctx.Stdin(), &response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Session.Import(snap); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	ctx.Printf("✓ Imported %d reminder(s), %d note(s), %d log entries\n",
		len(snap.Reminders), len(snap.Notes), len(snap.Logs))
	return nil
}

func decodeImport(path string, data []byte) (models.Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		values, err := yamlValues(data)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("invalid YAML export: %w", err)
		}
		return storage.Decode(values), nil
	}
	snap, err := storage.DecodeJSON(data)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("invalid JSON export: %w", err)
	}
	return snap, nil
}

// yamlValues re-encodes each top-level YAML key as JSON so imports from
// either format go through the same per-record decoding.
func yamlValues(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		values[k] = string(encoded)
	}
	return values, nil
}
