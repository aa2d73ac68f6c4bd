package hostenv

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/raven-betanet/envcheck/internal/requirements"
)

// ErrUnsupportedSnapshotFormat is returned for snapshot files that are
// neither YAML nor JSON.
var ErrUnsupportedSnapshotFormat = errors.New("unsupported snapshot format")

// Snapshot is everything the rule sets need to know about a PHP runtime,
// captured once.
type Snapshot struct {
	Version    string  `json:"version" yaml:"version"`
	OS         string  `json:"os,omitempty" yaml:"os,omitempty"`
	ConfigFile *string `json:"config_file" yaml:"config_file"`

	// Extensions maps lower-cased loaded extension names to their version,
	// "" when the extension reports none.
	Extensions map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// ExtensionInfo holds the diagnostic output of selected extensions.
	ExtensionInfo map[string]string `json:"extension_info,omitempty" yaml:"extension_info,omitempty"`

	Functions  []string                               `json:"functions,omitempty" yaml:"functions,omitempty"`
	Classes    []string                               `json:"classes,omitempty" yaml:"classes,omitempty"`
	Constants  map[string]string                      `json:"constants,omitempty" yaml:"constants,omitempty"`
	// Directives holds ini_get strings. Hand-written YAML may also use
	// unquoted on/off/yes/no/none, which decode as the ini parser stores them.
	Directives map[string]requirements.DirectiveValue `json:"directives,omitempty" yaml:"directives,omitempty"`
	Timezone   string                                 `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Timezones  []string                               `json:"timezones,omitempty" yaml:"timezones,omitempty"`
	PDODrivers []string                               `json:"pdo_drivers,omitempty" yaml:"pdo_drivers,omitempty"`

	// Collators lists the locales for which a Collator could be created.
	Collators []string `json:"collators,omitempty" yaml:"collators,omitempty"`
}

type snapshotFormat int

const (
	formatYAML snapshotFormat = iota
	formatJSON
)

func formatFor(path string) (snapshotFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSnapshotFormat, path)
	}
}

// LoadSnapshot reads a snapshot file; the extension selects YAML or JSON.
func LoadSnapshot(fs afero.Fs, path string) (*Snapshot, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &snap)
	default:
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// SaveSnapshot writes snap to path; the extension selects YAML or JSON.
func SaveSnapshot(fs afero.Fs, path string, snap *Snapshot) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	data, err := EncodeSnapshot(snap, format == formatJSON)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// EncodeSnapshot renders snap as indented JSON or as YAML.
func EncodeSnapshot(snap *Snapshot, asJSON bool) ([]byte, error) {
	if asJSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return append(data, '\n'), nil
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}
