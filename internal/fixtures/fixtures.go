// Package fixtures embeds recorded landmark sequences. Each sequence is a
// JSON Lines file of observations; every record also carries an "expect"
// field naming the label it should classify as.
package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/source"
)

//go:embed sequences/*.jsonl
var sequencesFS embed.FS

const sequenceDir = "sequences"

// Names lists the embedded sequences without their extension.
func Names() []string {
	entries, _ := fs.ReadDir(sequencesFS, sequenceDir)
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	return names
}

// Open returns the raw JSON Lines of a sequence.
func Open(name string) (io.ReadCloser, error) {
	f, err := sequencesFS.Open(path.Join(sequenceDir, name+".jsonl"))
	if err != nil {
		return nil, fmt.Errorf("open sequence %s: %w", name, err)
	}
	return f, nil
}

// Load decodes a sequence into observations.
func Load(name string) ([]source.Observation, error) {
	f, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obs, err := source.LoadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}
	return obs, nil
}

// Expected returns the labels a sequence should classify as, in order.
func Expected(name string) ([]gesture.Label, error) {
	data, err := sequencesFS.ReadFile(path.Join(sequenceDir, name+".jsonl"))
	if err != nil {
		return nil, fmt.Errorf("open sequence %s: %w", name, err)
	}

	var labels []gesture.Label
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		var rec struct {
			Expect string `json:"expect"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("sequence %s line %d: %w", name, i+1, err)
		}
		label, err := gesture.ParseLabel(rec.Expect)
		if err != nil {
			return nil, fmt.Errorf("sequence %s line %d: %w", name, i+1, err)
		}
		labels = append(labels, label)
	}
	return labels, nil
}
