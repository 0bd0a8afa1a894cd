// Package modelcat holds the catalog of known cloning models and the
// token/cache-path helpers shared by gateway backends.
package modelcat

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultModelID = "sesame/csm-1b"

type Model struct {
	ID           string
	Name         string
	Description  string
	RequiresAuth bool
}

var catalog = map[string]Model{
	"sesame/csm-1b": {
		ID:           "sesame/csm-1b",
		Name:         "CloneMyVoice (CSM-1B)",
		Description:  "High-quality voice cloning model",
		RequiresAuth: true,
	},
	"cvssp/sesame-ft": {
		ID:           "cvssp/sesame-ft",
		Name:         "SESAME Fine-tuned",
		Description:  "Fine-tuned version with improved quality",
		RequiresAuth: true,
	},
}

// List returns the known models sorted by id.
func List() []Model {
	out := make([]Model, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func Lookup(id string) (Model, bool) {
	m, ok := catalog[id]
	return m, ok
}

// CachePath returns the on-disk location for a model's weights inside
// cacheDir. The id is hashed so arbitrary model ids stay path-safe.
func CachePath(cacheDir, modelID string) string {
	sum := md5.Sum([]byte(modelID))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:]))
}

// Token environment variables, checked in order.
var tokenEnvVars = []string{"LLAMASESAME_TOKEN", "HF_TOKEN"}

// ResolveToken finds the auth token for gated models: environment
// first, then an apikeys.txt line of the form "HF: <token>".
func ResolveToken() string {
	for _, key := range tokenEnvVars {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}

	f, err := os.Open("apikeys.txt")
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "HF:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			return fields[1]
		}
	}
	return ""
}

// Describe renders a one-line summary for the list-models command.
func (m Model) Describe() string {
	auth := ""
	if m.RequiresAuth {
		auth = " (requires auth)"
	}
	return fmt.Sprintf("%s — %s: %s%s", m.ID, m.Name, m.Description, auth)
}
