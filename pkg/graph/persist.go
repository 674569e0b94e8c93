package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const graphsSubdir = "site-graphs"

// Slugify reduces an app name to a filesystem-safe slug: lowercased, runs
// of non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Save writes the graph as pretty-printed JSON to two files under
// dir/site-graphs: a stable {slug}-latest.json for lookups and a
// timestamped {slug}-{epoch}.json for history. Returns the latest path.
func Save(g *Graph, dir string) (string, error) {
	outDir := filepath.Join(dir, graphsSubdir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create graph directory: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal graph: %w", err)
	}

	slug := Slugify(g.AppName)
	latest := filepath.Join(outDir, slug+"-latest.json")
	stamped := filepath.Join(outDir, slug+"-"+strconv.FormatInt(time.Now().Unix(), 10)+".json")

	if err := os.WriteFile(latest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write graph: %w", err)
	}
	if err := os.WriteFile(stamped, data, 0644); err != nil {
		return latest, fmt.Errorf("failed to write graph history: %w", err)
	}

	return latest, nil
}

// Load reads a persisted graph back from disk.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	return &g, nil
}

// LoadLatest reads the stable snapshot for an app name.
func LoadLatest(dir, appName string) (*Graph, error) {
	return Load(filepath.Join(dir, graphsSubdir, Slugify(appName)+"-latest.json"))
}
