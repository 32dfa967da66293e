// Package ducks indexes the duck image directory and hands out random picks.
package ducks

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrNoDucks = errors.New("no duck images found")

// Attribution credits a duck photo's origin. Entries come from an optional
// attribution.json file next to the images.
type Attribution struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	License string `json:"license"`
	Source  string `json:"source"`
}

type Duck struct {
	Path        string // URL path, e.g. /ducks/mallard.jpg
	Attribution *Attribution
}

type Index struct {
	mu           sync.RWMutex
	dir          string
	paths        []string
	attributions map[string]Attribution // keyed by filename
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// NewIndex scans dir for duck images. An empty or missing directory is not
// an error at startup; Random reports it per request instead.
func NewIndex(dir string) (*Index, error) {
	idx := &Index{dir: dir}
	if err := idx.Reload(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Reload re-scans the image directory and attribution file.
func (idx *Index) Reload() error {
	entries, err := os.ReadDir(idx.dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading ducks dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, "/ducks/"+e.Name())
		}
	}

	attributions := loadAttributions(filepath.Join(idx.dir, "attribution.json"))

	idx.mu.Lock()
	idx.paths = paths
	idx.attributions = attributions
	idx.mu.Unlock()
	return nil
}

// Random picks a random duck from the index.
func (idx *Index) Random() (Duck, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.paths) == 0 {
		return Duck{}, ErrNoDucks
	}
	path := idx.paths[rand.Intn(len(idx.paths))]

	d := Duck{Path: path}
	if attr, ok := idx.attributions[filepath.Base(path)]; ok {
		d.Attribution = &attr
	}
	return d, nil
}

// Count returns the number of indexed images.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.paths)
}

func loadAttributions(path string) map[string]Attribution {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out map[string]Attribution
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
