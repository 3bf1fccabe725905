package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu   sync.RWMutex
	diskDir = "prefabs"
)

// SetDir points disk overrides at dir. An empty dir disables them.
func SetDir(dir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	diskDir = dir
}

func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return diskDir
}

// Load reads a prefab, preferring the on-disk copy so edits show up without
// a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if p, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if p, ok := diskPrefabPath(clean); ok {
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
	}
	data, err := ScriptsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return data, nil
}

func ModTime(name string) (time.Time, bool) {
	p, ok := diskPrefabPath(cleanPrefabPath(name))
	if !ok {
		return time.Time{}, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded prefabs without their extension.
func Names() []string {
	entries, err := fs.ReadDir(PrefabsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isSpecFile(e.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "prefabs/")
	if !isSpecFile(s) {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
		}
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) (string, bool) {
	dir := Dir()
	if dir == "" || clean == "" {
		return "", false
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), true
}
