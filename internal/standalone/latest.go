package standalone

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

func isDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// LatestFolder returns the newest all-digit subdirectory of dataDir, or "".
func LatestFolder(dataDir string) string {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return ""
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() && isDigits(e.Name()) && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return ""
	}
	return filepath.Join(dataDir, latest)
}

// Snapshot is what the viewer renders.
type Snapshot struct {
	Folder  string            `json:"folder,omitempty"`
	Content map[string]string `json:"content"`
	Image   string            `json:"image,omitempty"`
}

// LoadLatest reads the newest content.json. Missing or corrupt files yield an
// empty snapshot.
func LoadLatest(dataDir string) Snapshot {
	snap := Snapshot{Content: map[string]string{}}
	folder := LatestFolder(dataDir)
	if folder == "" {
		return snap
	}
	snap.Folder = filepath.Base(folder)

	if data, err := os.ReadFile(filepath.Join(folder, ContentFile)); err == nil {
		var content map[string]string
		if json.Unmarshal(data, &content) == nil && content != nil {
			snap.Content = content
		}
	}

	name := ImageName(snap.Folder)
	if _, err := os.Stat(filepath.Join(dataDir, ImagesDir, name)); err == nil {
		snap.Image = name
	}
	return snap
}
