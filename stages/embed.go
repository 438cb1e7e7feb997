// Package stages embeds the bundled stage descriptors.
package stages

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/platformgen/descriptor"
)

//go:embed *.yaml
var StagesFS embed.FS

// Load returns the named stage, preferring a copy under ./stages on disk
// so edits are picked up without rebuilding.
func Load(name string) (*descriptor.Stage, error) {
	clean := cleanStagePath(name)
	if _, err := os.Stat(diskStagePath(clean)); err == nil {
		return descriptor.LoadStageFile(diskStagePath(clean))
	}
	st, err := descriptor.LoadStage(StagesFS, clean)
	if err != nil {
		return nil, fmt.Errorf("stages: %w", err)
	}
	return st, nil
}

// Names lists the embedded stages without their extension.
func Names() []string {
	entries, err := fs.ReadDir(StagesFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func cleanStagePath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "stages/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func diskStagePath(clean string) string {
	return filepath.Join("stages", filepath.FromSlash(clean))
}
