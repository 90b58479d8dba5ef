package submit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension picked up from the submission folder,
// matched case-insensitively.
const Extension = ".nzb"

// Enumerate lists the NZB files directly inside dir in directory order.
// Subdirectories and other extensions are skipped. An empty result is not an
// error.
func Enumerate(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
