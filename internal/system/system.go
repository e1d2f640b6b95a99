package system

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// IsSheetFile reports whether path looks like an Aseprite JSON export
func IsSheetFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ListSheets returns every sheet description in dir, sorted by name
func ListSheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsSheetFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// FindLatestSheet returns the most recently modified sheet description in dir
func FindLatestSheet(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !IsSheetFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no sheet descriptions (.json) found in %s", dir)
	}

	return latestFile, nil
}

// ExpandInputs turns a mix of files and directories into a de-duplicated
// list of sheet descriptions, keeping the order given.
func ExpandInputs(inputs []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}

	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			add(in)
			continue
		}
		paths, err := ListSheets(in)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			add(p)
		}
	}

	return out, nil
}
