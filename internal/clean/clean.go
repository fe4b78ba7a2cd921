// Package clean removes LaTeX auxiliary files from the output directory.
package clean

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/texkit/internal/logfields"
)

// auxSuffixes are the file endings latexmk and friends leave behind.
// Matched as suffixes so multi-dot endings like .run.xml and .synctex.gz
// work.
var auxSuffixes = []string{
	".aux", ".bbl", ".bcf", ".blg", ".fdb_latexmk", ".fls", ".log",
	".out", ".run.xml", ".synctex.gz", ".toc", ".lof", ".lot",
	".nav", ".snm", ".vrb", ".idx", ".ilg", ".ind",
	".glo", ".gls", ".glg", ".acn", ".acr", ".alg",
}

// mintedDirPrefix marks cache directories created by the minted package.
const mintedDirPrefix = "_minted-"

// Options controls what a clean run removes.
type Options struct {
	// All removes everything in the output directory except .gitkeep,
	// including built PDFs.
	All bool
	// DryRun only reports what would be removed.
	DryRun bool
}

// Entry is one path selected for removal.
type Entry struct {
	Path  string
	Size  int64
	IsDir bool
}

// Plan lists what a clean run will remove.
type Plan struct {
	Entries   []Entry
	TotalSize int64
}

// BuildPlan scans outputDir and selects removal candidates. A missing
// output directory yields an empty plan.
func BuildPlan(outputDir string, opts Options) (*Plan, error) {
	plan := &Plan{}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return plan, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(outputDir, name)

		if entry.IsDir() {
			if opts.All || strings.HasPrefix(name, mintedDirPrefix) {
				size, _ := dirSize(path)
				plan.Entries = append(plan.Entries, Entry{Path: path, Size: size, IsDir: true})
				plan.TotalSize += size
			}
			continue
		}

		if name == ".gitkeep" {
			continue
		}
		if !opts.All && !isAuxFile(name) {
			continue
		}
		info, err := entry.Info()
		var size int64
		if err == nil {
			size = info.Size()
		}
		plan.Entries = append(plan.Entries, Entry{Path: path, Size: size})
		plan.TotalSize += size
	}

	sort.Slice(plan.Entries, func(i, j int) bool { return plan.Entries[i].Path < plan.Entries[j].Path })
	return plan, nil
}

// Execute removes every entry in the plan. Individual failures are
// logged and counted but do not stop the run; in dry-run mode nothing is
// removed.
func Execute(plan *Plan, opts Options) (removed int, failed int) {
	for _, entry := range plan.Entries {
		if opts.DryRun {
			removed++
			continue
		}
		var err error
		if entry.IsDir {
			err = os.RemoveAll(entry.Path)
		} else {
			err = os.Remove(entry.Path)
		}
		if err != nil {
			slog.Warn("failed to remove", logfields.Path(entry.Path), logfields.Error(err))
			failed++
			continue
		}
		removed++
	}
	return removed, failed
}

func isAuxFile(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range auxSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, infoErr := d.Info(); infoErr == nil {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// FormatSize renders a byte count for humans.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
