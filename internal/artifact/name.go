// Package artifact persists frame tables as Arrow IPC files and implements
// the artifact naming convention <analysis-id>-<category>-<tag><ext>.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultExt is the file extension of tabular artifacts.
const DefaultExt = ".arrow"

// Name is a parsed artifact file name.
type Name struct {
	AnalysisID string
	Category   string
	Tag        string
	Ext        string
}

func (n Name) String() string {
	return fmt.Sprintf("%s-%s-%s%s", n.AnalysisID, n.Category, n.Tag, n.Ext)
}

// ParseName parses the base name of path, which must end in -<tag><ext>.
func ParseName(path, tag string) (Name, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	suffix := "-" + tag
	if tag == "" || !strings.HasSuffix(stem, suffix) {
		return Name{}, fmt.Errorf("artifact name %q does not end in tag %q", base, tag)
	}
	rest := strings.TrimSuffix(stem, suffix)

	analysisID, category, ok := strings.Cut(rest, "-")
	if !ok || analysisID == "" || category == "" {
		return Name{}, fmt.Errorf("artifact name %q is not <analysis-id>-<category>-<tag>%s", base, ext)
	}

	return Name{AnalysisID: analysisID, Category: category, Tag: tag, Ext: ext}, nil
}

// SwapTag replaces the trailing -<from> tag segment of path's base name with
// -<to>. Everything else in path is preserved exactly.
func SwapTag(path, from, to string) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	suffix := "-" + from
	if from == "" || !strings.HasSuffix(stem, suffix) {
		return "", fmt.Errorf("artifact name %q does not end in tag %q", base, from)
	}

	swapped := strings.TrimSuffix(stem, suffix) + "-" + to + ext
	return path[:len(path)-len(base)] + swapped, nil
}

// PathFor returns the artifact path in outDir for a source or intermediate
// file, swapping its extension for ext.
func PathFor(outDir, source, ext string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+ext)
}
