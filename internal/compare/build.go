package compare

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/simregress/internal/artifact"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/frame"
)

// Lister discovers artifacts carrying a tag.
type Lister interface {
	List(dir, tag, ext string) ([]string, error)
}

// Loader reads one artifact. An error matching fs.ErrNotExist means the
// artifact is absent.
type Loader interface {
	Load(path string) (*frame.Table, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (*frame.Table, error)

func (f LoaderFunc) Load(path string) (*frame.Table, error) { return f(path) }

// DirLister walks a directory tree for files named *-<tag><ext>.
type DirLister struct{}

func (DirLister) List(dir, tag, ext string) ([]string, error) {
	suffix := "-" + tag + ext
	var matches []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.MissingInput(dir, "artifact directory does not exist")
		}
		return nil, errors.Wrap(err, "scan artifact directory")
	}

	sort.Strings(matches)
	return matches, nil
}

// ArtifactLoader reads Arrow artifacts from disk.
var ArtifactLoader = LoaderFunc(artifact.Read)

// BuildOptions selects the two artifact sets.
type BuildOptions struct {
	Dir          string   // Directory searched recursively
	BaselineTag  string   // Tag of the reference artifacts
	CandidateTag string   // Tag substituted to find counterparts
	Ext          string   // Artifact extension, with leading dot
	Categories   []string // Accepted categories; empty accepts all
}

// Sets holds both sides of a comparison.
type Sets struct {
	Baseline  FrameSet
	Candidate FrameSet
	Paths     map[Key]string // Baseline artifact path per key
}

// Build discovers baseline artifacts, derives each counterpart path by
// swapping the tag, and loads both sides eagerly.
func Build(opts BuildOptions, lister Lister, loader Loader, log zerolog.Logger) (*Sets, error) {
	if opts.Ext == "" {
		opts.Ext = artifact.DefaultExt
	}
	if opts.BaselineTag == "" || opts.CandidateTag == "" {
		return nil, errors.Config("baseline and candidate tags must both be set")
	}
	if opts.BaselineTag == opts.CandidateTag {
		return nil, errors.Configf("baseline and candidate tags are both %q", opts.BaselineTag)
	}

	log.Info().Str("dir", opts.Dir).Str("tag", opts.BaselineTag).Msg("searching for baseline artifacts")
	paths, err := lister.List(opts.Dir, opts.BaselineTag, opts.Ext)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		log.Error().Str("dir", opts.Dir).Str("tag", opts.BaselineTag).Msg("no baseline artifacts found")
		return nil, errors.MissingInput(opts.Dir, "no baseline artifacts found for tag "+opts.BaselineTag)
	}

	sets := &Sets{
		Baseline:  make(FrameSet),
		Candidate: make(FrameSet),
		Paths:     make(map[Key]string),
	}
	for _, path := range paths {
		name, err := artifact.ParseName(path, opts.BaselineTag)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping artifact with unexpected name")
			continue
		}
		key := Key{Category: name.Category, AnalysisID: name.AnalysisID}
		if len(opts.Categories) > 0 && !contains(opts.Categories, key.Category) {
			log.Warn().Str("path", path).Str("category", key.Category).Msg("skipping artifact with unknown category")
			continue
		}
		if prev, dup := sets.Paths[key]; dup {
			return nil, errors.Configf("artifacts %s and %s share key %s", prev, path, key)
		}

		base, err := loader.Load(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to load baseline artifact")
			return nil, errors.Wrap(err, "load baseline "+path)
		}
		sets.Baseline.Put(key, base)
		sets.Paths[key] = path

		counterpart, err := artifact.SwapTag(path, opts.BaselineTag, opts.CandidateTag)
		if err != nil {
			return nil, errors.Wrap(err, "derive candidate path")
		}
		cand, err := loader.Load(counterpart)
		switch {
		case err == nil:
			sets.Candidate.Put(key, cand)
			log.Debug().Str("baseline", path).Str("candidate", counterpart).Msg("loaded artifact pair")
		case stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err):
			log.Warn().Str("candidate", counterpart).Msg("candidate artifact not found")
		default:
			log.Error().Err(err).Str("path", counterpart).Msg("failed to load candidate artifact")
			return nil, errors.Wrap(err, "load candidate "+counterpart)
		}
	}

	if sets.Baseline.Len() == 0 {
		log.Error().Str("dir", opts.Dir).Str("tag", opts.BaselineTag).Msg("no usable baseline artifacts found")
		return nil, errors.MissingInput(opts.Dir, "no usable baseline artifacts found for tag "+opts.BaselineTag)
	}

	log.Info().Int("baseline", sets.Baseline.Len()).Int("candidate", sets.Candidate.Len()).Msg("artifacts loaded")
	return sets, nil
}
