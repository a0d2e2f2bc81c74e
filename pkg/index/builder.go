// Package index walks source trees, extracts classes from every recognized
// file, and folds them into a class model.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/py2drawio/pkg/aggregate"
	"github.com/odvcencio/py2drawio/pkg/exclude"
	"github.com/odvcencio/py2drawio/pkg/extract"
	"github.com/odvcencio/py2drawio/pkg/lang"
	"github.com/odvcencio/py2drawio/pkg/lang/treesitter"
	"github.com/odvcencio/py2drawio/pkg/model"
)

const schemaVersion = "0.1.0"

type Builder struct {
	parsers map[string]lang.Parser
	cache   *Cache
	exclude *exclude.Set
}

type BuildStats struct {
	CandidateFiles int `json:"candidate_files"`
	ParsedFiles    int `json:"parsed_files"`
	ReusedFiles    int `json:"reused_files"`
}

// NewBuilder returns a builder with the Python parser registered for .py files.
func NewBuilder() (*Builder, error) {
	parser, err := treesitter.NewPythonParser()
	if err != nil {
		return nil, err
	}
	builder := &Builder{
		parsers: make(map[string]lang.Parser),
	}
	builder.Register(".py", parser)
	return builder, nil
}

func (b *Builder) Register(extension string, parser lang.Parser) {
	if parser == nil {
		return
	}
	normalized := normalizeExtension(extension)
	if normalized == "" {
		return
	}
	b.parsers[normalized] = parser
}

// SetCache lets repeated builds reuse summaries of unchanged files.
func (b *Builder) SetCache(cache *Cache) {
	b.cache = cache
}

// SetExclude drops matching files and directories from collection. Paths are
// matched relative to the build root.
func (b *Builder) SetExclude(set *exclude.Set) {
	b.exclude = set
}

func normalizeExtension(extension string) string {
	normalized := strings.TrimSpace(extension)
	if normalized == "" {
		return ""
	}
	if normalized[0] != '.' {
		normalized = "." + normalized
	}
	return normalized
}

func (b *Builder) BuildPath(path string) (*model.Index, error) {
	idx, _, err := b.BuildPathWithStats(path)
	return idx, err
}

// BuildPathWithStats processes every candidate file under path in traversal
// order, one file at a time. The first read or parse failure aborts the
// build.
func (b *Builder) BuildPathWithStats(path string) (*model.Index, BuildStats, error) {
	stats := BuildStats{}

	if strings.TrimSpace(path) == "" {
		return nil, stats, errors.New("root path is empty")
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return nil, stats, err
	}
	target = filepath.Clean(target)

	info, err := os.Stat(target)
	if err != nil {
		return nil, stats, err
	}

	root := target
	candidates := make([]sourceCandidate, 0, 128)
	if info.IsDir() {
		candidates, err = b.collectCandidates(target)
		if err != nil {
			return nil, stats, err
		}
	} else {
		root = filepath.Dir(target)
		if parser, ok := b.parserForPath(target); ok {
			candidates = append(candidates, sourceCandidate{
				Path:            target,
				Parser:          parser,
				SizeBytes:       info.Size(),
				ModTimeUnixNano: info.ModTime().UnixNano(),
			})
		}
	}

	index := &model.Index{
		Version: schemaVersion,
		Root:    root,
		Files:   make([]model.FileSummary, 0, len(candidates)),
	}

	for _, candidate := range candidates {
		stats.CandidateFiles++

		relPath, relErr := filepath.Rel(root, candidate.Path)
		if relErr != nil {
			relPath = candidate.Path
		}
		relPath = filepath.ToSlash(relPath)

		summary, reused, err := b.summarize(candidate, relPath)
		if err != nil {
			return nil, stats, err
		}
		if reused {
			stats.ReusedFiles++
		} else {
			stats.ParsedFiles++
		}

		index.Files = append(index.Files, summary)
	}

	index.Classes = aggregate.Files(index.Files)
	return index, stats, nil
}

func (b *Builder) summarize(candidate sourceCandidate, relPath string) (model.FileSummary, bool, error) {
	if cached, ok := b.cache.lookup(candidate); ok {
		cached.Path = relPath
		return cached, true, nil
	}

	source, err := os.ReadFile(candidate.Path)
	if err != nil {
		return model.FileSummary{}, false, err
	}

	module, err := candidate.Parser.Parse(relPath, source)
	if err != nil {
		return model.FileSummary{}, false, err
	}

	summary := model.FileSummary{
		Path:            relPath,
		Language:        candidate.Parser.Language(),
		SizeBytes:       candidate.SizeBytes,
		ModTimeUnixNano: candidate.ModTimeUnixNano,
		Classes:         extract.File(module),
	}
	b.cache.store(candidate.Path, summary)
	return summary, false, nil
}

type sourceCandidate struct {
	Path            string
	Parser          lang.Parser
	SizeBytes       int64
	ModTimeUnixNano int64
}

func (b *Builder) parserForPath(path string) (lang.Parser, bool) {
	parser, ok := b.parsers[filepath.Ext(path)]
	return parser, ok
}

func (b *Builder) ParserForPath(path string) (lang.Parser, bool) {
	return b.parserForPath(path)
}

// collectCandidates lists files in filepath.WalkDir order. Every directory
// is descended unless excluded; only the file extension decides whether a
// file is a source unit.
func (b *Builder) collectCandidates(root string) ([]sourceCandidate, error) {
	files := make([]sourceCandidate, 0, 128)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if b.exclude.Len() > 0 && path != root {
			if relPath, relErr := filepath.Rel(root, path); relErr == nil && b.exclude.Excluded(filepath.ToSlash(relPath), entry.IsDir()) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if entry.IsDir() {
			return nil
		}

		parser, ok := b.parserForPath(path)
		if !ok {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, sourceCandidate{
			Path:            path,
			Parser:          parser,
			SizeBytes:       info.Size(),
			ModTimeUnixNano: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
