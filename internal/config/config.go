package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"pseudo/internal/analysis"
	"pseudo/internal/keywords"
	"pseudo/internal/snippets"
	"pseudo/internal/trace"
)

// FileName is the project configuration file looked up from the working
// directory towards the filesystem root.
const FileName = "pseudo.toml"

var (
	ErrUnknownConcept = errors.New("unknown keyword concept")
	ErrUnknownKey     = errors.New("unknown configuration key")
)

// Config is the decoded pseudo.toml. The zero value means "all defaults".
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`

	// Keywords maps a concept name (see keywords.Concept.String) to extra
	// surfaces appended to the built-in ones.
	Keywords    map[string][]string `toml:"keywords"`
	Snippets    SnippetsConfig      `toml:"snippets"`
	Diagnostics DiagnosticsConfig   `toml:"diagnostics"`
	LSP         LSPConfig           `toml:"lsp"`
	Trace       TraceConfig         `toml:"trace"`
}

type SnippetsConfig struct {
	Files []string `toml:"files"` // relative to the config file
	// NoDefaults drops the built-in library.
	NoDefaults bool `toml:"no_defaults"`
}

type DiagnosticsConfig struct {
	Max         int  `toml:"max"`
	MaxFindings uint `toml:"max_findings"`
}

type LSPConfig struct {
	Debounce        Duration `toml:"debounce"`
	CompletionLimit int      `toml:"completion_limit"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// Duration decodes "150ms"-style strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: negative", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Find walks up from startDir and returns the first pseudo.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path. Keys the decoder does not know are rejected.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if cfg.Diagnostics.Max < 0 {
		return nil, fmt.Errorf("%s: [diagnostics].max must not be negative", path)
	}
	if cfg.LSP.CompletionLimit < 0 {
		return nil, fmt.Errorf("%s: [lsp].completion_limit must not be negative", path)
	}
	if cfg.Trace.Level != "" {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return nil, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	cfg.Path = path
	return &cfg, nil
}

// Discover finds and loads the nearest pseudo.toml. Without one it returns
// an empty Config.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Config{}, nil
	}
	return Load(path)
}

// Dir is the directory relative paths in the config resolve against.
func (c *Config) Dir() string {
	if c == nil || c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// Registry extends base with the [keywords] synonyms.
func (c *Config) Registry(base *keywords.Registry) (*keywords.Registry, error) {
	if base == nil {
		base = keywords.Default()
	}
	if c == nil || len(c.Keywords) == 0 {
		return base, nil
	}
	names := make([]string, 0, len(c.Keywords))
	for name := range c.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	extra := make(map[keywords.Concept][]string, len(names))
	for _, name := range names {
		concept, ok := keywords.ParseConcept(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("[keywords].%s: %w", name, ErrUnknownConcept)
		}
		for _, s := range c.Keywords[name] {
			if s = strings.TrimSpace(s); s != "" {
				extra[concept] = append(extra[concept], s)
			}
		}
	}
	reg, err := base.Extend(extra)
	if err != nil {
		return nil, fmt.Errorf("[keywords]: %w", err)
	}
	return reg, nil
}

// Library loads the [snippets] files on top of base.
func (c *Config) Library(base *snippets.Library) (*snippets.Library, error) {
	if base == nil {
		base = snippets.Default()
	}
	if c == nil {
		return base, nil
	}
	lib := base
	if c.Snippets.NoDefaults {
		lib = &snippets.Library{}
	}
	for _, file := range c.Snippets.Files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Dir(), path)
		}
		extra, err := snippets.Load(path)
		if err != nil {
			return nil, fmt.Errorf("[snippets]: %w", err)
		}
		lib = lib.Merge(extra)
	}
	return lib, nil
}

// AnalysisOptions builds the process-wide analysis options.
func (c *Config) AnalysisOptions() (analysis.Options, error) {
	reg, err := c.Registry(nil)
	if err != nil {
		return analysis.Options{}, err
	}
	lib, err := c.Library(nil)
	if err != nil {
		return analysis.Options{}, err
	}
	opts := analysis.Options{Registry: reg, Snippets: lib}
	if c != nil {
		opts.MaxFindings = c.Diagnostics.MaxFindings
		opts.CompletionLimit = c.LSP.CompletionLimit
	}
	return opts, nil
}
