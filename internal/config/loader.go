package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/mlfs/internal/environ"
)

// Option configures the behaviour of NewLoader.
type Option func(*Loader)

// WithEnvironment replaces the process environment as the source read from and mirrored into.
func WithEnvironment(env environ.Environment) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithDefinitionsFile sets the definitions file path. An empty path disables the file.
func WithDefinitionsFile(path string) Option {
	return func(l *Loader) {
		l.definitionsFile = path
	}
}

// WithInstallDir overrides the default of MLFS_DIR.
func WithInstallDir(dir string) Option {
	return func(l *Loader) {
		l.installDir = dir
	}
}

// WithLogger sets the logger used for the load notice.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStrictValidation makes loading fail when Validate reports out-of-range values.
func WithStrictValidation(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// Loader resolves Settings from overrides, the environment, the definitions
// file and defaults, in that order of precedence.
type Loader struct {
	env             environ.Environment
	definitionsFile string
	installDir      string
	logger          *zap.Logger
	strict          bool
}

// NewLoader creates a Loader reading the process environment and ./.env.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		env:             environ.Process{},
		definitionsFile: DefaultDefinitionsFile,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.installDir == "" {
		l.installDir = DefaultInstallDir()
	}
	return l
}

// Result is a resolved Settings together with where each field came from.
type Result struct {
	Settings Settings
	// Sources maps every declared field name to the layer that supplied it.
	Sources map[string]Source
	// DefinitionsFile is the path that was read, empty when none was found.
	DefinitionsFile string
}

// Load resolves Settings from the process environment and ./.env, then mirrors credentials.
func Load(overrides Overrides, opts ...Option) (Settings, error) {
	return NewLoader(opts...).Load(overrides)
}

// Load resolves Settings and then mirrors the Hopsworks credentials into the
// environment. A failed load returns the zero Settings.
func (l *Loader) Load(overrides Overrides) (Settings, error) {
	res, err := l.Resolve(overrides)
	if err != nil {
		return Settings{}, err
	}

	mirrored, err := MirrorEnvironment(l.env, res.Settings)
	if err != nil {
		return Settings{}, fmt.Errorf("mirror environment: %w", err)
	}

	l.logger.Info("settings loaded",
		zap.String("definitions_file", res.DefinitionsFile),
		zap.Int("overrides", countSource(res.Sources, SourceOverride)),
		zap.Int("from_environment", countSource(res.Sources, SourceEnvironment)),
		zap.Int("from_definitions_file", countSource(res.Sources, SourceDefinitionsFile)),
		zap.Strings("mirrored", mirrored),
	)
	return res.Settings, nil
}

// Resolve builds Settings without touching the environment. Each field is
// resolved independently; the first coercion failure aborts the whole resolution.
func (l *Loader) Resolve(overrides Overrides) (Result, error) {
	defs, found, err := readDefinitions(l.definitionsFile)
	if err != nil {
		return Result{}, err
	}

	for name := range overrides {
		if !IsField(name) {
			l.logger.Warn("ignoring unknown override", zap.String("name", name))
		}
	}

	settings := Defaults(l.installDir)
	sources := make(map[string]Source, len(fields))
	for _, f := range fields {
		raw, src, ok := l.lookup(f.name, overrides, defs)
		if !ok {
			sources[f.name] = SourceDefault
			continue
		}
		if err := f.set(&settings, raw); err != nil {
			return Result{}, newFieldError(f, src, raw, err)
		}
		sources[f.name] = src
	}

	if l.strict {
		if err := settings.Validate(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Settings: settings, Sources: sources}
	if found {
		res.DefinitionsFile = l.definitionsFile
	}
	return res, nil
}

// lookup walks the precedence chain for one field. A variable or file entry
// that is present supplies the field even when its value is empty.
func (l *Loader) lookup(name string, overrides Overrides, defs map[string]string) (any, Source, bool) {
	if raw, ok := overrides[name]; ok {
		return raw, SourceOverride, true
	}
	if raw, ok := l.env.Lookup(name); ok {
		return raw, SourceEnvironment, true
	}
	if raw, ok := defs[name]; ok {
		return raw, SourceDefinitionsFile, true
	}
	return nil, SourceDefault, false
}

func countSource(sources map[string]Source, want Source) int {
	n := 0
	for _, src := range sources {
		if src == want {
			n++
		}
	}
	return n
}
