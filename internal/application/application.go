package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/mlfs/internal/config"
	"github.com/eugenenazirov/mlfs/internal/environ"
)

// Output formats accepted by Show.
const (
	FormatEnv  = "env"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted Show formats.
var Formats = []string{FormatEnv, FormatJSON, FormatYAML}

// ErrNoCommand is returned by Exec when no command is given.
var ErrNoCommand = errors.New("no command to execute")

// Config holds the inputs shared by every command.
type Config struct {
	DefinitionsFile string
	Overrides       map[string]string
	// Environment defaults to the process environment.
	Environment environ.Environment
	Stdout      io.Writer
	Stderr      io.Writer
}

// App encapsulates the loader, logger and output streams.
type App struct {
	cfg    Config
	env    environ.Environment
	logger *zap.Logger
}

// New initializes the application from the provided configuration.
func New(cfg Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	env := cfg.Environment
	if env == nil {
		env = environ.Process{}
	}

	return &App{cfg: cfg, env: env, logger: logger}, nil
}

func (a *App) loader(strict bool) *config.Loader {
	return config.NewLoader(
		config.WithEnvironment(a.env),
		config.WithDefinitionsFile(a.cfg.DefinitionsFile),
		config.WithLogger(a.logger),
		config.WithStrictValidation(strict),
	)
}

func (a *App) overrides() config.Overrides {
	out := make(config.Overrides, len(a.cfg.Overrides))
	for name, value := range a.cfg.Overrides {
		out[name] = value
	}
	return out
}

// Show resolves the settings, without mirroring, and prints them masked in declaration order.
func (a *App) Show(format string, withSources bool) error {
	res, err := a.loader(false).Resolve(a.overrides())
	if err != nil {
		return fmt.Errorf("resolve settings: %w", err)
	}

	switch format {
	case FormatEnv, "":
		return writeEnv(a.cfg.Stdout, res, withSources)
	case FormatJSON:
		return writeJSON(a.cfg.Stdout, res, withSources)
	case FormatYAML:
		return writeYAML(a.cfg.Stdout, res, withSources)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Check loads the settings with range validation enabled.
func (a *App) Check() error {
	if _, err := a.loader(true).Resolve(a.overrides()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.cfg.Stdout, "settings OK")
	return err
}

// Exec loads the settings, mirroring credentials into the environment, then
// runs argv with that environment. Signals received on sigs are forwarded to
// the child. The child's exit code is returned.
func (a *App) Exec(ctx context.Context, argv []string, sigs <-chan os.Signal) (int, error) {
	if len(argv) == 0 {
		return 0, ErrNoCommand
	}
	if _, err := a.loader(false).Load(a.overrides()); err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.cfg.Stdout
	cmd.Stderr = a.cfg.Stderr
	if lister, ok := a.env.(interface{ Environ() []string }); ok {
		cmd.Env = lister.Environ()
	}

	a.logger.Info("running command", zap.String("command", argv[0]))
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", argv[0], err)
	}

	done := make(chan struct{})
	defer close(done)
	go forwardSignals(cmd.Process, sigs, done, a.logger)

	err := cmd.Wait()
	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		code = 1
	}
	a.logger.Info("command exited", zap.String("command", argv[0]), zap.Int("exit_code", code))

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return code, fmt.Errorf("wait %s: %w", argv[0], err)
	}
	return code, nil
}

func forwardSignals(proc *os.Process, sigs <-chan os.Signal, done <-chan struct{}, logger *zap.Logger) {
	for {
		select {
		case <-done:
			return
		case sig, ok := <-sigs:
			if !ok {
				return
			}
			logger.Info("forwarding signal", zap.String("signal", sig.String()))
			if err := proc.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Warn("signal forwarding failed", zap.Error(err))
			}
		}
	}
}

type fieldView struct {
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

func writeEnv(w io.Writer, res config.Result, withSources bool) error {
	for _, f := range res.Settings.Fields() {
		line := f.Name + "=" + f.Value
		if withSources {
			line += " # " + res.Sources[f.Name].String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, res config.Result, withSources bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if withSources {
		out := make(map[string]fieldView)
		for _, f := range res.Settings.Fields() {
			out[f.Name] = fieldView{Value: f.Value, Source: res.Sources[f.Name].String()}
		}
		return enc.Encode(out)
	}

	out := make(map[string]string)
	for _, f := range res.Settings.Fields() {
		out[f.Name] = f.Value
	}
	return enc.Encode(out)
}

// writeYAML builds the document as a node tree so keys keep declaration order.
func writeYAML(w io.Writer, res config.Result, withSources bool) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range res.Settings.Fields() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}
		value := &yaml.Node{}
		if withSources {
			if err := value.Encode(fieldView{Value: f.Value, Source: res.Sources[f.Name].String()}); err != nil {
				return err
			}
		} else {
			value.Kind = yaml.ScalarNode
			value.Tag = "!!str"
			value.Value = f.Value
		}
		doc.Content = append(doc.Content, key, value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
