package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/mlfs/internal/application"
	"github.com/eugenenazirov/mlfs/internal/config"
	"github.com/eugenenazirov/mlfs/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("mlfs-settings", "Resolve and inspect MLFS pipeline settings")
	kingpinApp.UsageWriter(stdout).ErrorWriter(stderr)
	kingpinApp.Terminate(nil)

	definitions := kingpinApp.Flag("definitions", "Path to the definitions file (.env or .yaml); empty to disable").
		Default(config.DefaultDefinitionsFile).String()
	overrides := kingpinApp.Flag("set", "Override a setting, KEY=VALUE (repeatable)").Short('s').StringMap()

	showCmd := kingpinApp.Command("show", "Print the resolved settings with secrets masked")
	format := showCmd.Flag("format", "Output format").Default(application.FormatEnv).Enum(application.Formats...)
	withSources := showCmd.Flag("sources", "Include the source of each value").Bool()

	checkCmd := kingpinApp.Command("check", "Resolve the settings and validate value ranges")

	execCmd := kingpinApp.Command("exec", "Mirror Hopsworks credentials into the environment and run a command")
	execArgs := execCmd.Arg("command", "Command and arguments to run").Required().Strings()

	command, err := kingpinApp.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "mlfs-settings: %v\n", err)
		return 2
	}

	logOpts, err := logging.LoadOptions()
	if err != nil {
		fmt.Fprintf(stderr, "mlfs-settings: %v\n", err)
		return 2
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(stderr, "mlfs-settings: failed to initialize logger: %v\n", err)
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(application.Config{
		DefinitionsFile: *definitions,
		Overrides:       *overrides,
		Stdout:          stdout,
		Stderr:          stderr,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}

	switch command {
	case showCmd.FullCommand():
		err = app.Show(*format, *withSources)
	case checkCmd.FullCommand():
		err = app.Check()
	case execCmd.FullCommand():
		return execute(app, *execArgs, logger)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		return 1
	}
	return 0
}

func execute(app *application.App, argv []string, logger *zap.Logger) int {
	sigs := make(chan os.Signal, 1)
	signalNotify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	code, err := app.Exec(context.Background(), argv, sigs)
	if err != nil {
		if errors.Is(err, application.ErrNoCommand) {
			logger.Error("nothing to execute")
		} else {
			logger.Error("exec failed", zap.Error(err))
		}
		return 1
	}
	return code
}
