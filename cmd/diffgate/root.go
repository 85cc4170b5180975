package diffgate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varalys/diffgate/internal/config"
	"github.com/varalys/diffgate/internal/logging"
)

var version = "0.1.0"

const (
	envPrefix        = "DIFFGATE"
	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// app holds the streams, persistent flags and loaded configuration shared by
// every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// stdinIsTerminal reports whether stdin is interactive.
	stdinIsTerminal func() bool

	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	global config.FileConfig
	local  config.FileConfig
	log    *zap.Logger
}

// exitError carries a non-zero exit status without the "error:" prefix.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:           stdin,
		stdout:          stdout,
		stderr:          stderr,
		stdinIsTerminal: func() bool { return isTerminal(stdin) },
		log:             logging.Nop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "diffgate",
		Short:             "Security gate for diffs and commit messages",
		Long:              "diffgate scans the lines a change adds for secrets, PII and insecure settings, fails CI on blocking findings, and scores commit messages.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: .diffgate.yml in the repo, then $XDG_CONFIG_HOME/diffgate/config.yml)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console|structured (default console)")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colorized output")

	root.AddCommand(
		a.scanCmd(),
		a.commitCmd(),
		a.rulesCmd(),
		a.baselineCmd(),
		a.configCmd(),
		a.ciCmd(),
		a.mcpCmd(),
		a.completionCmd(root),
	)
	return root
}

// initialize applies environment overrides, loads config files and builds
// the logger before any subcommand runs.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	if err := applyEnv(cmd.Flags()); err != nil {
		return err
	}
	root := "."
	if f := cmd.Flags().Lookup("path"); f != nil && f.Value.String() != "" {
		root = f.Value.String()
	}
	if err := a.loadConfig(root); err != nil {
		return err
	}
	level := pickString(a.logLevel, a.local.LogLevel, a.global.LogLevel)
	if level == "" {
		level = defaultLogLevel
	}
	format := pickString(a.logFormat, a.local.LogFormat, a.global.LogFormat)
	if format == "" {
		format = defaultLogFormat
	}
	log, err := logging.New(level, format)
	if err != nil {
		return err
	}
	a.log = log.With(zap.String("command", cmd.Name()))
	a.noColor = pickBool(a.noColor, a.local.NoColor, a.global.NoColor)
	return nil
}

// loadConfig reads the global file and the repo-local file found in root,
// which is the subcommand's --path when it has one.
func (a *app) loadConfig(root string) error {
	if a.configPath != "" {
		c, err := config.LoadFile(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		g, err := config.LoadGlobal()
		if err != nil && !errors.Is(err, config.ErrNotFound) && !errors.Is(err, config.ErrNoConfigDir) {
			return fmt.Errorf("load global config: %w", err)
		}
		a.global, a.local = g, c
		return nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	g, l, err := config.LoadLayered(abs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.global, a.local = g, l
	return nil
}

// applyEnv sets every flag the user did not pass from DIFFGATE_<FLAG_NAME>.
func applyEnv(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "help" || f.Name == "version" || !v.IsSet(f.Name) {
			return
		}
		if setErr := fs.Set(f.Name, v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("env %s_%s: %w", envPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), setErr)
		}
	})
	return err
}

func (a *app) sync() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// run executes the CLI with explicit streams and returns the process status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	a.sync()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(stderr, ee.msg)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "error:", err)
	return 2
}

// Execute runs the diffgate CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
