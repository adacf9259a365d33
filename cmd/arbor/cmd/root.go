// Package cmd implements the arbor CLI commands.
//
// The root command dispatches to subcommands (layout, check) after reading
// global flags and the optional project configuration.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/arbor/cmd/arbor/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Output streams, replaced by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Session carries what every command needs once global flags are applied.
type Session struct {
	Config *config.Config
	Logger zerolog.Logger
}

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(s *Session, args []string) error
}

var rootCmd = &Command{
	Name:  "arbor",
	Short: "arbor - reconcile and lay out declarative UI trees",
	Long: `arbor reconciles declarative configuration trees into a persistent
instance tree and lays out the resulting render tree.

Scenes are YAML or TOML files naming the built-in kinds (row, column,
stack, positioned, expanded, sized_box, padding, text, center).

Use "arbor <command> --help" for more information about a command.`,
	Usage: "arbor [--config FILE] [--log-level LEVEL] <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	commandList []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	commandList = append(commandList, cmd)
}

// Execute runs the CLI with the given arguments, not including the program
// name.
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp()
		return nil
	}

	var configPath, logLevel string
	var filtered []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help" || arg == "help":
			if len(filtered) == 0 {
				printHelp()
				return nil
			}
			filtered = append(filtered, arg)
		case arg == "-v" || arg == "--version" || arg == "version":
			if len(filtered) == 0 {
				fmt.Fprintf(stdout, "arbor version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filtered = append(filtered, arg)
		case len(filtered) == 0 && (arg == "--config" || arg == "--log-level"):
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			if arg == "--config" {
				configPath = args[i+1]
			} else {
				logLevel = args[i+1]
			}
			i++
		case len(filtered) == 0 && strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case len(filtered) == 0 && strings.HasPrefix(arg, "--log-level="):
			logLevel = strings.TrimPrefix(arg, "--log-level=")
		default:
			filtered = append(filtered, arg)
		}
	}
	args = filtered

	if len(args) == 0 {
		printHelp()
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp()
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	s, err := newSession(configPath, logLevel)
	if err != nil {
		return err
	}
	return cmd.Run(s, cmdArgs)
}

func newSession(configPath, logLevel string) (*Session, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if logLevel != "" {
		level, err = zerolog.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return &Session{Config: cfg, Logger: newLogger(stderr, level)}, nil
}

// newLogger writes human-readable log lines to w.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "arbor").Logger()
}

func printHelp() {
	fmt.Fprintln(stdout, rootCmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range commandList {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintf(stdout, "  %-14s %s\n", "version", "Show version information")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  --config FILE        Read configuration from FILE (default: ./arbor.yaml or ./arbor.toml)")
	fmt.Fprintln(stdout, "  --log-level LEVEL    Override engine.log_level")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  arbor layout scene.yaml                 Print the resolved geometry")
	fmt.Fprintln(stdout, "  arbor layout --width 640 scene.toml     Lay out against a 640px wide surface")
	fmt.Fprintln(stdout, "  arbor check scene.yaml                  Validate a scene without laying it out")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
