package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/statforge/metakit/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("metakit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
metakit - a pluggable meta-analysis method framework.

Usage:
  metakit [options] [RUN_PATH]

Arguments:
  RUN_PATH
    Path to a .hcl run file declaring a dataset and the analyses to execute.

Options:
`)
		flagSet.PrintDefaults()
	}

	listFlag := flagSet.String("list", "", "List the methods registered for a data category and exit.")
	methodsPathFlag := flagSet.String("methods-path", "methods", "Path to the directory containing method manifests.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && *listFlag == "" {
		slog.Debug("No run path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := &app.Config{
		RunPath:      path,
		MethodsPath:  *methodsPathFlag,
		ListCategory: *listFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	}
	return cfg, false, nil
}
