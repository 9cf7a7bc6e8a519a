// Package cli turns command-line arguments and environment defaults into
// an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/modgrid/modgrid/internal/app"
)

// ExitError carries a specific process exit code alongside its message.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// envDefaults are the settings that may come from the environment; flags
// always win over them.
type envDefaults struct {
	SampleRate int    `env:"MODGRID_SAMPLE_RATE" envDefault:"44100"`
	BufferSize int    `env:"MODGRID_BUFFER_SIZE" envDefault:"512"`
	LogLevel   string `env:"MODGRID_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"MODGRID_LOG_FORMAT" envDefault:"text"`
}

// Parse processes arguments into an app.Config. The boolean is true when
// the program should exit cleanly without running (help, no layout).
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}

	flagSet := flag.NewFlagSet("modgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
modgrid - declarative modular audio synthesis.

Usage:
  modgrid [options] [LAYOUT_PATH]

Arguments:
  LAYOUT_PATH
    Path to a layout file (.yaml, .yml or .hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	layoutFlag := flagSet.String("layout", "", "Path to the layout file.")
	lFlag := flagSet.String("l", "", "Path to the layout file (shorthand).")
	durationFlag := flagSet.Int("duration", 1000, "Render/playback duration in milliseconds.")
	rateFlag := flagSet.Int("sample-rate", defaults.SampleRate, "Sample rate in Hz.")
	outFlag := flagSet.String("out", "", "Write the rendered signal to this WAV file.")
	playFlag := flagSet.Bool("play", false, "Play the layout through the default output device.")
	bufferFlag := flagSet.Int("buffer", defaults.BufferSize, "Streaming buffer size in samples.")
	traceFlag := flagSet.Bool("trace-modules", false, "Log every module's computed value (debug).")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Log level: 'debug', 'info', 'warn' or 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *layoutFlag != "":
		path = *layoutFlag
	case *lFlag != "":
		path = *lFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if *durationFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid duration: must be positive"}
	}
	if *rateFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid sample-rate: must be positive"}
	}
	if *bufferFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid buffer: must be positive"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn' or 'error'"}
	}

	return &app.Config{
		LayoutPath:   path,
		SampleRate:   *rateFlag,
		DurationMS:   *durationFlag,
		OutPath:      *outFlag,
		Play:         *playFlag,
		BufferSize:   *bufferFlag,
		TraceModules: *traceFlag,
		LogLevel:     logLevel,
		LogFormat:    logFormat,
	}, false, nil
}
