package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mcncl/armaconf/internal/analyzer"
	"github.com/mcncl/armaconf/internal/config"
	"github.com/mcncl/armaconf/internal/errors"
	"github.com/mcncl/armaconf/internal/formatter"
	"github.com/mcncl/armaconf/internal/generator"
	"github.com/mcncl/armaconf/internal/parser"
	"github.com/mcncl/armaconf/internal/transcode"
	"github.com/peterh/liner"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input config file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string `help:"Output format: go, json or yaml." short:"f"`
	Package     string `help:"Package name for generated code." short:"p"`
	RootName    string `help:"Name for the root struct." short:"r"`
	Config      string `help:"Path to a config file. Defaults to the nearest .armaconf.yml." short:"c" type:"path"`
	Strict      bool   `help:"Reject classes that repeat a member name."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct config input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("armaconf"),
		kong.Description("Decode Arma config files into JSON, YAML or Go structs"),
		kong.UsageOnError(),
	)

	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("armaconf version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx := &Context{Debug: cfg.Dev.Debug, Config: cfg}
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: armaconf --help\n")
		os.Exit(1)
	}
}

// loadConfig merges the config file, if one is found, with the command line.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.LoadConfigWithCLI(path, config.Overrides{
		Package:  CLI.Package,
		RootName: CLI.RootName,
		Format:   CLI.Format,
		Strict:   CLI.Strict,
		Debug:    CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

func (ctx *Context) logger() *slog.Logger {
	if ctx.Logger != nil {
		return ctx.Logger
	}
	if ctx.Debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	log := ctx.logger()
	start := time.Now()

	text, err := readInput(ctx)
	if err != nil {
		return err
	}
	log.Debug("read input", "input", inputName(), "bytes", len(text))

	var out string
	switch cfg.Output.Format {
	case config.FormatJSON, config.FormatYAML:
		out, err = transcodeDocument(text, cfg)
	default:
		out, err = generateGo(text, cfg, log)
	}
	if err != nil {
		return err
	}

	log.Debug("converted", "format", cfg.Output.Format, "duration", time.Since(start))
	return writeOutput(ctx, out)
}

// transcodeDocument streams the document straight into JSON or YAML.
func transcodeDocument(text string, cfg *config.Config) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	if cfg.Decoding.Strict {
		if _, err := (parser.Options{Strict: true}).ParseString(text); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	var err error
	if cfg.Output.Format == config.FormatYAML {
		err = transcode.YAML(&buf, text, cfg.Output.Indent)
	} else {
		err = transcode.JSON(&buf, text, cfg.Output.Indent)
	}
	if err != nil {
		return "", parser.DecodeError(text, err)
	}
	return buf.String(), nil
}

// generateGo infers Go structs for the document.
func generateGo(text string, cfg *config.Config, log *slog.Logger) (string, error) {
	ir, err := (parser.Options{Strict: cfg.Decoding.Strict}).ParseString(text)
	if err != nil {
		return "", err
	}
	log.Debug("parsed document", "statements", ir.Root.Len())

	analysisResult, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(ir, cfg.RootName)
	if err != nil {
		return "", errors.NewAnalysisError("failed to analyze document structure", err)
	}
	log.Debug("analyzed document", "structs", len(analysisResult.Structs), "imports", len(analysisResult.Imports))

	gen := generator.NewGenerator()
	gen.Header = cfg.Output.FileHeader
	code, err := gen.GenerateStructs(analysisResult, cfg.Package)
	if err != nil {
		return "", errors.NewGenerateError("failed to generate Go structs", err)
	}

	if cfg.Formatting.Enabled {
		code, err = formatter.NewFormatter().Format(code)
		if err != nil {
			return "", errors.NewFormatError("failed to format Go code", err)
		}
	}
	return code, nil
}

func inputName() string {
	if CLI.Input != "" {
		return CLI.Input
	}
	return "stdin"
}

// readInput reads the document from file or stdin
func readInput(ctx *Context) (string, error) {
	if CLI.Input != "" {
		if strings.TrimSpace(CLI.Input) == "" {
			return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
		}
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", CLI.Input), errors.ErrFileNotFound)
			}
			return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Input), err)
		}
		if len(data) == 0 {
			return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", CLI.Input), errors.ErrFileEmpty)
		}
		return string(data), nil
	}

	stdin := ctx.Stdin
	if stdin == nil {
		stdin = os.Stdin
		stdinInfo, err := os.Stdin.Stat()
		if err != nil {
			return "", errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			if CLI.Interactive {
				return readInteractiveInput()
			}
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// writeOutput writes the result to file or stdout
func writeOutput(ctx *Context, out string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(out), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if _, err := fmt.Fprintln(stdout, strings.TrimSpace(out)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users type or paste a document and signal
// completion with Ctrl+D (EOF).
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "armaconf Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your config below and press Ctrl+D when done:")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	text, err := collectLines(ln.Prompt)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr, "\nProcessing config...")
	return text, nil
}

// collectLines calls prompt until EOF and joins the lines it returns.
func collectLines(prompt func(string) (string, error)) (string, error) {
	var b strings.Builder
	for {
		p := "> "
		if b.Len() > 0 {
			p = ". "
		}
		line, err := prompt(p)
		if err == io.EOF {
			break
		}
		if err == liner.ErrPromptAborted {
			return "", errors.NewInputError("input aborted", errors.ErrNoInput)
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return b.String(), nil
}
