package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdffill/pdffill/internal/config"
	"github.com/pdffill/pdffill/internal/form"
	"github.com/pdffill/pdffill/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "dump-fields":
		err = runDumpFields(os.Args[2:])
	case "fill":
		err = runFill(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version", "-version", "--version", "-v":
		printVersion(os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pdffill - discover and fill interactive PDF form fields")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  pdffill dump-fields [--format text|json] <input.pdf>")
	fmt.Fprintln(w, "  pdffill fill (-d <data.json|data.yaml|-> | -i <json>) -o <output> [--flatten] <input.pdf>...")
	fmt.Fprintln(w, "  pdffill serve [--dir <path>] [--log-level <level>]")
	fmt.Fprintln(w, "  pdffill version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	fmt.Fprintln(w, "  dump-fields  Print the form field schema of a PDF document")
	fmt.Fprintln(w, "  fill         Fill form fields and write the result to a new document")
	fmt.Fprintln(w, "  serve        Run the MCP stdio server exposing form_schema and form_fill")
	fmt.Fprintln(w, "  version      Print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdffill <command> --help' for command flags.")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pdffill\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}

func newLogger(debug bool) *log.Logger {
	if debug {
		return log.New(os.Stderr, "pdffill: ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func runDumpFields(args []string) error {
	fs := pflag.NewFlagSet("dump-fields", pflag.ExitOnError)
	format := fs.String("format", "text", "Output format: text, json")
	debug := fs.Bool("debug", false, "Log parse diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("dump-fields expects exactly one PDF file argument")
	}

	input := fs.Arg(0)
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("cannot access %s: %w", input, err)
	}

	p := form.Open(input, form.WithLogger(newLogger(*debug)))
	schema := p.Schema()

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	case "text":
		fmt.Print(formatSchemaText(schema))
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", *format)
	}
}

// formatSchemaText renders schema records in the dashed-separator layout of
// classic form dump tools, one block per field.
func formatSchemaText(schema []form.SchemaRecord) string {
	var b strings.Builder
	for _, rec := range schema {
		b.WriteString("----------\n")
		fmt.Fprintf(&b, "FieldName: %s\n", rec.FieldName)
		fmt.Fprintf(&b, "FieldType: %s\n", rec.FieldType)
		if rec.FieldValue != nil {
			fmt.Fprintf(&b, "FieldValue: %v\n", rec.FieldValue)
		}
		for _, opt := range rec.FieldOptions {
			fmt.Fprintf(&b, "FieldOption: %s\n", opt)
		}
		if rec.MaxLength > 0 {
			fmt.Fprintf(&b, "MaxLength: %d\n", rec.MaxLength)
		}
		if rec.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", rec.Description)
		}
	}
	return b.String()
}

func runFill(args []string) error {
	fs := pflag.NewFlagSet("fill", pflag.ExitOnError)
	dataPath := fs.StringP("data", "d", "", "Field data file (.json, .yaml/.yml) or '-' for JSON on stdin")
	inlineData := fs.StringP("input-data", "i", "", "Field data as an inline JSON object")
	output := fs.StringP("output", "o", "", "Output file, or directory when filling multiple inputs")
	flatten := fs.BoolP("flatten", "f", false, "Mark every form field read-only in the output")
	adobe := fs.Bool("adobe", true, "Strip XFA and set NeedAppearances for Adobe viewers")
	jobs := fs.Int("jobs", runtime.NumCPU(), "Concurrent fills when filling multiple inputs")
	debug := fs.Bool("debug", false, "Log fill progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("fill expects at least one PDF file argument")
	}
	if *output == "" {
		return fmt.Errorf("fill requires -o/--output")
	}

	data, err := loadFillData(*dataPath, *inlineData)
	if err != nil {
		return err
	}

	opts := []form.Option{form.WithAdobeMode(*adobe), form.WithLogger(newLogger(*debug))}

	inputs := fs.Args()
	if len(inputs) == 1 {
		out := *output
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, filepath.Base(inputs[0]))
		}
		p := form.Open(inputs[0], opts...)
		if p.Len() == 0 {
			return fmt.Errorf("no form fields found in %s", inputs[0])
		}
		_, err := p.FillFile(inputs[0], out, data, *flatten)
		return err
	}

	// Multiple inputs fan out into the output directory under their own names.
	if info, err := os.Stat(*output); err != nil || !info.IsDir() {
		return fmt.Errorf("output %s must be an existing directory when filling multiple inputs", *output)
	}
	fillJobs := make([]form.FillJob, 0, len(inputs))
	for _, input := range inputs {
		fillJobs = append(fillJobs, form.FillJob{
			Source:  input,
			Output:  filepath.Join(*output, filepath.Base(input)),
			Data:    data,
			Flatten: *flatten,
		})
	}
	return form.FillBatch(context.Background(), fillJobs, *jobs, opts...)
}

// loadFillData resolves the fill data from exactly one of the two sources.
func loadFillData(dataPath, inlineData string) (map[string]any, error) {
	switch {
	case dataPath != "" && inlineData != "":
		return nil, fmt.Errorf("-d/--data and -i/--input-data are mutually exclusive")
	case inlineData != "":
		return form.ParseJSON([]byte(inlineData))
	case dataPath == "-":
		return form.ReadData(os.Stdin)
	case dataPath != "":
		return form.LoadDataFile(dataPath)
	default:
		return nil, fmt.Errorf("fill requires -d/--data or -i/--input-data")
	}
}

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	fs.String("dir", "", "Directory served to MCP clients (default: current directory)")
	fs.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.Int64("max-file-size", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	fs.Bool("adobe", true, "Strip XFA and set NeedAppearances for Adobe viewers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for flagName, key := range map[string]string{
		"dir":           "dir",
		"log-level":     "loglevel",
		"max-file-size": "maxfilesize",
		"adobe":         "adobemode",
	} {
		if f := fs.Lookup(flagName); f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if version != "dev" {
		cfg.Version = version
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// The parent process owns stdin; a signal is the other way out.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
