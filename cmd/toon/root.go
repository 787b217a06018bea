package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Neumenon/toon/toon"
)

// Config holds CLI defaults. Every field can be set from the environment.
type Config struct {
	Delimiter    string `env:"TOON_DELIMITER,default=comma"`
	Indent       int    `env:"TOON_INDENT,default=2"`
	LengthMarker string `env:"TOON_LENGTH_MARKER"`
	Strict       bool   `env:"TOON_STRICT,default=true"`
	Compress     string `env:"TOON_COMPRESS,default=none"`
}

func defaultConfig() Config {
	return Config{Delimiter: "comma", Indent: toon.DefaultIndent, Strict: true, Compress: "none"}
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	return cfg, nil
}

// app carries state shared by all subcommands.
type app struct {
	cfg     Config
	verbose bool
	log     *zap.Logger
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{cfg: cfg, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "toon",
		Short: "Convert between JSON, BSON and TOON",
		Long: `toon - Token-Oriented Object Notation codec

TOON is an indentation-based text format for structured data that spends
fewer tokens than JSON on uniform arrays of objects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(a.encodeCmd())
	root.AddCommand(a.decodeCmd())
	root.AddCommand(a.statsCmd())
	root.AddCommand(versionCmd())
	return root
}

// execute runs the command tree and reports a failure on stderr.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "toon: %v\n", err)
	}
	return err
}

// newLogger returns a JSON logger at info level, or a console logger at
// debug level when verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// ============================================================
// Shared flag handling
// ============================================================

type encodeFlags struct {
	delimiter string
	indent    int
	marker    string
}

func (a *app) bindEncodeFlags(cmd *cobra.Command, f *encodeFlags) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", a.cfg.Delimiter, "array delimiter: comma, tab or pipe")
	cmd.Flags().IntVar(&f.indent, "indent", a.cfg.Indent, "spaces per indentation level")
	cmd.Flags().StringVar(&f.marker, "length-marker", a.cfg.LengthMarker, "character written before array lengths, e.g. #")
}

func (f encodeFlags) options() (toon.EncodeOptions, error) {
	d, err := toon.ParseDelimiter(f.delimiter)
	if err != nil {
		return toon.EncodeOptions{}, err
	}
	opts := toon.EncodeOptions{Delimiter: d, Indent: f.indent}
	if f.marker != "" {
		r, size := utf8.DecodeRuneInString(f.marker)
		if size != len(f.marker) {
			return toon.EncodeOptions{}, fmt.Errorf("length marker must be a single character, got %q", f.marker)
		}
		opts.LengthMarker = r
	}
	return opts, nil
}

// openInput returns stdin when args is empty or "-", else the named file.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// openOutput returns stdout when path is empty or "-", else a new file.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// closeInto closes c and stores its error in *errp unless an earlier error
// is already there.
func closeInto(c io.Closer, errp *error) {
	if err := c.Close(); err != nil && *errp == nil {
		*errp = fmt.Errorf("close output: %w", err)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
