package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Neumenon/toon/bsonbridge"
	"github.com/Neumenon/toon/toon"
)

func (a *app) encodeCmd() *cobra.Command {
	var (
		ef       encodeFlags
		from     string
		output   string
		compress string
	)
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert JSON, Extended JSON or BSON to TOON",
		Long: `Convert a document to TOON.

BSON input is read as a stream of concatenated documents (mongodump output)
and encoded as one array, so uniform collections come out tabular.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opts, err := ef.options()
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			v, err := readSource(in, from)
			if err != nil {
				return err
			}

			out, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeInto(out, &err)

			cw, err := compressWriter(out, compress)
			if err != nil {
				return err
			}
			if err := toon.EncodeTo(cw, v, opts); err != nil {
				return err
			}
			if _, err := io.WriteString(cw, "\n"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if err := cw.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			a.log.Debug("encoded",
				zap.String("from", from),
				zap.Stringer("root", v.Kind()),
				zap.Stringer("delimiter", opts.Delimiter),
				zap.String("compress", compress),
			)
			return nil
		},
	}
	a.bindEncodeFlags(cmd, &ef)
	cmd.Flags().StringVar(&from, "from", "json", "input format: json, extjson or bson")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&compress, "compress", a.cfg.Compress, "compress output: none, gzip or zstd")
	return cmd
}

// readSource parses the input in the named format.
func readSource(r io.Reader, format string) (*toon.Value, error) {
	if format == "bson" {
		return bsonbridge.ReadDocuments(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	switch format {
	case "json":
		return toon.FromJSON(data)
	case "extjson":
		return bsonbridge.FromExtJSON(data)
	}
	return nil, fmt.Errorf("unknown input format %q (want json, extjson or bson)", format)
}
