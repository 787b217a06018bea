package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Neumenon/toon/bsonbridge"
	"github.com/Neumenon/toon/toon"
)

func (a *app) decodeCmd() *cobra.Command {
	var (
		to       string
		output   string
		compress string
		indent   int
		strict   bool
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert TOON to JSON, Extended JSON or BSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			zr, err := decompressReader(in, compress)
			if err != nil {
				return err
			}
			defer zr.Close()

			v, err := toon.DecodeReader(zr, toon.DecodeOptions{Indent: indent, Strict: strict})
			if err != nil {
				return err
			}

			out, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeInto(out, &err)

			if err := writeTarget(out, v, to, pretty); err != nil {
				return err
			}
			a.log.Debug("decoded",
				zap.String("to", to),
				zap.Stringer("root", v.Kind()),
				zap.Bool("strict", strict),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "json", "output format: json, extjson or bson")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&compress, "compress", "auto", "input compression: none, gzip, zstd or auto")
	cmd.Flags().IntVar(&indent, "indent", a.cfg.Indent, "spaces per indentation level")
	cmd.Flags().BoolVar(&strict, "strict", a.cfg.Strict, "reject array length mismatches")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

// writeTarget renders v in the named format.
func writeTarget(w io.Writer, v *toon.Value, format string, pretty bool) error {
	var data []byte
	var err error
	switch format {
	case "bson":
		return bsonbridge.WriteDocuments(w, v)
	case "json":
		data, err = toon.ToJSON(v)
		if err == nil && pretty {
			var buf bytes.Buffer
			if err = json.Indent(&buf, data, "", "  "); err == nil {
				data = buf.Bytes()
			}
		}
	case "extjson":
		data, err = bsonbridge.ToExtJSON(v)
	default:
		return fmt.Errorf("unknown output format %q (want json, extjson or bson)", format)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
