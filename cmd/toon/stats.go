package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Neumenon/toon/toon"
)

// sizeStats compares one document as minified JSON and as TOON.
type sizeStats struct {
	Name       string
	JSONBytes  int
	TOONBytes  int
	JSONTokens int
	TOONTokens int
}

func (s sizeStats) add(o sizeStats) sizeStats {
	s.JSONBytes += o.JSONBytes
	s.TOONBytes += o.TOONBytes
	s.JSONTokens += o.JSONTokens
	s.TOONTokens += o.TOONTokens
	return s
}

func savedPct(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100.0
}

func (a *app) statsCmd() *cobra.Command {
	var ef encodeFlags
	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Compare JSON and TOON sizes in bytes and estimated tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ef.options()
			if err != nil {
				return err
			}

			var results []sizeStats
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				s, err := measure("stdin", data, opts)
				if err != nil {
					return err
				}
				results = append(results, s)
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				s, err := measure(path, data, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.log.Debug("measured", zap.String("file", path), zap.Int("json_bytes", s.JSONBytes), zap.Int("toon_bytes", s.TOONBytes))
				results = append(results, s)
			}

			writeStats(cmd.OutOrStdout(), results)
			return nil
		},
	}
	a.bindEncodeFlags(cmd, &ef)
	return cmd
}

func measure(name string, data []byte, opts toon.EncodeOptions) (sizeStats, error) {
	v, err := toon.FromJSON(data)
	if err != nil {
		return sizeStats{}, err
	}
	jsonMin, err := toon.ToJSON(v)
	if err != nil {
		return sizeStats{}, err
	}
	text, err := toon.EncodeWithOptions(v, opts)
	if err != nil {
		return sizeStats{}, err
	}
	return sizeStats{
		Name:       name,
		JSONBytes:  len(jsonMin),
		TOONBytes:  len(text),
		JSONTokens: estimateTokens(string(jsonMin)),
		TOONTokens: estimateTokens(text),
	}, nil
}

func writeStats(w io.Writer, results []sizeStats) {
	fmt.Fprintf(w, "%-24s %10s %10s %8s %10s %10s %8s\n", "Case", "JSON B", "TOON B", "Saved", "JSON tok", "TOON tok", "Saved")
	var total sizeStats
	for _, r := range results {
		writeStatsRow(w, r)
		total = total.add(r)
	}
	if len(results) > 1 {
		total.Name = "TOTAL"
		writeStatsRow(w, total)
	}
}

func writeStatsRow(w io.Writer, r sizeStats) {
	fmt.Fprintf(w, "%-24s %10d %10d %7.1f%% %10d %10d %7.1f%%\n",
		r.Name,
		r.JSONBytes, r.TOONBytes, savedPct(r.JSONBytes, r.TOONBytes),
		r.JSONTokens, r.TOONTokens, savedPct(r.JSONTokens, r.TOONTokens),
	)
}

// estimateTokens approximates a BPE token count: structural punctuation is
// one token each, words and numbers take about four bytes per token, and
// whitespace merges into its neighbours.
func estimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}

	tokens := 0
	i := 0
	for i < len(s) {
		c := s[i]

		if isPunctuation(c) {
			tokens++
			i++
			continue
		}

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}

		if c >= '0' && c <= '9' {
			n := 0
			for i < len(s) && isNumberByte(s[i]) {
				n++
				i++
			}
			tokens += (n + 3) / 4
			continue
		}

		if isWordByte(c) {
			n := 0
			for i < len(s) && isWordByte(s[i]) {
				n++
				i++
			}
			tokens += (n + 3) / 4
			continue
		}

		tokens++
		i++
	}

	return max(1, tokens)
}

func isPunctuation(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ':', ',', '"', '|', '-', '#', '\\':
		return true
	}
	return false
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+'
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
