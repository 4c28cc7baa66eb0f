package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

// MaxOutputSize is the maximum allowed size for output to prevent memory exhaustion
const MaxOutputSize = 10 * 1024 * 1024 // 10MB

// writeString writes a string to the writer with error checking and size limits
func writeString(w io.Writer, s string) error {
	if len(s) > MaxOutputSize {
		return fmt.Errorf("output size %d exceeds maximum allowed size %d",
			len(s), MaxOutputSize)
	}

	n, err := fmt.Fprint(w, s)
	if err != nil {
		return fmt.Errorf("failed to write output (wrote %d bytes): %w", n, err)
	}

	if f, ok := w.(interface{ Flush() error }); ok {
		if flushErr := f.Flush(); flushErr != nil {
			return fmt.Errorf("failed to flush output: %w", flushErr)
		}
	}

	return nil
}

// writeOutput is a helper function to write formatted output with error checking and size limits
func writeOutput(w io.Writer, format string, args ...interface{}) error {
	return writeString(w, fmt.Sprintf(format, args...))
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return writeString(w, string(data)+"\n")
}

// writeResult prints one derivation result in the requested format.
func writeResult(w io.Writer, format string, res *kdf.Result) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if res.Node != "" {
		fmt.Fprintf(tw, "node:\t%s\n", res.Node)
	}
	if res.Type != "" {
		fmt.Fprintf(tw, "type:\t%s\n", res.Type)
	}
	fmt.Fprintf(tw, "kdf:\t%s\n", res.KDF)
	fmt.Fprintf(tw, "algo:\t%s\n", res.Algorithm)
	fmt.Fprintf(tw, "salt:\t%s\n", res.SaltHex)
	fmt.Fprintf(tw, "iter:\t%d\n", res.Iterations)
	fmt.Fprintf(tw, "bits:\t%d\n", res.Bits)
	fmt.Fprintf(tw, "proof:\t%s\n", res.KeyHex)
	fmt.Fprintf(tw, "backend:\t%s\n", res.Backend)
	fmt.Fprintf(tw, "elapsed:\t%s\n", formatSeconds(res.ElapsedSeconds))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// formatSeconds renders an elapsed time in seconds, e.g. "0.012s".
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64) + "s"
}

// isDebugEnabled checks if debug mode is enabled via environment variable
func isDebugEnabled() bool {
	dbg, _ := strconv.ParseBool(os.Getenv("KDFBENCH_DEBUG"))
	return dbg
}
