package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/s0up4200/bucketeer/bitbucket"
)

const tableWidth = 85

// useJSON decides between table and json output. The flag wins, then
// output.format; "auto" prints json when stdout is not a terminal.
func useJSON(jsonFlag bool) bool {
	if jsonFlag {
		return true
	}
	switch cfg.Output.Format {
	case "json":
		return true
	case "table":
		return false
	default:
		return !isTerminal(os.Stdout)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("━", tableWidth))
}

// pageOptions builds list options from the --max-pages flag, falling back to
// bitbucket.max_pages. Zero means no cap.
func pageOptions(maxPages int, flagSet bool) bitbucket.PageOptions {
	if !flagSet {
		maxPages = cfg.Bitbucket.MaxPages
	}

	var opts bitbucket.PageOptions
	if maxPages > 0 {
		opts.MaxPages = bitbucket.Ptr(maxPages)
	}
	if cfg.Bitbucket.PageLimit > 0 {
		opts.Limit = bitbucket.Ptr(cfg.Bitbucket.PageLimit)
	}
	return opts
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// formatBytes renders a byte count with binary units
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
