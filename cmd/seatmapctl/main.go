// seatmapctl parses captured reservation and seat-map responses offline. It
// prints the normalised form as JSON, draws a seat map as a text grid, or
// rewrites a seat map as a canonical fixture document.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/pflag"

	resdto "enhanced-seatmap/internal/handler/dto/response"
	"enhanced-seatmap/internal/infra/sws"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		kind      string
		format    string
		tablePath string
		verbose   bool
	)

	flagSet := pflag.NewFlagSet("seatmapctl", pflag.ContinueOnError)
	flagSet.StringVarP(&kind, "kind", "k", "seatmap", "document kind: reservation or seatmap")
	flagSet.StringVarP(&format, "format", "f", "json", "output format: json, grid (seatmap only) or fixture (seatmap only)")
	flagSet.StringVar(&tablePath, "table", "", "normalisation table YAML to use instead of the built-in one")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log skipped elements to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: seatmapctl [flags] FILE\n\nFILE may be gzip compressed. Use - for stdin.\n\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("expected exactly one FILE argument, got %d", flagSet.NArg())
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	table := sws.DefaultTable()
	if tablePath != "" {
		raw, err := os.ReadFile(tablePath)
		if err != nil {
			return fmt.Errorf("read table: %w", err)
		}
		if table, err = sws.LoadTable(raw); err != nil {
			return fmt.Errorf("load table %s: %w", tablePath, err)
		}
	}
	parser := sws.NewParser(table, logger)

	raw, err := readInput(flagSet.Arg(0))
	if err != nil {
		return err
	}

	switch strings.ToLower(kind) {
	case "reservation":
		if format != "json" {
			return fmt.Errorf("format %q is not supported for reservations", format)
		}
		res, err := parser.ParseReservation(raw)
		if err != nil {
			return err
		}
		return writeJSON(out, resdto.FromReservation(res))
	case "seatmap":
		m, err := parser.ParseSeatMap(raw)
		if err != nil {
			return err
		}
		switch format {
		case "json":
			return writeJSON(out, resdto.FromSeatMap(m))
		case "grid":
			return renderGrid(out, m)
		case "fixture":
			doc, err := sws.SerializeFixture(m)
			if err != nil {
				return err
			}
			_, err = out.Write(doc)
			return err
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
}

// readInput reads path, or stdin for "-", and inflates gzip content.
func readInput(path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		return raw, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
