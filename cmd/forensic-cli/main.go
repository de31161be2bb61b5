// Command forensic-cli runs the forensic analysis engine against a single
// image file and prints the resulting AnalysisResult as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/humanmark/forensic/internal/analysis"
	"github.com/humanmark/forensic/internal/config"
	"github.com/humanmark/forensic/pkg/logger"
)

func main() {
	indent := flag.Bool("pretty", true, "pretty-print the JSON result")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: forensic-cli [-pretty=false] <image-path>")
		os.Exit(2)
	}
	path := args[0]

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "forensic-cli: invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read input file", "path", path, "error", err)
		os.Exit(1)
	}

	engine := analysis.NewEngine(analysis.WithLogger(log))

	result, err := engine.Analyze(context.Background(), data, filepath.Base(path))
	if err != nil {
		log.Error("analysis failed", "path", path, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}
