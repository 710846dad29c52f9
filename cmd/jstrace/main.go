// jstrace is the CLI entry point for js:klve: traces a JavaScript file and
// prints its step list as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/klve/jstrace/internal/config"
	"github.com/klve/jstrace/pkg/klve"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory to search for jsklve.toml")
	maxSteps := flag.Int("max-steps", 0, "abort after this many reported steps (0 = unlimited)")
	maxTimeMS := flag.Int64("max-time", 0, "abort after this many milliseconds (0 = unlimited)")
	cbor := flag.Bool("cbor", false, "emit CBOR instead of JSON")
	schema := flag.Bool("schema", false, "print the options JSON Schema and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jstrace [options] <file.js>\n\n")
		fmt.Fprintf(os.Stderr, "Traces a JavaScript file and prints its step list.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jstrace ./example.js\n")
		fmt.Fprintf(os.Stderr, "  jstrace -max-steps 500 ./example.js\n")
		fmt.Fprintf(os.Stderr, "  jstrace -schema\n")
	}
	flag.Parse()

	if *schema {
		printSchema()
		return
	}

	paths := flag.Args()
	if len(paths) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(paths[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", paths[0], err)
		os.Exit(1)
	}

	f, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jsklve.toml: %v\n", err)
		os.Exit(1)
	}
	cfg := f.Config()

	if *maxSteps > 0 {
		cfg.Meta.Max.Steps = *maxSteps
	}
	if *maxTimeMS > 0 {
		cfg.Meta.Max.Time = *maxTimeMS
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ch, err := klve.Record(ctx, string(source), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting trace: %v\n", err)
		os.Exit(1)
	}

	result := <-ch
	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "Trace failed: %v\n", result.Err)
		os.Exit(1)
	}

	if *cbor {
		data, err := klve.MarshalStepsCBOR(result.Steps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding CBOR: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Steps); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func printSchema() {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(klve.OptionsSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding schema: %v\n", err)
		os.Exit(1)
	}
}
