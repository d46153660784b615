// Package main is the sdo command-line tool.
//
// sdo inspects and maintains schema-validated JSON store files: it can
// create a file with schema defaults, validate existing content, print the
// stored value, or emit the schema as a JSON Schema document.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	storedobject "github.com/Mtdung290504/stored-data-object"
	"github.com/Mtdung290504/stored-data-object/schema"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "sdo: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	file := flag.String("file", "", "Path to the JSON store file")
	schemaFile := flag.String("schema", "", "Path to the YAML schema definition")
	storage := flag.String("storage", "", "Storage type (object or array); inferred from the schema root by default")
	noValidate := flag.Bool("no-validate", false, "Skip schema validation when loading")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("usage: sdo -file <data.json> -schema <schema.yaml> <init|validate|show|schema>")
	}
	cmd := flag.Arg(0)

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	if *schemaFile == "" {
		return fmt.Errorf("-schema is required")
	}
	node, err := schema.LoadFile(*schemaFile)
	if err != nil {
		return err
	}

	if cmd == "schema" {
		return printJSON(node.JSONSchema())
	}

	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	cfg := storedobject.Config{File: *file, Schema: node}
	switch {
	case *storage != "":
		cfg.StorageType = storedobject.StorageType(*storage)
	case node.Kind == schema.KindArray:
		cfg.StorageType = storedobject.StorageArray
	}
	store, err := storedobject.Open(cfg, &storedobject.Options{
		DisableValidation: *noValidate,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	switch cmd {
	case "init":
		// Open already created the file with defaults when missing.
		logger.Info("store ready", "path", store.FilePath())
		return nil
	case "validate":
		if err := store.Reload(); err != nil {
			return err
		}
		logger.Info("store valid", "path", store.FilePath())
		return nil
	case "show":
		if cfg.StorageType == storedobject.StorageArray {
			return printJSON(store.Array())
		}
		return printJSON(store.Data())
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(b))
	return err
}
