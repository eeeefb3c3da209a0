package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	schemaval "github.com/schemaval/schemaval"
	"github.com/schemaval/schemaval/i18n"
	"github.com/schemaval/schemaval/jsonschema"
	"github.com/schemaval/schemaval/value"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "schemaval CLI\n\nUsage:\n  schemaval validate -schema schema.json -data data.json [-format json|yaml] [-fail-fast] [-max-depth N] [-lang en|ja]\n\nNotes:\n  - Schema and data formats are detected from the file extension unless -format is given.\n  - Exit code 0 on valid input, 1 on validation errors, 2 on usage errors.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath, dataPath, format, lang string
	var failFast, quiet bool
	var maxDepth int
	fs.StringVar(&schemaPath, "schema", "", "schema document to compile")
	fs.StringVar(&dataPath, "data", "", "data document to validate")
	fs.StringVar(&format, "format", "", "force input format (json or yaml)")
	fs.StringVar(&lang, "lang", "en", "message language (en or ja)")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first validation error")
	fs.BoolVar(&quiet, "q", false, "suppress per-issue output; exit code only")
	fs.IntVar(&maxDepth, "max-depth", 0, "recursion depth bound (0 = default)")
	_ = fs.Parse(args)
	if schemaPath == "" || dataPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	i18n.SetLanguage(lang)

	doc, err := loadDocument(schemaPath, format)
	if err != nil {
		fatalf("loading schema: %v", err)
	}
	compiled, err := jsonschema.Compile(doc)
	if err != nil {
		fatalf("compiling schema: %v", err)
	}
	for _, w := range compiled.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	raw, err := loadDocument(dataPath, format)
	if err != nil {
		fatalf("loading data: %v", err)
	}
	val, err := value.FromGo(raw)
	if err != nil {
		fatalf("decoding data: %v", err)
	}

	res := schemaval.Validate(compiled.Registry, compiled.Root, val, schemaval.Options{
		MaxDepth: maxDepth,
		FailFast: failFast,
	})
	if res.Valid() {
		if !quiet {
			fmt.Println("valid")
		}
		return
	}
	if !quiet {
		for _, iss := range res.Issues {
			fmt.Printf("%s at %s: %s\n", iss.Code, iss.Path, iss.Message)
		}
	}
	os.Exit(1)
}

func loadDocument(path, format string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		dec := j.NewDecoder(strings.NewReader(string(data)))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return doc, nil
	case "yaml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
