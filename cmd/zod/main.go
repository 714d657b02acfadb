package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	gojson "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/dsl"
	"github.com/JorikSchellekens/zod/schemadoc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "jsonschema":
		jsonSchemaCmd(os.Args[2:])
	case "keys":
		keysCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "zod CLI\n\nUsage:\n  zod check -schemas doc.yaml -schema NAME [-format json|yaml] [-fail-fast] [-dup error|warn|ignore] FILE...\n  zod jsonschema -schemas doc.yaml -schema NAME\n  zod keys -schemas doc.yaml -schema NAME\n\nNotes:\n  - Schemas are loaded from a schema document; see package schemadoc.\n  - check exits with status 1 when any file fails validation.")
}

// schemaFlags registers the flags shared by every subcommand.
type schemaFlags struct {
	doc  string
	name string
}

func (sf *schemaFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.doc, "schemas", "", "schema document (YAML or JSON)")
	fs.StringVar(&sf.name, "schema", "", "name of the schema in the document")
}

func (sf *schemaFlags) load(fs *flag.FlagSet) *dsl.ObjectSchema {
	if sf.doc == "" || sf.name == "" {
		fs.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(sf.doc)
	if err != nil {
		fatalf("reading schema document: %v", err)
	}
	reg, err := schemadoc.Load(data)
	if err != nil {
		fatalf("loading %s: %v", sf.doc, err)
	}
	obj, ok := reg.Object(sf.name)
	if !ok {
		fatalf("schema %q not found in %s (have: %s)", sf.name, sf.doc, strings.Join(reg.Names(), ", "))
	}
	return obj
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var sf schemaFlags
	sf.register(fs)
	var format, dup string
	var failFast bool
	fs.StringVar(&format, "format", "json", "input format: json or yaml")
	fs.StringVar(&dup, "dup", "error", "duplicate key policy: error, warn or ignore")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first issue in each file")
	_ = fs.Parse(args)
	obj := sf.load(fs)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	opt := checkOptions{format: format, failFast: failFast}
	switch dup {
	case "error":
		opt.dup = zod.Error
	case "warn":
		opt.dup = zod.Warn
	case "ignore":
		opt.dup = zod.Ignore
	default:
		fatalf("invalid -dup %q", dup)
	}
	if format != "json" && format != "yaml" {
		fatalf("invalid -format %q", format)
	}

	failed, err := runCheck(context.Background(), obj, fs.Args(), opt, os.Stdout)
	if err != nil {
		fatalf("check: %v", err)
	}
	if failed {
		os.Exit(1)
	}
}

type checkOptions struct {
	format   string
	dup      zod.Severity
	failFast bool
}

type fileResult struct {
	issues   zod.Issues
	warnings zod.Issues
}

// issueView is the JSON form of an Issue printed by check.
type issueView struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// runCheck validates files concurrently and writes one report per file, in
// argument order. It reports whether any file failed validation; I/O errors
// abort the run.
func runCheck(ctx context.Context, obj *dsl.ObjectSchema, files []string, opt checkOptions, w io.Writer) (bool, error) {
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		g.Go(func() error {
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			var src zod.Source
			if opt.format == "yaml" {
				src = zod.YAMLBytes(data)
			} else {
				src = zod.JSONBytes(data)
			}
			var warnings zod.Issues
			_, err = zod.ParseFrom[map[string]any](gctx, obj, src, zod.ParseOpt{
				OnDuplicateKey: opt.dup,
				FailFast:       opt.failFast,
				OnWarning:      func(it zod.Issue) { warnings = append(warnings, it) },
			})
			results[i].warnings = warnings
			if err == nil {
				return nil
			}
			iss, ok := zod.AsIssues(err)
			if !ok {
				iss = zod.Issues{{Path: "/", Code: zod.CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
			}
			results[i].issues = iss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	failed := false
	for i, name := range files {
		res := results[i]
		if len(res.warnings) > 0 {
			if err := writeIssues(w, fmt.Sprintf("%s: %d warning(s)", name, len(res.warnings)), res.warnings); err != nil {
				return failed, err
			}
		}
		if len(res.issues) == 0 {
			fmt.Fprintf(w, "%s: ok\n", name)
			continue
		}
		failed = true
		if err := writeIssues(w, fmt.Sprintf("%s: %d issue(s)", name, len(res.issues)), res.issues); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

// writeIssues prints header followed by the issues as indented JSON.
func writeIssues(w io.Writer, header string, iss zod.Issues) error {
	views := make([]issueView, len(iss))
	for j, it := range iss {
		views[j] = issueView{Path: it.Path, Code: it.Code, Message: it.Message, Rule: it.Rule}
	}
	b, err := gojson.MarshalIndent(views, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", header, b)
	return err
}

func jsonSchemaCmd(args []string) {
	fs := flag.NewFlagSet("jsonschema", flag.ExitOnError)
	var sf schemaFlags
	sf.register(fs)
	_ = fs.Parse(args)
	obj := sf.load(fs)
	if err := writeJSONSchema(obj, os.Stdout); err != nil {
		fatalf("jsonschema: %v", err)
	}
}

func writeJSONSchema(obj *dsl.ObjectSchema, w io.Writer) error {
	s, err := obj.JSONSchema()
	if err != nil {
		return err
	}
	b, err := gojson.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func keysCmd(args []string) {
	fs := flag.NewFlagSet("keys", flag.ExitOnError)
	var sf schemaFlags
	sf.register(fs)
	_ = fs.Parse(args)
	writeKeys(sf.load(fs), os.Stdout)
}

func writeKeys(obj *dsl.ObjectSchema, w io.Writer) {
	fmt.Fprintf(w, "required: %s\n", strings.Join(obj.RequiredKeys(), ", "))
	fmt.Fprintf(w, "optional: %s\n", strings.Join(obj.OptionalKeys(), ", "))
	fmt.Fprintf(w, "strict: %t\n", obj.IsStrict())
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
