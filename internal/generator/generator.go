// Package generator drives a full generation pass: parse the two-block
// dispatch file, classify every method, filter by the active feature set,
// emit the forwarding implementation and write the output file. The pass is
// single-shot; any failure aborts with no partial output.
package generator

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/variantgo/dispatchgen/internal/ast"
	"github.com/variantgo/dispatchgen/internal/classifier"
	"github.com/variantgo/dispatchgen/internal/config"
	"github.com/variantgo/dispatchgen/internal/diag"
	"github.com/variantgo/dispatchgen/internal/emitter"
	dgerr "github.com/variantgo/dispatchgen/internal/errors"
	"github.com/variantgo/dispatchgen/internal/parser"
	"github.com/variantgo/dispatchgen/internal/utils"
)

// Options configures a Generator
type Options struct {
	Config        *config.Config
	ExtraFeatures []string // features from the CLI, merged with the config's
	PackageName   string   // overrides the package name derived from the directory
	OutputPath    string   // overrides the derived output path; single input only
	Diag          *diag.System
}

// Generator implements the generation pass
type Generator struct {
	opts Options
}

// Result describes one successfully generated file
type Result struct {
	InputPath  string
	OutputPath string
	Content    []byte
	Methods    int // forwarding methods emitted
	Variants   int // active variants, arms per method
}

// New creates a generator. A nil config falls back to the defaults and a nil
// diagnostic system stays quiet.
func New(opts Options) *Generator {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Diag == nil {
		opts.Diag = diag.NewQuiet()
	}
	return &Generator{opts: opts}
}

// GenerateFile runs the whole pass for one dispatch file and returns the
// generated output without writing it.
func (g *Generator) GenerateFile(inputPath string) (*Result, error) {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, dgerr.Wrapf(dgerr.FileSystemErrorCode, err, "failed to read %s", inputPath)
	}

	file, err := parser.Parse(inputPath, string(src))
	if err != nil {
		return nil, err
	}

	contract, err := classifier.ClassifyContract(inputPath, file.Contract)
	if err != nil {
		return nil, err
	}
	union := classifier.ClassifyUnion(file.Union)

	features := g.opts.Config.FeatureSet(g.opts.ExtraFeatures)
	g.opts.Diag.Verbose("active features: %s", strings.Join(config.FeatureList(features), ", "))

	dir := filepath.Dir(inputPath)
	content, err := emitter.Emit(&ast.File{Contract: contract, Union: union}, emitter.Options{
		PackageName: g.packageName(dir),
		Source:      filepath.Base(inputPath),
		Module:      utils.ResolveModuleName(dir),
		Features:    features,
	})
	if err != nil {
		return nil, err
	}

	outputPath := g.outputPath(inputPath)
	formatted, err := imports.Process(outputPath, []byte(content), nil)
	if err != nil {
		return nil, dgerr.Wrap(dgerr.GenerateErrorCode, "generated code failed formatting", err).
			WithSuggestion("this is a dispatchgen bug; re-run with -verbose and report the input")
	}

	return &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Content:    formatted,
		Methods:    len(contract.ActiveMethods(features)),
		Variants:   len(union.ActiveVariants(features)),
	}, nil
}

// Generate runs GenerateFile for every input and writes each output
// atomically. The first failure aborts the run.
func (g *Generator) Generate(inputs []string) ([]*Result, error) {
	if g.opts.OutputPath != "" && len(inputs) > 1 {
		return nil, dgerr.New(dgerr.ConfigErrorCode, "-o can only be used with a single input file")
	}

	var results []*Result
	for _, input := range inputs {
		result, err := g.GenerateFile(input)
		if err != nil {
			return nil, err
		}
		if err := utils.WriteFileAtomic(result.OutputPath, result.Content); err != nil {
			return nil, dgerr.Wrapf(dgerr.FileSystemErrorCode, err, "failed to write %s", result.OutputPath)
		}
		g.opts.Diag.PhaseItem("generated " + result.OutputPath)
		results = append(results, result)
	}
	return results, nil
}

// outputPath derives the generated-file path for an input file
func (g *Generator) outputPath(inputPath string) string {
	if g.opts.OutputPath != "" {
		return g.opts.OutputPath
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), stem+g.opts.Config.Output.Suffix)
}

// packageName derives the output package name: flag override first, then the
// config, then the input file's directory name.
func (g *Generator) packageName(dir string) string {
	if g.opts.PackageName != "" {
		return g.opts.PackageName
	}
	if g.opts.Config.Output.Package != "" {
		return g.opts.Config.Output.Package
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return sanitizePackageName(filepath.Base(abs))
}

// sanitizePackageName reduces a directory name to a valid Go package name
func sanitizePackageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || r == '_' || (unicode.IsDigit(r) && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "main"
	}
	return b.String()
}
