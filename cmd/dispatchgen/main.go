package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/variantgo/dispatchgen/internal/config"
	"github.com/variantgo/dispatchgen/internal/diag"
	"github.com/variantgo/dispatchgen/internal/generator"
)

func main() {
	// Define command-line flags
	var (
		configFlag   = flag.String("config", "", "Path to a dispatchgen.toml config file (defaults to ./dispatchgen.toml when present)")
		featuresFlag = flag.String("features", "", "Comma-separated feature names to activate, merged with the config file's")
		outputFlag   = flag.String("o", "", "Output file path (single input only; defaults to <input>"+config.DefaultSuffix+")")
		packageFlag  = flag.String("package", "", "Package name for the generated file (defaults to the input directory name)")
		verboseFlag  = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag    = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag    = flag.Bool("clean", false, "Delete generated dispatch files from the specified directories")
		helpFlag     = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <dispatch-files...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dispatchgen Tagged-Union Code Generator\n")
		fmt.Fprintf(os.Stderr, "Reads dispatch files declaring a contract and a closed union, and generates\n")
		fmt.Fprintf(os.Stderr, "the forwarding implementation plus conversion constructors as Go source.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  dispatch-files     One or more .dispatch files to generate from\n")
		fmt.Fprintf(os.Stderr, "                     (with --clean: directories, './...' patterns supported)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s shapes.dispatch                          # Generate shapes_dispatch.gen.go\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -features platform_specific s.dispatch   # Activate a conditional feature\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -package shapes -o out.go s.dispatch     # Custom package and output path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                            # Delete all generated files\n", os.Args[0])
	}

	flag.Parse()

	// Show help if requested
	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	// Validate arguments
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one dispatch file is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// Create diagnostic system based on flags
	var diagnostics *diag.System
	if *quietFlag {
		diagnostics = diag.NewQuiet()
	} else if *verboseFlag {
		diagnostics = diag.NewVerbose()
	} else {
		diagnostics = diag.NewSystem(diag.LevelInfo)
	}

	// Load configuration
	cfg, err := loadConfig(*configFlag)
	if err != nil {
		diagnostics.Report(err)
		os.Exit(1)
	}

	// Handle clean operation
	if *cleanFlag {
		cleaner := generator.NewCleaner(cfg.Output.Suffix)
		removed, err := cleaner.Clean(args)
		if err != nil {
			diagnostics.Report(err)
			os.Exit(1)
		}
		for _, path := range removed {
			diagnostics.List("removed %s", path)
		}
		diagnostics.Success("All generated dispatch files have been removed")
		return
	}

	diagnostics.Header("generating tagged-union dispatch")

	var extraFeatures []string
	if *featuresFlag != "" {
		extraFeatures = strings.Split(*featuresFlag, ",")
	}
	if *verboseFlag {
		diagnostics.List("inputs: %s", strings.Join(args, ", "))
		if len(extraFeatures) > 0 {
			diagnostics.List("features: %s", strings.Join(extraFeatures, ", "))
		}
	}

	gen := generator.New(generator.Options{
		Config:        cfg,
		ExtraFeatures: extraFeatures,
		PackageName:   *packageFlag,
		OutputPath:    *outputFlag,
		Diag:          diagnostics,
	})

	results, err := gen.Generate(args)
	if err != nil {
		diagnostics.Report(err)
		os.Exit(1)
	}

	// Show final summary
	methods, arms := 0, 0
	for _, r := range results {
		methods += r.Methods
		arms += r.Methods * r.Variants
	}
	diagnostics.Summary("Generation Complete!", []string{
		fmt.Sprintf("Files generated: %d", len(results)),
		fmt.Sprintf("Forwarding methods: %d", methods),
		fmt.Sprintf("Dispatch arms: %d", arms),
	})
}

// loadConfig loads the explicit config file, or the default one when present
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadIfPresent(config.DefaultFileName)
}
