// wi2camtrapdp converts a Wildlife Insights project export zip into a
// Camtrap Data Package bundle on disk.
//
// Usage:
//
//	wi2camtrapdp -in export.zip [-out DIR] [-tz America/Bogota] [-zip] [-publish]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/redotus/camtrapflow/internal/camtrapdp"
	"github.com/redotus/camtrapflow/internal/config"
	"github.com/redotus/camtrapflow/internal/pkg/logger"
	"github.com/redotus/camtrapflow/internal/storage"
)

func main() {
	in := flag.String("in", "", "WI export zip (required)")
	out := flag.String("out", "", "directory for the run directory (default from config)")
	tz := flag.String("tz", "", "IANA timezone for deployments without one (default from config)")
	makeZip := flag.Bool("zip", false, "bundle the output into a result zip")
	noValidate := flag.Bool("no-validate", false, "skip the advisory post-write validation")
	overwrite := flag.Bool("overwrite", false, "replace a colliding run directory instead of failing")
	publish := flag.Bool("publish", false, "upload the result zip per the publish config")
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.Redact())

	opts := camtrapdp.Options{
		TimezoneHint:   cfg.Converter.TimezoneHint,
		MakeZip:        cfg.Converter.MakeZip || *makeZip,
		SkipValidation: *noValidate || !cfg.Converter.ShouldValidate(),
		Overwrite:      cfg.Converter.Overwrite || *overwrite,
		Log: func(level, msg string) {
			logger.Info(msg, "source", "converter", "severity", level)
		},
	}
	if *tz != "" {
		opts.TimezoneHint = *tz
	}
	if !*quiet {
		opts.Progress = func(percent int, stage string) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
		}
	}

	ctx := context.Background()
	if *publish {
		p, err := storage.NewS3Publisher(ctx, cfg.Publish)
		if err != nil {
			fmt.Fprintln(os.Stderr, "publish setup:", err)
			os.Exit(1)
		}
		opts.Publisher = p
	}

	baseDir := cfg.Converter.OutputDir
	if *out != "" {
		baseDir = *out
	}

	res, err := camtrapdp.Process(ctx, *in, baseDir, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Camtrap-DP bundle written to %s\n", res.OutputDir)
	fmt.Printf("  deployments: %d rows\n", res.Rows["deployments"])
	fmt.Printf("  media:       %d rows\n", res.Rows["media"])
	fmt.Printf("  observations:%d rows\n", res.Rows["observations"])
	if res.ZipPath != "" {
		fmt.Printf("  bundle zip:  %s\n", res.ZipPath)
	}
	if res.PublishedTo != "" {
		fmt.Printf("  published:   %s\n", res.PublishedTo)
	}
	if len(res.Issues) > 0 {
		fmt.Printf("Validation reported %d issue(s):\n", len(res.Issues))
		for _, line := range camtrapdp.FormatIssues(res.Issues) {
			fmt.Println("  " + line)
		}
	}
}
