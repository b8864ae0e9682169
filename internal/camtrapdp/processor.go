package camtrapdp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redotus/camtrapflow/internal/wi"
)

// LogFunc receives converter log lines. level is one of debug, info,
// warn, error.
type LogFunc func(level, msg string)

// ProgressFunc receives coarse progress: percent in [0,100] and the
// stage that just started or finished.
type ProgressFunc func(percent int, stage string)

// Publisher pushes a finished result bundle somewhere durable. Publish
// failures never fail a conversion.
type Publisher interface {
	Publish(ctx context.Context, zipPath string) (location string, err error)
}

// Options configures one conversion run.
type Options struct {
	// TimezoneHint is the IANA zone applied to deployments that do not
	// declare their own. Empty means UTC.
	TimezoneHint string

	// MakeZip bundles the output directory into a result zip.
	MakeZip bool

	// SkipValidation turns off the advisory post-write checks.
	SkipValidation bool

	// Overwrite replaces an existing run directory of the same name
	// instead of failing. Timestamped names make collisions rare, but a
	// rerun within the same second would otherwise mix outputs.
	Overwrite bool

	// Publisher, when set, receives the result zip. Implies MakeZip.
	Publisher Publisher

	Log      LogFunc
	Progress ProgressFunc

	// Now is injected for tests; zero means time.Now.
	Now time.Time
}

// Result reports where a successful conversion landed.
type Result struct {
	WorkDir     string
	OutputDir   string
	ZipPath     string
	PublishedTo string
	Issues      []Issue
	Rows        map[string]int
}

// safeLog wraps the caller's log callback so a panicking callback
// cannot take the conversion down with it.
func safeLog(fn LogFunc) LogFunc {
	if fn == nil {
		return func(string, string) {}
	}
	return func(level, msg string) {
		defer func() { _ = recover() }()
		fn(level, msg)
	}
}

func safeProgress(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(int, string) {}
	}
	return func(percent int, stage string) {
		defer func() { _ = recover() }()
		fn(percent, stage)
	}
}

// Process runs the whole conversion: read the WI export zip, gate on
// taxonomic completeness, build and align the three tables, write the
// bundle under baseDir, validate, and optionally zip and publish.
//
// Fatal errors (unreadable export, failed gate, incomplete required
// fields) leave no output artifacts behind. Validation findings and
// publish failures are reported on the Result and never fail the run.
func Process(ctx context.Context, zipPath, baseDir string, opts Options) (*Result, error) {
	log := safeLog(opts.Log)
	progress := safeProgress(opts.Progress)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	tzHint := opts.TimezoneHint
	if tzHint == "" {
		tzHint = "UTC"
	}

	progress(1, "reading export")
	ex, err := wi.OpenExport(zipPath)
	if err != nil {
		return nil, err
	}
	log("info", fmt.Sprintf("loaded export: %d deployments, %d images (%s)",
		len(ex.Deployments), len(ex.Images), ex.ImagesFile))
	progress(5, "export loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckTaxonomyComplete(ex.Images, ex.ImagesFile); err != nil {
		return nil, err
	}
	progress(8, "taxonomy gate passed")

	tzByDep := TimezoneByDeployment(ex.Deployments, tzHint)
	progress(20, "timezones resolved")

	deployments, err := BuildDeployments(ex, tzByDep)
	if err != nil {
		return nil, err
	}
	progress(40, "deployments built")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := AssignMediaRows(ex.Images, tzByDep, tzHint)
	captureMethod := CaptureMethodFromText(ex.Project0().SensorMethod)
	media, err := BuildMedia(rows, captureMethod)
	if err != nil {
		return nil, err
	}
	progress(70, "media built")

	observations, err := BuildObservations(rows, tzByDep, tzHint)
	if err != nil {
		return nil, err
	}
	progress(85, "observations built")

	tables := map[string]*Table{
		"deployments":  deployments,
		"media":        media,
		"observations": observations,
	}
	schemas := make(map[string]*ResourceSchema, 3)
	for name, t := range tables {
		s, err := LoadSchema(name)
		if err != nil {
			log("warn", fmt.Sprintf("no embedded schema for %s, inferring one: %v", name, err))
			s = InferSchema(t)
		}
		schemas[name] = s
		tables[name] = s.Align(t)
	}
	dp := BuildDataPackage(ex, tables, schemas, tzHint, now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workDir := WorkDirFor(zipPath, now)
	workPath := filepath.Join(baseDir, workDir)
	if _, statErr := os.Stat(workPath); statErr == nil {
		if !opts.Overwrite {
			return nil, fmt.Errorf("run directory %s already exists", workPath)
		}
		if err := os.RemoveAll(workPath); err != nil {
			return nil, fmt.Errorf("overwrite run directory: %w", err)
		}
	}
	outDir, err := EnsureWorkDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if err := WriteCSV(outDir, t); err != nil {
			return nil, err
		}
	}
	if err := WriteJSON(outDir, "datapackage.json", dp); err != nil {
		return nil, err
	}
	progress(92, "bundle written")

	var issues []Issue
	if !opts.SkipValidation {
		// validation is observational: even a validator bug must not
		// fail a run whose output is already on disk
		ran := func() (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
					log("warn", fmt.Sprintf("validation failed to run: %v", r))
				}
			}()
			issues = ValidatePackage(tables, schemas)
			return true
		}()
		if ran && len(issues) == 0 {
			log("info", "validation: package is clean")
		}
		for _, line := range FormatIssues(issues) {
			log("warn", "validation: "+line)
		}
	}
	progress(95, "validated")

	res := &Result{
		WorkDir:   workDir,
		OutputDir: outDir,
		Issues:    issues,
		Rows: map[string]int{
			"deployments":  tables["deployments"].Len(),
			"media":        tables["media"].Len(),
			"observations": tables["observations"].Len(),
		},
	}

	if opts.MakeZip || opts.Publisher != nil {
		zipOut, err := MakeResultZip(workPath, outDir, workDir+".zip")
		if err != nil {
			return nil, err
		}
		res.ZipPath = zipOut
		log("info", "result zip created: "+zipOut)
	}
	if opts.Publisher != nil {
		loc, err := opts.Publisher.Publish(ctx, res.ZipPath)
		if err != nil {
			log("warn", "publish failed: "+err.Error())
		} else {
			res.PublishedTo = loc
			log("info", "published to "+loc)
		}
	}

	if err := CheckArtifacts(outDir, []string{
		"deployments.csv", "media.csv", "observations.csv", "datapackage.json",
	}); err != nil {
		return nil, err
	}
	progress(100, "done")
	return res, nil
}
