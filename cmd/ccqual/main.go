// Command ccqual is the CLI entry point of spec.md §6: point it at a
// project's base directory and it infers and rewrites pointer
// declarations to their safest supportable Checked-C kind.
package main

import (
	"flag"
	"os"

	"github.com/ccqual/ccqual/internal/cache"
	"github.com/ccqual/ccqual/internal/config"
	"github.com/ccqual/ccqual/internal/diagnostics"
	"github.com/ccqual/ccqual/internal/rewrite"
	"github.com/ccqual/ccqual/pkg/driver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ccqual", flag.ContinueOnError)
	baseDir := fs.String("base-dir", ".", "project root to discover and rewrite source under")
	outputPostfix := fs.String("output-postfix", config.DefaultOutputPostfix, `postfix inserted before each rewritten file's extension, or "-" to write every file to stdout`)
	verbose := fs.Bool("verbose", false, "log each pipeline stage as it runs")
	dumpIntermediate := fs.Bool("dump-intermediate", false, "print the solved assignment and declaration plans")
	dumpStats := fs.Bool("dump-stats", false, "print per-file rewrite counts")
	cachePath := fs.String("cache", "", "sqlite cache file; empty disables caching")
	projectConfigPath := fs.String("config", "", "path to a .ccqual.yaml; defaults to <base-dir>/.ccqual.yaml")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := diagnostics.New(os.Stderr, *verbose)

	cfgPath := *projectConfigPath
	if cfgPath == "" {
		cfgPath = *baseDir + "/.ccqual.yaml"
	}
	pc, err := config.LoadProjectConfig(cfgPath)
	if err != nil {
		log.Errorf("", 0, 0, "%v", err)
		return 1
	}
	// Project config values apply only where the matching flag was not given.
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if pc.OutputPostfix != "" && !explicit["output-postfix"] {
		*outputPostfix = pc.OutputPostfix
	}
	if pc.BaseDir != "" && !explicit["base-dir"] {
		*baseDir = pc.BaseDir
	}

	opts := driver.Options{
		BaseDir:          *baseDir,
		OutputPostfix:    *outputPostfix,
		Verbose:          *verbose,
		DumpIntermediate: *dumpIntermediate,
		DumpStats:        *dumpStats,
		CachePath:        *cachePath,
		AllowList:        driver.DefaultAllowList(pc),
	}

	ctx := driver.NewContext(opts, log)

	paths, err := driver.DiscoverFiles(opts.BaseDir)
	if err != nil {
		log.Errorf("", 0, 0, "%v", err)
		return 1
	}
	ctx.ReadFiles(paths)

	var ch *cache.Cache
	var runKey string
	if opts.CachePath != "" {
		ch, err = cache.Open(opts.CachePath)
		if err != nil {
			log.Errorf("", 0, 0, "%v", err)
			return 1
		}
		defer ch.Close()
		runKey = cache.Key(ctx.Files)
		if cached, ok, err := ch.Lookup(runKey); err == nil && ok {
			log.Verbosef("cache hit for run key %s", runKey)
			if err := driver.WritePolicy(cached, opts.BaseDir, opts.OutputPostfix, os.Stdout); err != nil {
				log.Errorf("", 0, 0, "%v", err)
				return 1
			}
			return exitCode(log, ctx)
		}
	}

	ctx.Run()

	mgr := rewrite.NewManager()
	plans, err := ctx.PlanAndRewrite(mgr)
	if err != nil {
		log.Errorf("", 0, 0, "%v", err)
		return 1
	}

	rendered, err := ctx.RenderAll(mgr)
	if err != nil {
		log.Errorf("", 0, 0, "%v", err)
		return 1
	}

	if *dumpIntermediate {
		driver.DumpIntermediate(os.Stdout, ctx.Solved, plans)
	}
	if *dumpStats {
		ctx.BuildStats(plans).WriteReport(os.Stdout)
	}

	if err := driver.WritePolicy(rendered, opts.BaseDir, opts.OutputPostfix, os.Stdout); err != nil {
		log.Errorf("", 0, 0, "%v", err)
		return 1
	}

	if ch != nil {
		if err := ch.Store(runKey, rendered); err != nil {
			log.Warnf("", 0, 0, "caching run: %v", err)
		}
	}

	return exitCode(log, ctx)
}

func exitCode(log *diagnostics.Logger, ctx *driver.Context) int {
	for _, err := range ctx.Errors {
		log.Errorf("", 0, 0, "%v", err)
	}
	if log.ErrorCount() > 0 {
		return 1
	}
	return 0
}
