package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airtight/internal/config"
	"airtight/internal/driver"
	"airtight/internal/linter"
	"airtight/internal/trace"
)

// lintSettings collects the flags shared by lint and fix.
type lintSettings struct {
	targets   []string
	only      []string
	jobs      int
	astSuffix string
	noCache   bool
	maxDiags  int
}

// lintPlan is a resolved run: configuration, files and enabled rules.
type lintPlan struct {
	cfg    *config.Config
	files  []string
	linter *linter.Linter
	opts   driver.Options
}

func readLintSettings(cmd *cobra.Command, args []string) (lintSettings, error) {
	s := lintSettings{targets: args}
	if len(s.targets) == 0 {
		s.targets = []string{"."}
	}
	var err error
	if s.only, err = cmd.Flags().GetStringSlice("rule"); err != nil {
		return s, fmt.Errorf("failed to get rule flag: %w", err)
	}
	if s.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative, got %d", s.jobs)
	}
	if s.astSuffix, err = cmd.Flags().GetString("ast-suffix"); err != nil {
		return s, fmt.Errorf("failed to get ast-suffix flag: %w", err)
	}
	if s.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return s, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if s.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return s, nil
}

func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("rule", nil, "run only the named rules (repeatable, comma-separated)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
	cmd.Flags().String("ast-suffix", "", "suffix of the ESTree JSON next to each source (default "+config.DefaultASTSuffix+")")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
}

func loadConfig(cmd *cobra.Command, targets []string) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(targets[0])
}

func planLint(cmd *cobra.Command, s lintSettings) (*lintPlan, error) {
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "plan")
	defer span.End("")

	cfg, err := loadConfig(cmd, s.targets)
	if err != nil {
		return nil, err
	}
	files, err := driver.Discover(cfg, s.targets)
	if err != nil {
		return nil, err
	}
	entries, err := driver.Entries(cfg, s.only)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	opts := driver.Options{
		Jobs:           cfg.Jobs,
		ASTSuffix:      cfg.ASTSuffix,
		Cwd:            cwd,
		MaxDiagnostics: s.maxDiags,
		ConfigDigest:   cfg.Digest(),
	}
	if s.jobs > 0 {
		opts.Jobs = s.jobs
	}
	if s.astSuffix != "" {
		opts.ASTSuffix = s.astSuffix
	}
	if !s.noCache {
		cache, cacheErr := driver.OpenDiskCache("airtight")
		if cacheErr != nil {
			// без кеша тоже работаем
			trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache-open", cacheErr.Error(), span.ID())
		} else {
			opts.Cache = cache
		}
	}

	span.WithExtra("files", fmt.Sprint(len(files))).WithExtra("rules", fmt.Sprint(len(entries)))
	return &lintPlan{
		cfg:    cfg,
		files:  files,
		linter: linter.New(cwd, entries...),
		opts:   opts,
	}, nil
}

// run lints the planned files, showing the progress view when useUI is set.
func (p *lintPlan) run(ctx context.Context, useUI bool) (*driver.Result, error) {
	if !useUI || len(p.files) == 0 {
		return driver.Lint(ctx, p.files, p.linter, p.opts)
	}
	return runLintWithUI(ctx, "linting", p.files, func(ctx context.Context, sink driver.ProgressSink) (*driver.Result, error) {
		opts := p.opts
		opts.Progress = sink
		return driver.Lint(ctx, p.files, p.linter, opts)
	})
}
