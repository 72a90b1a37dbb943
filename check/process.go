package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ProcessFiles checks every path in turn. Directories are walked for
// proof documents.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) (*Report, error),
) ([]*Report, error) {
	var all []*Report
	for _, path := range paths {
		reports, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return all, err
		}
		all = append(all, reports...)
	}
	return all, nil
}

// ProcessPath checks a single document, or every document under a
// directory using one worker per CPU. A document found by walking that
// fails to load yields a LoadFailure report; a file named directly fails
// the call.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) (*Report, error),
) ([]*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !IsDocument(path) {
			return nil, nil
		}
		report, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		return []*Report{report}, nil
	}

	files, err := NewScanner(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	type result struct {
		index  int
		report *Report
	}
	results := make(chan result, len(files))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	var cancelled error
	for i, fp := range files {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case sem <- struct{}{}:
		}
		if cancelled != nil {
			break
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			report, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				report = LoadFailure(fp, err)
			} else if logger != nil {
				logger.Debug("Checked file", zap.String("file", fp), zap.Int("failures", report.Failures()))
			}
			results <- result{index: i, report: report}
			_ = bar.Add(1)
		}(i, fp)
	}
	wg.Wait()
	close(results)

	var collected []result
	for r := range results {
		if r.report != nil {
			collected = append(collected, r)
		}
	}
	sort.Slice(collected, func(a, b int) bool { return collected[a].index < collected[b].index })

	reports := make([]*Report, 0, len(collected))
	for _, r := range collected {
		reports = append(reports, r.report)
	}
	return reports, cancelled
}

func ProcessFile(engine Engine, path string) (*Report, error) {
	return engine.Run(path)
}

func ProcessSource(engine Engine, source []byte) (*Report, error) {
	return engine.RunSource(source)
}

var documentExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// IsDocument reports whether path has a proof document extension.
func IsDocument(path string) bool {
	return documentExtensions[filepath.Ext(path)]
}
