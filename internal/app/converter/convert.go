// Package converter transcribes local audio files in batches through the
// same pipeline the HTTP API uses.
package converter

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/pipeline"
)

// Runner runs one upload. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, up pipeline.Upload) (*pipeline.Result, error)
}

// FileResult is the outcome for one input file.
type FileResult struct {
	File   model.FileInfo
	Result *pipeline.Result
	Err    error
}

// Succeeded reports whether the file produced a transcript.
func (r FileResult) Succeeded() bool {
	return r.Err == nil && r.Result != nil && r.Result.State.Succeeded()
}

// Summary counts batch outcomes.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Unpersisted int
}

// Summarize tallies results.
func Summarize(results []FileResult) Summary {
	ok := lo.Filter(results, func(r FileResult, _ int) bool { return r.Succeeded() })
	unpersisted := lo.CountBy(ok, func(r FileResult) bool { return !r.Result.Persisted })
	return Summary{
		Total:       len(results),
		Succeeded:   len(ok),
		Failed:      len(results) - len(ok),
		Unpersisted: unpersisted,
	}
}

type Converter struct {
	runner   Runner
	logger   *zap.Logger
	progress ProgressConfig
}

func NewConverter(runner Runner, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		runner: runner,
		logger: logger,
	}
}

// WithProgress renders a progress bar per batch as configured by cfg.
func (c *Converter) WithProgress(cfg ProgressConfig) *Converter {
	c.progress = cfg
	return c
}

// TranscribeFiles runs every file through the pipeline with at most parallel
// files in flight. Results keep the input order. A failing file never stops
// the batch.
func (c *Converter) TranscribeFiles(ctx context.Context, files []model.FileInfo, parallel int) []FileResult {
	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return results
	}
	if parallel < 1 {
		parallel = 1
	}

	progress := newBatchProgress(c.progress, len(files))
	defer progress.wait()

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for i, file := range files {
		wg.Add(1)
		go func(i int, file model.FileInfo) {
			defer wg.Done()

			start := time.Now()
			defer func() {
				progress.finish(results[i].Succeeded(), time.Since(start))
			}()

			if err := ctx.Err(); err != nil {
				results[i] = FileResult{File: file, Err: err}
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = FileResult{File: file, Err: ctx.Err()}
				return
			}
			results[i] = c.transcribeFile(ctx, file)
			<-sem
		}(i, file)
	}
	wg.Wait()
	return results
}

func (c *Converter) transcribeFile(ctx context.Context, file model.FileInfo) FileResult {
	logger := c.logger.With(zap.String("file", file.FullPath))

	f, err := os.Open(file.FullPath)
	if err != nil {
		logger.Error("failed to open audio file", zap.Error(err))
		return FileResult{File: file, Err: fmt.Errorf("failed to open %s: %w", file.FullPath, err)}
	}
	defer f.Close()

	res, err := c.runner.Run(ctx, pipeline.Upload{
		Body:        f,
		Filename:    file.Name,
		ContentType: audio.TypeByExtension(file.Name),
	})
	if err != nil {
		logger.Error("failed to transcribe file", zap.Error(err))
		return FileResult{File: file, Result: res, Err: err}
	}

	logger.Info("transcribed file",
		zap.Bool("persisted", res.Persisted),
		zap.Int("chars", len(res.Text)),
	)
	return FileResult{File: file, Result: res}
}
