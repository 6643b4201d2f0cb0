package converter

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressConfig controls the batch progress bar. A nil Writer means stderr.
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// batchProgress is one bar for one TranscribeFiles call. The zero value
// renders nothing.
type batchProgress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	failed    atomic.Int64
}

func newBatchProgress(cfg ProgressConfig, files int) *batchProgress {
	bp := &batchProgress{}
	if !cfg.Enabled || files == 0 {
		return bp
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	// Auto refresh keeps rendering when the writer is not a terminal.
	bp.container = mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithAutoRefresh(),
	)
	bp.bar = bp.container.AddBar(int64(files),
		mpb.PrependDecorators(
			decor.Name("Transcribing", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d files", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Any(bp.failures, decor.WCSyncSpace),
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), "done"),
		),
	)
	return bp
}

func (bp *batchProgress) failures(decor.Statistics) string {
	if n := bp.failed.Load(); n > 0 {
		return fmt.Sprintf("%d failed", n)
	}
	return ""
}

// finish records one file. elapsed feeds the ETA average.
func (bp *batchProgress) finish(ok bool, elapsed time.Duration) {
	if bp.bar == nil {
		return
	}
	if !ok {
		bp.failed.Add(1)
	}
	bp.bar.EwmaIncrement(elapsed)
}

// wait blocks until the bar has rendered its final state.
func (bp *batchProgress) wait() {
	if bp.container != nil {
		bp.container.Wait()
	}
}

// IsTTY reports whether writer is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok || file == nil {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// ShouldShowProgress enables bars when forced or when stderr is a terminal.
func ShouldShowProgress(forced bool) bool {
	return forced || IsTTY(os.Stderr)
}
