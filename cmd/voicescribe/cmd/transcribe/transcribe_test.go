package transcribe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"voicescribe/internal/app/converter"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/pipeline"
)

func TestPrintResults(t *testing.T) {
	results := []converter.FileResult{
		{
			File:   model.FileInfo{Name: "a.webm"},
			Result: &pipeline.Result{Text: "hello there", State: pipeline.StateDone, Persisted: true},
		},
		{
			File:   model.FileInfo{Name: "silence.webm"},
			Result: &pipeline.Result{Text: "", State: pipeline.StatePersistFailed},
		},
		{
			File: model.FileInfo{Name: "b.mp3"},
			Err:  errors.New("provider returned 503"),
		},
	}

	var out bytes.Buffer
	PrintResults(&out, results, converter.Summarize(results))

	assert.Equal(t, "✓ a.webm\n"+
		"  hello there\n"+
		"✓ silence.webm\n"+
		"✗ b.mp3: provider returned 503\n"+
		"\n3 files: 2 transcribed, 1 failed\n"+
		"warning: 1 transcripts were not saved to history\n", out.String())
}
