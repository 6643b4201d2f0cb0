// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"time"

	"voicescribe/internal/app/model"
)

// WAVHeader is a minimal PCM WAV header; content sniffing reports audio/wav.
var WAVHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x40\x1f\x00\x00\x80\x3e\x00\x00\x02\x00\x10\x00data\x00\x00\x00\x00")

// SilenceWebM stands in for a browser recording of silence. Providers return
// an empty transcript for it.
var SilenceWebM = []byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\xf7\x81\x01\x42\xf2\x81\x04\x42\xf3\x81\x08\x42\x82\x84webm\x42\x87\x81\x04\x42\x85\x81\x02")

// PlainText is what a user gets when they pick the wrong file.
var PlainText = []byte("shopping list: eggs, milk, coffee\n")

// SampleTranscripts are history records, newest first.
var SampleTranscripts = []model.Transcript{
	{
		ID:        3,
		Text:      "Remember to send the quarterly report before Friday.",
		CreatedAt: time.Date(2025, 2, 3, 9, 15, 0, 0, time.UTC),
	},
	{
		ID:        2,
		Text:      "",
		CreatedAt: time.Date(2025, 2, 2, 18, 0, 0, 0, time.UTC),
	},
	{
		ID:        1,
		Text:      "Testing one two three.",
		CreatedAt: time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC),
	},
}
