package model

import "time"

// FileInfo is a local audio file picked up by the batch transcriber.
type FileInfo struct {
	FullPath string
	ModTime  time.Time
	Name     string
	Size     int64
}
