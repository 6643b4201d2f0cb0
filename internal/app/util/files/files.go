package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"

	"voicescribe/internal/app/audio"
	"voicescribe/internal/app/model"
)

// CollectAudioFiles expands paths into audio files. Directories contribute
// their direct children whose extension maps to an audio type. Files named
// explicitly are kept whatever their extension so the pipeline can reject
// them with a reason. The result is ordered oldest first.
func CollectAudioFiles(paths []string) ([]model.FileInfo, error) {
	var infos []model.FileInfo
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !st.IsDir() {
			infos = append(infos, toFileInfo(p, st))
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		audioEntries := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
			return !e.IsDir() && audio.IsAudio(audio.TypeByExtension(e.Name()))
		})
		for _, e := range audioEntries {
			full := filepath.Join(p, e.Name())
			fi, err := e.Info()
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", full, err)
			}
			infos = append(infos, toFileInfo(full, fi))
		}
	}

	infos = lo.UniqBy(infos, func(f model.FileInfo) string { return filepath.Clean(f.FullPath) })
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ModTime.Before(infos[j].ModTime)
	})
	return infos, nil
}

func toFileInfo(path string, fi os.FileInfo) model.FileInfo {
	return model.FileInfo{
		FullPath: path,
		ModTime:  fi.ModTime(),
		Name:     fi.Name(),
		Size:     fi.Size(),
	}
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
