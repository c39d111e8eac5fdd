package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve locates the dataset file for path.
//
// A regular file is used as is. A directory must contain exactly one .csv file
// at its top level; datasets are never merged.
func Resolve(path string) (DatasetFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DatasetFile{}, err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return DatasetFile{}, err
		}
		var csvs []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				continue
			}
			csvs = append(csvs, filepath.Join(path, e.Name()))
		}
		switch len(csvs) {
		case 0:
			return DatasetFile{}, fmt.Errorf("no .csv dataset in %s", path)
		case 1:
			return Resolve(csvs[0])
		default:
			return DatasetFile{}, fmt.Errorf("%d .csv files in %s, pass one with --data", len(csvs), path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return DatasetFile{
		Path:      abs,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}
