package fu

import (
	"go-ml.dev/pkg/iokit"
	"path/filepath"
)

/*
DatasetPath returns the root folder of datasets.
The empty string means the go-ml cache folder, any other path is returned as is
*/
func DatasetPath(s string) string {
	if s == "" {
		return iokit.CacheFile(filepath.Join("go-ml", "Datasets"))
	}
	return s
}
