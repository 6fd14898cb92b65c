package tei

import (
	"fmt"
	"os"
)

// readFile is a package-level var so tests can stub xinclude resolution
// without touching the filesystem.
var readFile = func(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
