package render

import (
	"fmt"

	"github.com/pkg/browser"
)

var openFile = browser.OpenFile

// Open shows a generated file in the system viewer
func Open(path string) error {
	if err := openFile(path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
