// Package naming maps source WAV paths to their FLAC destinations and
// resolves archive path collisions.
package naming

import (
	"path/filepath"

	"github.com/mewkiz/pkg/pathutil"
)

// OutputPath returns the destination FLAC path for src. With an empty
// outputRoot the destination sits next to the source. Otherwise the source's
// path relative to inputRoot is mirrored under outputRoot.
func OutputPath(src, inputRoot, outputRoot string) (string, error) {
	if outputRoot == "" {
		return pathutil.TrimExt(src) + ".flac", nil
	}
	rel, err := filepath.Rel(inputRoot, src)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputRoot, pathutil.TrimExt(rel)+".flac"), nil
}
