package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ReserveArchivePath claims a destination under archiveDir for a converted
// source and returns it. The path is created empty with O_EXCL, so two
// workers archiving same-named sources at once can never claim the same
// file; on a name collision a short random suffix is appended and the claim
// retried.
func ReserveArchivePath(archiveDir, src string) (string, error) {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for {
		dest := filepath.Join(archiveDir, name)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			f.Close()
			return dest, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
		name = fmt.Sprintf("%s_%s%s", stem, suffix, ext)
	}
}
