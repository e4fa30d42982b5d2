package fileingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"triage/internal/models"
)

// errLimitReached stops a walk once Options.MaxFiles handles were collected.
var errLimitReached = errors.New("file limit reached")

// Options controls which files a folder selection yields.
type Options struct {
	IncludeHidden bool
	MaxFiles      int // 0 means unlimited
}

/*
DiscoverFiles recursively lists the regular files under rootDir the way a
browser folder selection does: every handle carries a relative path that
starts with the selected folder's name and uses forward slashes.

File content is never read.
*/
func DiscoverFiles(ctx context.Context, rootDir string, opts Options) ([]models.FileHandle, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat '%s': %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", rootDir)
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}
	base := filepath.Base(absRoot)

	var files []models.FileHandle
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries are skipped, the root itself was checked above.
			log.Warnf("Skipping '%s': %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != rootDir && !opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = d.Name()
		}
		handle, metaErr := ExtractFileMeta(path)
		if metaErr != nil {
			log.Warnf("Skipping '%s': %v", path, metaErr)
			return nil
		}
		handle.RelativePath = filepath.ToSlash(filepath.Join(base, rel))
		files = append(files, handle)

		if opts.MaxFiles > 0 && len(files) >= opts.MaxFiles {
			return errLimitReached
		}
		return nil
	})
	if errors.Is(err, errLimitReached) {
		log.Warnf("Stopped scanning '%s' after %d files", rootDir, opts.MaxFiles)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return files, nil
}

/*
ExtractFileMeta builds a handle for a single file path.

RelativePath is left empty, so the registry falls back to the name.
*/
func ExtractFileMeta(path string) (models.FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.FileHandle{}, err
	}
	if info.IsDir() {
		return models.FileHandle{}, fmt.Errorf("'%s' is a directory", path)
	}
	return models.FileHandle{
		Name:         info.Name(),
		Size:         info.Size(),
		MimeType:     MimeTypeByName(info.Name()),
		LastModified: info.ModTime(),
	}, nil
}

// MimeTypeByName guesses the MIME type from the extension only, like a
// browser file input does. Unknown extensions yield "".
func MimeTypeByName(name string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mediaType
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
