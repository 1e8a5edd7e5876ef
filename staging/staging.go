// Package staging copies multipart/form-data file parts to uniquely
// named temporary files so pipeline stages can operate on plain paths.
package staging

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrStreamFailed is returned when a part's bytes cannot be fully
// written to its staged file.
var ErrStreamFailed = errors.New("failed to stage multipart part")

// Staged maps a multipart form field name to the absolute path of the
// temp file its contents were streamed into.
type Staged map[string]string

// Cleanup removes every path recorded in a Staged map. It is safe to
// call multiple times and ignores missing files.
func (s Staged) Cleanup() {
	for _, path := range s {
		_ = os.Remove(path)
	}
}

// Request parses r's multipart body with ParseMultipartForm, which holds
// up to maxMemory bytes of file parts in memory (spilling the rest to
// net/http's own temp files), then copies the first file of each field
// into a fresh temp file, returning the field-name-to-path mapping. File
// contents are therefore not streamed straight from the request body.
//
// Parts without a filename are left for the standard form decoder and do
// not appear in the result. On any I/O error, the partially written file
// for the failing part is removed, every sibling file already staged is
// removed too, and Request returns a nil map with the error.
func Request(r *http.Request, maxMemory int64) (Staged, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, errors.Wrap(err, "failed to parse multipart form")
	}

	staged := Staged{}
	if r.MultipartForm == nil {
		return staged, nil
	}

	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		path, err := stagePart(r.MultipartForm, field, headers[0])
		if err != nil {
			staged.Cleanup()
			return nil, err
		}
		staged[field] = path
	}

	return staged, nil
}

func stagePart(form *multipart.Form, field string, header *multipart.FileHeader) (string, error) {
	if header.Filename == "" {
		return "", nil
	}

	src, err := header.Open()
	if err != nil {
		return "", errors.Wrap(ErrStreamFailed, err.Error())
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "bry-"+sanitize(field)+"-"+uuid.New().String()+"-*")
	if err != nil {
		return "", errors.Wrap(ErrStreamFailed, err.Error())
	}
	destPath := dst.Name()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(destPath)
		return "", errors.Wrap(ErrStreamFailed, err.Error())
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(destPath)
		return "", errors.Wrap(ErrStreamFailed, err.Error())
	}

	return destPath, nil
}

func sanitize(field string) string {
	return filepath.Base(field)
}
