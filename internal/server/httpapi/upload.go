package httpapi

import (
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/filex"
)

// maxUploadSize caps a single multipart request body.
const maxUploadSize = 32 << 20 // 32 MB

// UploadHandler writes received attachments under a public directory and
// yields the opaque reference the store keeps. The core never reads the
// file back; the ref is handed out as-is.
type UploadHandler struct {
	dir       string
	publicRef string
}

// NewUploadHandler ensures dir exists and serves refs under publicRef
// (e.g. "/videos"). The stored ref is publicRef + "/" + generated name.
func NewUploadHandler(dir, publicRef string) (*UploadHandler, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &UploadHandler{dir: abs, publicRef: publicRef}, nil
}

// Save extracts the named multipart field from the request, writes it to
// disk under a fresh random name, and returns the public ref plus the byte
// size. A missing field fails with common.ErrInvalidInput.
func (u *UploadHandler) Save(r *http.Request, field string) (string, int64, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", 0, common.ErrInvalidInput
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		return "", 0, err
	}

	return path.Join(u.publicRef, name), size, nil
}
