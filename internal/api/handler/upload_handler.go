package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"blogapi/internal/common"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler stores post photos on local disk. Stored names are the base
// of the client name prefixed with a random id, which keeps uploads collision
// free and defeats path traversal in the supplied filename.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	name := header.Filename
	if v := r.FormValue("filename"); v != "" {
		name = v
	}
	name = uuid.NewString() + "-" + filepath.Base(name)

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	common.RespondWithJSON(w, http.StatusOK, map[string]string{"photo": name})
}
