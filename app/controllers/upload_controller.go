package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fashionhub/storefront/pkg/response"
	"github.com/fashionhub/storefront/pkg/storage"

	"github.com/google/uuid"
)

const maxUploadBytes = 8 << 20 // 8 MB

var allowedDesignExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".svg": true,
}

// UploadController stores uploaded design images on the configured disk.
type UploadController struct{}

// NewUploadController creates the controller.
func NewUploadController() *UploadController {
	return &UploadController{}
}

// Design handles POST /api/v1/uploads/design. The stored URL is what
// clients put in an order line's customization designUrl.
func (c *UploadController) Design(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("design")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing design file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedDesignExt[ext] {
		response.Error(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	disk, err := storage.Default()
	if err != nil {
		response.FromError(w, err)
		return
	}

	path := fmt.Sprintf("designs/%s/%s%s",
		time.Now().Format("2006/01"), uuid.NewString(), ext)
	if err := disk.Put(r.Context(), path, file); err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]string{
		"path": path,
		"url":  disk.URL(path),
	})
}
