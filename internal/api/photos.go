package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mlovrec/curio/internal/imaging"
	"github.com/mlovrec/curio/internal/store"
)

// PhotosHandler stores and serves item photos. Photos live on disk as
// <id>.jpg under Dir; the item's image field holds the serving URL.
type PhotosHandler struct {
	Store *store.Store
	Dir   string
}

func (h *PhotosHandler) path(id int64) string {
	return filepath.Join(h.Dir, strconv.FormatInt(id, 10)+".jpg")
}

// Upload handles PUT /api/items/{id}/photo.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if _, ok := h.Store.Get(id); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}
	if err := os.WriteFile(h.path(id), result.Data, 0o644); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	url := fmt.Sprintf("/api/items/%d/photo", id)
	item, err := h.Store.SetImage(r.Context(), id, url)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, newItemView(*item, time.Now()))
}

// Get handles GET /api/items/{id}/photo.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, err := os.ReadFile(h.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, http.StatusNotFound, "no photo")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to read photo")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
