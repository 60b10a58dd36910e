package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/resale-labs/lister/internal/photos"
)

// Limit each uploaded file to 10MB.
const maxUploadBytes = 10 * 1024 * 1024

// handlePhotoUpload ingests one or more photos from a multipart form into
// the batch. A file with unreadable image bytes is skipped and reported;
// the rest of the upload continues.
func (h *Handler) handlePhotoUpload(w http.ResponseWriter, r *http.Request, batchID string) {
	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		h.writeError(w, "No files in upload", http.StatusBadRequest)
		return
	}

	var accepted []map[string]any
	var rejected []map[string]string

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": header.Filename, "error": err.Error()})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": header.Filename, "error": err.Error()})
			continue
		}
		if len(data) >= maxUploadBytes {
			rejected = append(rejected, map[string]string{"filename": header.Filename, "error": "file too large (max 10MB)"})
			continue
		}

		p, err := photos.Ingest(data, header.Filename)
		if err != nil {
			var decodeErr *photos.DecodeError
			if errors.As(err, &decodeErr) {
				slog.Warn("Skipping undecodable upload", "filename", header.Filename, "err", err)
				rejected = append(rejected, map[string]string{"filename": header.Filename, "error": err.Error()})
				continue
			}
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		b.AddPhoto(p)
		accepted = append(accepted, map[string]any{
			"hash":     p.Hash,
			"filename": p.Filename,
			"width":    p.Width,
			"height":   p.Height,
		})
	}

	slog.Info("Uploaded photos", "batch_id", batchID, "accepted", len(accepted), "rejected", len(rejected))
	h.writeJSON(w, map[string]any{
		"accepted": accepted,
		"rejected": rejected,
		"total":    b.PhotoCount(),
	})
}

// handleThumbnail serves the display thumbnail for one photo.
func (h *Handler) handleThumbnail(w http.ResponseWriter, r *http.Request, batchID, hash string) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	p, exists := b.Photo(hash)
	if !exists {
		h.writeError(w, "Photo not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(p.Thumbnail); err != nil {
		slog.Error("Unable to write thumbnail", "err", err)
	}
}
