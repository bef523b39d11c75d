package handlers

import (
	"net/http"

	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/upload"
)

// Upload handles POST /api/upload: one MP3 in the mp3file form field,
// answered with the served path and original name.
func Upload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		file, header, err := r.FormFile(upload.FieldName)
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		saved, err := d.Uploads.Save(file, header)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}
