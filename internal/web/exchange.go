package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/conorfennell/edusprint/internal/exchange"
)

// maxImportBytes bounds the size of an uploaded export.
const maxImportBytes = 8 << 20

// ExportFilename is suggested to the browser for downloads.
const ExportFilename = "edusprint-export.json"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	payload, err := exchange.Export(s.store.Snapshot())
	if err != nil {
		slog.Error("Error exporting data set", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Write(payload)
}

// handleImport replaces the data set with an uploaded export. The payload
// comes from the "file" upload or the "payload" form field. A rejected
// payload leaves the data set as it was.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	payload, err := readImport(r)
	if err != nil {
		slog.Warn("Error reading import", "error", err)
		s.renderIndex(w, http.StatusBadRequest, "Import failed")
		return
	}

	ds, err := exchange.Import(payload)
	if err != nil {
		slog.Warn("Rejected import", "error", err)
		s.renderIndex(w, http.StatusBadRequest, "Import failed")
		return
	}
	if err := s.store.Replace(ds); err != nil {
		slog.Error("Error saving import", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, noticeURL("Import complete"), http.StatusSeeOther)
}

func readImport(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	f, _, err := r.FormFile("file")
	if err == nil {
		defer f.Close()
		return io.ReadAll(f)
	}
	if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	payload := r.FormValue("payload")
	if payload == "" {
		return nil, errors.New("no import payload")
	}
	return []byte(payload), nil
}
