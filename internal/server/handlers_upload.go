package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/storage"
)

// Upload limits
const (
	MaxCVFileBytes    = 10 << 20
	MaxPhotoFileBytes = 5 << 20
)

// UploadsPrefix is the URL path stored files are served under.
const UploadsPrefix = "/uploads/"

// multipartOverhead allows for form boundaries and headers around the file part.
const multipartOverhead = 64 << 10

// photoTypes maps accepted photo content types to the extension they are stored with.
var photoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var contentTypes = map[string]string{
	ingestion.FormatPDF:  "application/pdf",
	ingestion.FormatText: "text/plain; charset=utf-8",
}

// readUpload reads the multipart "file" field, rejecting files larger than limit.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File must be at most %d MB", limit>>20))
			return nil, "", false
		}
		errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, "", false
	}
	if int64(len(data)) > limit {
		errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File must be at most %d MB", limit>>20))
		return nil, "", false
	}
	return data, header.Filename, true
}

// handleUploadCV replaces a CV's source file. The extracted text is kept verbatim and, when a
// model is configured, structured into the CV's sections.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	data, fileName, ok := readUpload(w, r, MaxCVFileBytes)
	if !ok {
		return
	}

	doc, err := ingestion.Ingest(fileName, data)
	if err != nil {
		handleError(w, s.log, err)
		return
	}

	key := storage.NewKey(storage.CVDir, fileName)
	if err := s.files.Save(r.Context(), key, bytes.NewReader(data), contentTypes[doc.Metadata.Format]); err != nil {
		handleError(w, s.log, err)
		return
	}
	previous := c.FilePath

	c.FilePath = key
	c.OriginalText = doc.Text
	c.Title = ingestion.TitleFromFileName(fileName)
	c.CurrentVersion = 1

	log := s.log.With(zap.String(logger.FieldCVID, c.ID.String()), zap.String("file", fileName))
	if s.structurer != nil {
		structured, err := s.structurer.Structure(r.Context(), doc.Text, fileName)
		if err != nil {
			log.Warn("CV structuring failed, keeping extracted text only", zap.Error(err))
		} else {
			structured.Apply(&c.Record)
		}
	}
	log.Info("CV file ingested",
		zap.String("format", doc.Metadata.Format),
		zap.Int("pages", doc.Metadata.Pages),
		zap.Int("chars", doc.Metadata.Chars))

	if s.saveCV(w, r, c) && previous != "" && previous != key {
		s.removeFile(r, previous)
	}
}

// handleUploadPhoto stores a profile photo and links it from the CV.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCV(w, r)
	if !ok {
		return
	}
	data, _, ok := readUpload(w, r, MaxPhotoFileBytes)
	if !ok {
		return
	}

	ext, ok := photoTypes[http.DetectContentType(data)]
	if !ok {
		errorResponse(w, http.StatusBadRequest, "Photo must be a JPEG, PNG or WebP image")
		return
	}

	key := storage.NewKey(storage.PhotoDir, "photo"+ext)
	if err := s.files.Save(r.Context(), key, bytes.NewReader(data), mime.TypeByExtension(ext)); err != nil {
		handleError(w, s.log, err)
		return
	}
	previous := c.PhotoPath

	c.PhotoPath = key
	if c.PersonalInfo == nil {
		c.PersonalInfo = map[string]any{}
	}
	c.PersonalInfo[cv.KeyPhoto] = UploadsPrefix + key

	if s.saveCV(w, r, c) && previous != "" && previous != key {
		s.removeFile(r, previous)
	}
}

// handleUploads serves a stored file by key.
func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("path")
	rc, err := s.files.Open(r.Context(), key)
	if err != nil {
		handleError(w, s.log, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		s.log.Warn("failed to stream stored file", zap.String("key", key), zap.Error(err))
	}
}
