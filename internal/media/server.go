// Package media serves stored chat images and provides the S3 image host.
package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gochat/internal/common"
	"gochat/internal/dbmongo"
)

// FileSource is the read side of the image store.
type FileSource interface {
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

type HTTPServer struct {
	storage FileSource
	router  *mux.Router
	log     *zap.Logger
}

func NewHTTPServer(storage FileSource, log *zap.Logger) *HTTPServer {
	s := &HTTPServer{storage: storage, router: mux.NewRouter(), log: log}
	s.router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, file, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Error("media lookup failed", zap.String("file_id", fileID), zap.Error(err))
		}
		common.WriteError(w, err)
		return
	}
	defer reader.Close()

	contentType := file.MIMEType
	if contentType == "" {
		contentType = contentTypeFor(file.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if _, err := io.Copy(w, reader); err != nil {
		s.log.Warn("media stream interrupted", zap.String("file_id", fileID), zap.Error(err))
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
