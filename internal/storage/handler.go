package storage

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/frahmantamala/user-management/pkg/logger"
)

const defaultMaxUploadBytes = 10 << 20

// PermissionTypes maps file operations to the roles allowed to perform them.
var PermissionTypes = auth.PermissionTable{
	"upload":   {auth.UserTypeAdmin},
	"download": {auth.UserTypeAdmin},
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	maxUploadBytes int64
}

func NewHandler(svc ServiceAPI, maxUploadMB int) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	maxBytes := int64(maxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(lg),
		Service:        svc,
		maxUploadBytes: maxBytes,
	}
}

// UploadFile handles POST /files with a multipart "file" field.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stored, err := h.Service.Upload(r.Context(), principal.ID, header.Filename, contentType, header.Size, file)
	if err != nil {
		h.Logger.Error("UploadFile: service error", "error", err, "file_name", header.Filename)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, stored)
}

// GetFileURL handles GET /files/url?object_name=... and returns a presigned
// download URL.
func (h *Handler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	dto := GetURLDTO{ObjectName: r.URL.Query().Get("object_name")}

	url, err := h.Service.PresignedURL(r.Context(), dto)
	if err != nil {
		var vErr ValidationError
		if errors.As(err, &vErr) {
			h.WriteError(w, http.StatusBadRequest, vErr.Msg)
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
