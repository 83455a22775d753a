package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sindoca/api/internal/application/photo"
	"github.com/sindoca/api/internal/pkg/validate"
	"github.com/sindoca/api/internal/transport/http/middleware"
)

// maxPhotoSize caps multipart uploads at 15 MiB.
const maxPhotoSize = 15 << 20

// PhotoHandler handles the shared gallery endpoints.
type PhotoHandler struct {
	svc photo.Service
}

func NewPhotoHandler(svc photo.Service) *PhotoHandler {
	return &PhotoHandler{svc: svc}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	in := &photo.UploadInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Caption:     r.FormValue("caption"),
		Body:        file,
	}
	if takenAt := r.FormValue("taken_at"); takenAt != "" {
		in.TakenAt = &takenAt
	}

	v, err := h.svc.Upload(r.Context(), claims.WorkspaceID, claims.UserID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: v})
}

// UploadBase64 accepts the same upload as a JSON body; web clients without
// multipart support use this path.
func (h *PhotoHandler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Name        string  `json:"name" validate:"required"`
		ContentType string  `json:"content_type" validate:"required"`
		Data        string  `json:"data" validate:"required,base64"`
		Caption     string  `json:"caption"`
		TakenAt     *string `json:"taken_at"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize*2)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "data is not valid base64")
		return
	}

	v, err := h.svc.Upload(r.Context(), claims.WorkspaceID, claims.UserID, &photo.UploadInput{
		Name:        req.Name,
		ContentType: req.ContentType,
		Caption:     req.Caption,
		TakenAt:     req.TakenAt,
		Body:        bytes.NewReader(raw),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: v})
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	views, err := h.svc.List(r.Context(), claims.WorkspaceID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: views})
}

func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	v, err := h.svc.Get(r.Context(), claims.WorkspaceID, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: v})
}

func (h *PhotoHandler) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Caption string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.svc.UpdateCaption(r.Context(), claims.WorkspaceID, chi.URLParam(r, "id"), req.Caption)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: v})
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.WorkspaceID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "photo deleted"})
}
