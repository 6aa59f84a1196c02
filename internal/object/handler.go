package object

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"

	"github.com/filedock/service/internal/logger"
	"github.com/filedock/service/internal/response"
	"github.com/filedock/service/internal/storage"
)

const (
	// MaxFilesPerRequest caps the number of files accepted by upload-multiple.
	MaxFilesPerRequest = 10

	multipartMemory = 32 << 20
)

// HandlerConfig carries the request-level settings of a Handler.
type HandlerConfig struct {
	// MaxUploadSize bounds the request body of upload requests. Zero disables the limit.
	MaxUploadSize int64
	// PublicBaseURL prefixes preview URLs. When empty the request's host is used.
	PublicBaseURL string
}

// Handler holds HTTP handlers for the storage endpoints.
type Handler struct {
	svc      *Service
	cfg      HandlerConfig
	validate *validator.Validate
}

// NewHandler creates a new object Handler.
func NewHandler(svc *Service, cfg HandlerConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg, validate: validator.New()}
}

// Register mounts the storage endpoints on r. JSON endpoints are gzip
// compressed; file content is served as stored so Content-Length,
// Accept-Ranges and the ETag describe the stored bytes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(compress)
		r.Post("/upload", h.Upload)
		r.Post("/upload-multiple", h.UploadMultiple)
		r.Get("/files", h.List)
		r.Delete("/files", h.DeleteMany)
		r.Get("/files/{key}", h.Get)
		r.Delete("/files/{key}", h.Delete)
		r.Get("/preview/{key}", h.Preview)
	})

	r.Get("/files/{key}/view", h.View)
	r.Get("/download/{key}", h.Download)
}

func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores one file from the multipart field "file" and returns its key.
//	@Tags			storage
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to store"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/storage/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	u, err := readUpload(file, header)
	if err != nil {
		response.InternalError(w, "Failed to read uploaded file")
		return
	}

	stored, err := h.svc.Upload(r.Context(), u)
	if err != nil {
		response.FromError(w, err, "Failed to upload file")
		return
	}

	response.OK(w, response.Fields{
		"message": "File uploaded successfully",
		"file":    stored,
	})
}

// UploadMultiple godoc
//
//	@Summary		Upload several files
//	@Description	Stores up to 10 files from the multipart field "files". Files that fail to store are skipped.
//	@Tags			storage
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files	formData	file	true	"Files to store"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Router			/storage/upload-multiple [post]
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.BadRequest(w, "No files uploaded")
		return
	}
	if len(headers) > MaxFilesPerRequest {
		response.BadRequest(w, fmt.Sprintf("Too many files (max %d)", MaxFilesPerRequest))
		return
	}

	log := logger.FromContext(r.Context())
	files := make([]*Uploaded, 0, len(headers))
	for _, header := range headers {
		stored, err := h.uploadPart(r, header)
		if err != nil {
			log.ErrorWith("upload skipped", err, map[string]any{"filename": header.Filename})
			continue
		}
		files = append(files, stored)
	}

	response.OK(w, response.Fields{
		"message": fmt.Sprintf("%d file(s) uploaded successfully", len(files)),
		"files":   files,
	})
}

// List godoc
//
//	@Summary		List files
//	@Description	Returns every stored file, newest first.
//	@Tags			storage
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/storage/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list files")
		return
	}
	response.OK(w, response.Fields{"count": len(files), "files": files})
}

// Get godoc
//
//	@Summary		Get file info
//	@Tags			storage
//	@Produce		json
//	@Param			key	path		string	true	"Object key"
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/storage/files/{key} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	obj, err := h.svc.Get(r.Context(), key)
	if err != nil {
		response.FromError(w, err, "Failed to get file info")
		return
	}
	response.OK(w, response.Fields{"file": obj})
}

// View godoc
//
//	@Summary		View a file
//	@Description	Returns the file content inline with its stored content type.
//	@Tags			storage
//	@Produce		octet-stream
//	@Param			key	path	string	true	"Object key"
//	@Success		200
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/storage/files/{key}/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// Download godoc
//
//	@Summary		Download a file
//	@Description	Returns the file content as an attachment named after the original upload.
//	@Tags			storage
//	@Produce		octet-stream
//	@Param			key	path	string	true	"Object key"
//	@Success		200
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/storage/download/{key} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

// Preview godoc
//
//	@Summary		Get a preview URL
//	@Description	Returns a URL that renders the file inline. The URL does not expire.
//	@Tags			storage
//	@Produce		json
//	@Param			key	path		string	true	"Object key"
//	@Success		200	{object}	map[string]any
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/storage/preview/{key} [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.Get(r.Context(), key); err != nil {
		response.FromError(w, err, "Failed to generate preview URL")
		return
	}
	response.OK(w, response.Fields{
		"url":       h.baseURL(r) + Location(key) + "/view",
		"expiresIn": nil,
	})
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Tags			storage
//	@Produce		json
//	@Param			key	path		string	true	"Object key"
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/storage/files/{key} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), key); err != nil {
		response.FromError(w, err, "Failed to delete file")
		return
	}
	response.OK(w, response.Fields{"message": "File deleted successfully", "key": key})
}

type deleteManyRequest struct {
	Keys []string `json:"keys" validate:"required,min=1"`
}

// DeleteMany godoc
//
//	@Summary		Delete several files
//	@Description	Deletes every listed key independently and reports how many were removed.
//	@Tags			storage
//	@Accept			json
//	@Produce		json
//	@Param			body	body		deleteManyRequest	true	"Keys to delete"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	response.ErrorBody
//	@Router			/storage/files [delete]
func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req deleteManyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "No keys provided")
		return
	}

	deleted := h.svc.DeleteMany(r.Context(), req.Keys)
	response.OK(w, response.Fields{
		"message": fmt.Sprintf("%d file(s) deleted successfully", deleted),
		"deleted": deleted,
	})
}

// parseMultipart bounds and parses the multipart body. It writes the error
// response and returns false on failure.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestTooLarge(w, "File too large")
			return false
		}
		response.BadRequest(w, "No file uploaded")
		return false
	}
	return true
}

func (h *Handler) uploadPart(r *http.Request, header *multipart.FileHeader) (*Uploaded, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	u, err := readUpload(file, header)
	if err != nil {
		return nil, err
	}
	return h.svc.Upload(r.Context(), u)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, attachment bool) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	obj, data, err := h.svc.Content(r.Context(), key)
	if err != nil {
		response.FromError(w, err, "Failed to read file")
		return
	}

	header := w.Header()
	header.Set("Content-Type", obj.ContentType)
	header.Set("ETag", strconv.Quote(strconv.FormatInt(obj.LastModified.UnixMilli(), 10)))
	if attachment {
		header.Set("Content-Disposition", contentDisposition(obj.OriginalName))
	}
	http.ServeContent(w, r, "", obj.LastModified, bytes.NewReader(data))
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.PublicBaseURL != "" {
		return h.cfg.PublicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

func readUpload(file multipart.File, header *multipart.FileHeader) (Upload, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, err
	}
	return Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// keyParam returns the decoded {key} path parameter. chi matches on the raw
// path when the request carries escaped separators, so those are decoded here.
func keyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(key)
		if err != nil {
			response.BadRequest(w, "Invalid key")
			return "", false
		}
		key = decoded
	}
	if err := storage.ValidateKey(key); err != nil {
		response.BadRequest(w, "Invalid key")
		return "", false
	}
	return key, true
}

func contentDisposition(filename string) string {
	if filename == "" {
		return "attachment"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
