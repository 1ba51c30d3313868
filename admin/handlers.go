package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kariqs/amexan-catalog/catalogapi"
	"github.com/Kariqs/amexan-catalog/productedit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20

type Handler struct {
	registry *Registry
	logger   *zap.Logger
}

func NewHandler(registry *Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, logger: logger}
}

// credential is the operator's bearer token, forwarded to the catalog API.
func credential(ctx *gin.Context) string {
	token, _ := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	return strings.TrimSpace(token)
}

// errorStatus maps editor and catalog errors to HTTP statuses.
func errorStatus(err error) int {
	var apiErr *catalogapi.APIError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, productedit.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, productedit.ErrCommitInProgress):
		return http.StatusConflict
	case errors.Is(err, productedit.ErrImageNotFound), errors.Is(err, productedit.ErrNoOriginalImage):
		return http.StatusNotFound
	case errors.Is(err, productedit.ErrInvalidScope),
		errors.Is(err, productedit.ErrIndexOutOfRange),
		errors.Is(err, productedit.ErrInvalidField),
		errors.Is(err, productedit.ErrInvalidDraft),
		errors.Is(err, productedit.ErrNoVariants),
		errors.Is(err, productedit.ErrVariantPersisted),
		errors.Is(err, productedit.ErrMissingProductID):
		return http.StatusBadRequest
	case errors.Is(err, productedit.ErrCreateFailed),
		errors.Is(err, productedit.ErrUpdateFailed),
		errors.Is(err, productedit.ErrReloadFailed),
		errors.Is(err, productedit.ErrReorderFailed):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// respond answers with the draft and the messages the operation produced.
// On err the status follows errorStatus.
func respond(ctx *gin.Context, s *Session, status int, err error, extra gin.H) {
	body := gin.H{
		"draft":    newDraftView(s),
		"messages": s.Messages(),
	}
	for k, v := range extra {
		body[k] = v
	}
	if err != nil {
		status = errorStatus(err)
		body["message"] = "Request failed"
		body["error"] = err.Error()
	}
	ctx.JSON(status, body)
}

// session loads and locks the session named in the path. The returned
// function unlocks it.
func (h *Handler) session(ctx *gin.Context) (*Session, func(), bool) {
	s, err := h.registry.Get(ctx.Param("session"))
	if err != nil {
		respondWithError(ctx, http.StatusNotFound, "Session not found", err)
		return nil, nil, false
	}
	if s.editor.Submitting() {
		respondWithError(ctx, http.StatusConflict, "Commit in progress", productedit.ErrCommitInProgress)
		return nil, nil, false
	}
	s.mu.Lock()
	return s, s.mu.Unlock, true
}

func scopeFromQuery(ctx *gin.Context) (productedit.Scope, error) {
	raw := ctx.Query("variant")
	if raw == "" {
		return productedit.ProductScope, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return productedit.Scope{}, productedit.ErrInvalidScope
	}
	return productedit.VariantScope(i), nil
}

func pathIndex(ctx *gin.Context, name string) (int, error) {
	i, err := strconv.Atoi(ctx.Param(name))
	if err != nil || i < 0 {
		return 0, productedit.ErrIndexOutOfRange
	}
	return i, nil
}

type openRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) OpenDraft(ctx *gin.Context) {
	var req openRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, err := h.registry.Open(ctx.Request.Context(), credential(ctx), req.ProductID)
	if err != nil {
		h.logger.Warn("open draft failed", zap.String("productId", req.ProductID), zap.Error(err))
		respondWithError(ctx, errorStatus(err), "Unable to open product", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(ctx, s, http.StatusCreated, nil, nil)
}

func (h *Handler) GetDraft(ctx *gin.Context) {
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	respond(ctx, s, http.StatusOK, nil, nil)
}

func (h *Handler) CloseDraft(ctx *gin.Context) {
	if err := h.registry.Close(ctx.Param("session")); err != nil {
		respondWithError(ctx, http.StatusNotFound, "Session not found", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

func (h *Handler) UpdateFields(ctx *gin.Context) {
	var fields map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	respond(ctx, s, http.StatusOK, applyProductFields(s.editor.Draft(), fields), nil)
}

type variantRequest struct {
	Title           string  `json:"title" binding:"required"`
	Price           float64 `json:"price" binding:"gte=0"`
	SKU             string  `json:"sku"`
	InventoryPolicy string  `json:"inventoryPolicy" binding:"omitempty,oneof=deny continue"`
	Option1         string  `json:"option1"`
	Available       int     `json:"available" binding:"gte=0"`
	Cost            float64 `json:"cost" binding:"gte=0"`
}

func (h *Handler) AddVariant(ctx *gin.Context) {
	var req variantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index := s.editor.Draft().AddVariant(productedit.VariantDraft{
		Title:           req.Title,
		Price:           req.Price,
		SKU:             req.SKU,
		InventoryPolicy: productedit.InventoryPolicy(req.InventoryPolicy),
		Option1:         req.Option1,
		Available:       req.Available,
		Cost:            req.Cost,
	})
	respond(ctx, s, http.StatusCreated, nil, gin.H{"index": index})
}

func (h *Handler) UpdateVariant(ctx *gin.Context) {
	var fields map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index, err := pathIndex(ctx, "index")
	if err == nil {
		err = applyVariantFields(s.editor.Draft(), index, fields)
	}
	respond(ctx, s, http.StatusOK, err, nil)
}

func (h *Handler) RemoveVariant(ctx *gin.Context) {
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index, err := pathIndex(ctx, "index")
	if err == nil {
		err = s.editor.Draft().RemoveVariant(index)
	}
	respond(ctx, s, http.StatusOK, err, nil)
}

// AddUpload queues the multipart "image" file for upload on commit.
func (h *Handler) AddUpload(ctx *gin.Context) {
	scope, err := scopeFromQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid scope", err)
		return
	}
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	if fileHeader.Size > maxUploadSize {
		respondWithError(ctx, http.StatusBadRequest, "File too large", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	pending, err := s.editor.MarkForUpload(scope, productedit.LocalFile{Name: fileHeader.Filename, Data: data}, ctx.PostForm("altText"))
	respond(ctx, s, http.StatusCreated, err, gin.H{"preview": pending.Preview()})
}

func (h *Handler) CancelUpload(ctx *gin.Context) {
	scope, err := scopeFromQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid scope", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index, err := pathIndex(ctx, "index")
	if err == nil {
		err = s.editor.CancelUpload(scope, index)
	}
	respond(ctx, s, http.StatusOK, err, nil)
}

type deletionRequest struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (h *Handler) MarkDeletion(ctx *gin.Context) {
	scope, err := scopeFromQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid scope", err)
		return
	}
	var req deletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	err = s.editor.MarkForDeletion(scope, productedit.ImageRef{ID: req.ID, URL: req.URL})
	respond(ctx, s, http.StatusOK, err, nil)
}

func (h *Handler) UndoDeletion(ctx *gin.Context) {
	scope, err := scopeFromQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid scope", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index, err := pathIndex(ctx, "index")
	if err == nil {
		_, err = s.editor.UndoDeletion(scope, index)
	}
	respond(ctx, s, http.StatusOK, err, nil)
}

func (h *Handler) SetFeatured(ctx *gin.Context) {
	scope, err := scopeFromQuery(ctx)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid scope", err)
		return
	}
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	index, err := pathIndex(ctx, "index")
	if err == nil {
		err = s.editor.SetFeatured(ctx.Request.Context(), credential(ctx), scope, index)
	}
	respond(ctx, s, http.StatusOK, err, nil)
}

// Commit runs the editor's commit. Per-image failures come back in the
// report with status 200; a failed product call answers with an error
// status and whatever the report holds.
func (h *Handler) Commit(ctx *gin.Context) {
	s, unlock, ok := h.session(ctx)
	if !ok {
		return
	}
	defer unlock()
	report, err := s.editor.Commit(ctx.Request.Context(), credential(ctx))
	if err != nil {
		h.logger.Warn("commit failed", zap.String("session", s.ID), zap.Error(err))
	}
	respond(ctx, s, http.StatusOK, err, gin.H{"report": report})
}
