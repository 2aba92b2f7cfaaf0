package handlers

import (
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/domain/file"
	"github.com/geocoder89/filehub/internal/fileops"
	"github.com/geocoder89/filehub/internal/http/middlewares"
	"github.com/geocoder89/filehub/internal/utils"
	"github.com/gin-gonic/gin"
)

type FilesHandler struct {
	files *fileops.Service
}

func NewFilesHandler(svc *fileops.Service) *FilesHandler {
	return &FilesHandler{files: svc}
}

type CreateFileRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	ParentID flexID `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func (h *FilesHandler) PostUpload(ctx *gin.Context) {
	actor := middlewares.ActorFromContext(ctx)

	var req CreateFileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	var data []byte

	if req.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)

		if err != nil {
			RespondBadRequest(ctx, file.ErrMissingData.Error())
			return
		}

		data = decoded
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	created, err := h.files.Upload(cctx, fileops.CreateInput{
		OwnerID:  actor,
		Name:     req.Name,
		Type:     file.Type(req.Type),
		ParentID: int64(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     data,
	})

	if err != nil {
		respondFileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, fileJSON(created))
}

func (h *FilesHandler) GetShow(ctx *gin.Context) {
	actor := middlewares.ActorFromContext(ctx)
	id := pathID(ctx.Param("id"))

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	f, err := h.files.Stat(cctx, actor, id)

	if err != nil {
		respondFileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, fileJSON(f))
}

func (h *FilesHandler) GetIndex(ctx *gin.Context) {
	actor := middlewares.ActorFromContext(ctx)
	parentID := utils.NormalizeParentID(ctx.Query("parentId"))
	page := utils.NormalizePage(ctx.Query("page"))

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	list, err := h.files.List(cctx, actor, parentID, page)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	docs := make([]gin.H, 0, len(list))

	for _, f := range list {
		docs = append(docs, fileJSON(f))
	}

	ctx.JSON(http.StatusOK, docs)
}

func (h *FilesHandler) PutPublish(ctx *gin.Context) {
	h.setVisibility(ctx, true)
}

func (h *FilesHandler) PutUnpublish(ctx *gin.Context) {
	h.setVisibility(ctx, false)
}

func (h *FilesHandler) setVisibility(ctx *gin.Context, isPublic bool) {
	actor := middlewares.ActorFromContext(ctx)
	id := pathID(ctx.Param("id"))

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	f, err := h.files.SetVisibility(cctx, actor, id, isPublic)

	if err != nil {
		respondFileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, fileJSON(f))
}

// GetContent streams the stored bytes. Anonymous requests are allowed;
// visibility rules decide what they can see.
func (h *FilesHandler) GetContent(ctx *gin.Context) {
	actor := middlewares.ActorFromContext(ctx)
	id := pathID(ctx.Param("id"))

	width := 0

	// only the known widths select a variant; any other size value just
	// serves the original bytes
	if size := ctx.Query("size"); size != "" {
		if w, err := strconv.Atoi(size); err == nil && isKnownWidth(w) {
			width = w
		}
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	data, f, err := h.files.Content(cctx, actor, id, width)

	if err != nil {
		respondFileError(ctx, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Data(http.StatusOK, contentType, data)
}

func isKnownWidth(w int) bool {
	for _, known := range fileops.ThumbnailWidths {
		if w == known {
			return true
		}
	}

	return false
}

func respondFileError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, file.ErrMissingName),
		errors.Is(err, file.ErrMissingType),
		errors.Is(err, file.ErrMissingData),
		errors.Is(err, file.ErrParentNotFound),
		errors.Is(err, file.ErrParentNotFolder),
		errors.Is(err, file.ErrFolderNoContent):
		RespondBadRequest(ctx, err.Error())
	case errors.Is(err, file.ErrNotFound):
		RespondNotFound(ctx)
	default:
		RespondInternal(ctx)
	}
}
