package handlers

import (
	"errors"
	"net/http"
	"path"

	"github.com/geocoder89/designhub/internal/observability"
	"github.com/geocoder89/designhub/internal/storage"
	"github.com/gin-gonic/gin"
)

// UploadsPrefix is where stored files are served from.
const UploadsPrefix = "/uploads/"

type UploadsHandler struct {
	store storage.Store
	prom  *observability.Prom
}

func NewUploadsHandler(store storage.Store, prom *observability.Prom) *UploadsHandler {
	return &UploadsHandler{store: store, prom: prom}
}

// Upload stores the multipart field "file" and returns the relative URL it
// can be fetched from. Content type and size are not checked beyond the
// body cap.
func (h *UploadsHandler) Upload(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.record("too_large", 0)
			RespondPayloadTooLarge(ctx, "Upload is too large")
			return
		}

		h.record("no_file", 0)
		RespondError(ctx, http.StatusBadRequest, "no_file", "No file uploaded", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.record("error", 0)
		RespondInternalErr(ctx, err, "Could not read upload")
		return
	}
	defer f.Close()

	name, err := h.store.Save(ctx.Request.Context(), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		h.record("error", 0)
		RespondInternalErr(ctx, err, "Could not store upload")
		return
	}

	h.record("stored", fh.Size)

	ctx.JSON(http.StatusCreated, gin.H{"url": path.Join(UploadsPrefix, name)})
}

func (h *UploadsHandler) Serve(ctx *gin.Context) {
	obj, err := h.store.Open(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			RespondNotFound(ctx, "File not found")
			return
		}
		RespondInternalErr(ctx, err, "Could not open file")
		return
	}
	defer obj.Close()

	if obj.ContentType != "" {
		ctx.Header("Content-Type", obj.ContentType)
	}
	http.ServeContent(ctx.Writer, ctx.Request, obj.Name, obj.ModTime, obj)
}

func (h *UploadsHandler) record(result string, size int64) {
	if h.prom == nil {
		return
	}
	h.prom.UploadsTotal.WithLabelValues(result).Inc()
	if size > 0 {
		h.prom.UploadBytes.Add(float64(size))
	}
}
