package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/designhub/internal/config"
	"github.com/geocoder89/designhub/internal/domain/design"
	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type DesignStore interface {
	Create(ctx context.Context, req design.CreateRequest) (design.Design, error)
	ListByOwner(ctx context.Context, userID int64) ([]design.Design, error)
}

type DesignsHandler struct {
	designs DesignStore
}

func NewDesignsHandler(designs DesignStore) *DesignsHandler {
	return &DesignsHandler{designs: designs}
}

func (h *DesignsHandler) CreateDesign(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req design.CreateDesignRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	d, err := h.designs.Create(cctx, design.NewCreateRequest(id.UserID, req))
	if err != nil {
		switch {
		case errors.Is(err, design.ErrValidation):
			RespondBadRequest(ctx, err.Error(), nil)
		case errors.Is(err, design.ErrOwnerNotFound):
			// token outlived its account
			RespondUnAuthorized(ctx, "unauthorized", "User no longer exists")
		default:
			RespondInternalErr(ctx, err, "Could not create design")
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"design": d})
}

func (h *DesignsHandler) ListDesigns(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	designs, err := h.designs.ListByOwner(cctx, id.UserID)
	if err != nil {
		RespondInternalErr(ctx, err, "Could not list designs")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"designs": designs})
}
