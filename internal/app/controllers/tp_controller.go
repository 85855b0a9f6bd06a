package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/services"
	"github.com/tpmanager/backend/internal/middleware"
	"github.com/tpmanager/backend/internal/pkg/helpers"
)

// TPController handles Trabajo Práctico endpoints
type TPController struct {
	tpService *services.TPService
	logger    zerolog.Logger
}

// NewTPController creates a new TPController
func NewTPController(tpService *services.TPService, logger zerolog.Logger) *TPController {
	return &TPController{
		tpService: tpService,
		logger:    logger,
	}
}

// CreateTP creates a Trabajo Práctico
// @Summary Create a TP
// @Description Creates a Trabajo Práctico. Teachers and admins only.
// @Tags tps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTPRequest true "TP data"
// @Success 201 {object} dto.APIResponse{data=dto.TPResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /tps [post]
func (c *TPController) CreateTP(ctx *gin.Context) {
	var req dto.CreateTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)

	tp, err := c.tpService.CreateTP(ctx.Request.Context(), actorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(tp))
}

// GetTPByID returns one TP
// @Summary Get a TP
// @Tags tps
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Success 200 {object} dto.APIResponse{data=dto.TPResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /tps/{tpId} [get]
func (c *TPController) GetTPByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	tp, err := c.tpService.GetTPByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tp))
}

// ListTPs returns a page of TPs
// @Summary List TPs
// @Tags tps
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.TPListResponse}
// @Router /tps [get]
func (c *TPController) ListTPs(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	list, err := c.tpService.ListTPs(ctx.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// UpdateTP updates a TP
// @Summary Update a TP
// @Description Updates a TP. Only the creator or an admin.
// @Tags tps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Param request body dto.UpdateTPRequest true "TP data"
// @Success 200 {object} dto.APIResponse{data=dto.TPResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tps/{tpId} [put]
func (c *TPController) UpdateTP(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	var req dto.UpdateTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	tp, err := c.tpService.UpdateTP(ctx.Request.Context(), actorID, actorRole, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tp))
}

// DeleteTP removes a TP
// @Summary Delete a TP
// @Description Deletes a TP with its teams, memberships and tasks. Only the creator or an admin.
// @Tags tps
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tps/{tpId} [delete]
func (c *TPController) DeleteTP(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	if err := c.tpService.DeleteTP(ctx.Request.Context(), actorID, actorRole, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("TP deleted"))
}

// parseIDParam reads a positive int64 path parameter, writing the error
// response itself when the value is malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		if err == nil {
			err = strconv.ErrSyntax
		}
		return 0, err
	}
	return id, nil
}
