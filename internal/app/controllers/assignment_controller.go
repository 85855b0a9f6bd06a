package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/services"
	"github.com/tpmanager/backend/internal/middleware"
)

// AssignmentController handles team auto-assignment endpoints
type AssignmentController struct {
	assignmentService *services.TeamAssignmentService
	logger            zerolog.Logger
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.TeamAssignmentService, logger zerolog.Logger) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// AutoAssign runs the team auto-assignment for a TP
// @Summary Auto-assign students to teams
// @Description Distributes every unassigned active student of the TP into teams round-robin, provisioning new teams when needed. Teachers and admins only.
// @Tags assignment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Param request body dto.AutoAssignRequest false "Run options"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResult}
// @Failure 404 {object} dto.ErrorResponse "TP not found"
// @Router /tps/{tpId}/auto-assign [post]
func (c *AssignmentController) AutoAssign(ctx *gin.Context) {
	tpID, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	// The body is optional; an empty body means default options
	var req dto.AutoAssignRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
			return
		}
	}

	actorID, _ := middleware.GetUserID(ctx)

	result, err := c.assignmentService.AutoAssign(ctx.Request.Context(), tpID, actorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("tpID", tpID).
		Bool("success", result.Success).
		Int("assigned", len(result.AssignedTeams)).
		Msg("Auto-assignment request handled")

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ValidateAssignment runs the read-only pre-flight check
// @Summary Validate an assignment run
// @Description Reports whether an auto-assignment run can do anything for the TP and why
// @Tags assignment
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentValidation}
// @Router /tps/{tpId}/auto-assign/validate [get]
func (c *AssignmentController) ValidateAssignment(ctx *gin.Context) {
	tpID, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	validation, err := c.assignmentService.Validate(ctx.Request.Context(), tpID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(validation))
}
