package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/services"
	"github.com/tpmanager/backend/internal/middleware"
)

// TeamController handles team endpoints
type TeamController struct {
	teamService *services.TeamService
	logger      zerolog.Logger
}

// NewTeamController creates a new TeamController
func NewTeamController(teamService *services.TeamService, logger zerolog.Logger) *TeamController {
	return &TeamController{
		teamService: teamService,
		logger:      logger,
	}
}

// CreateTeam creates a team in a TP
// @Summary Create a team
// @Description Creates a team in a TP; the creator joins it as leader
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Param request body dto.CreateTeamRequest true "Team data"
// @Success 201 {object} dto.APIResponse{data=dto.TeamResponse}
// @Failure 409 {object} dto.ErrorResponse "Name taken or user already in a team"
// @Router /tps/{tpId}/teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	tpID, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	var req dto.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)

	team, err := c.teamService.CreateTeam(ctx.Request.Context(), actorID, tpID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(team))
}

// ListTeamsByTP returns every team of a TP
// @Summary List teams of a TP
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param tpId path int true "TP ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /tps/{tpId}/teams [get]
func (c *TeamController) ListTeamsByTP(ctx *gin.Context) {
	tpID, err := parseIDParam(ctx, "tpId")
	if err != nil {
		return
	}

	teams, err := c.teamService.ListTeamsByTP(ctx.Request.Context(), tpID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(teams))
}

// GetTeamByID returns one team with its members
// @Summary Get a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{teamId} [get]
func (c *TeamController) GetTeamByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "teamId")
	if err != nil {
		return
	}

	team, err := c.teamService.GetTeamByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// JoinTeam joins a team by its join code
// @Summary Join a team
// @Description Adds the authenticated user to the team matching the join code
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinTeamRequest true "Join code"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse}
// @Failure 404 {object} dto.ErrorResponse "Invalid join code"
// @Failure 409 {object} dto.ErrorResponse "Team full or user already in a team"
// @Router /teams/join [post]
func (c *TeamController) JoinTeam(ctx *gin.Context) {
	var req dto.JoinTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)

	team, err := c.teamService.JoinTeam(ctx.Request.Context(), actorID, req.JoinCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// DeleteTeam removes a team
// @Summary Delete a team
// @Description Deletes a team with its memberships and tasks. Only the creator or an admin.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{teamId} [delete]
func (c *TeamController) DeleteTeam(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "teamId")
	if err != nil {
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	if err := c.teamService.DeleteTeam(ctx.Request.Context(), actorID, actorRole, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Team deleted"))
}
