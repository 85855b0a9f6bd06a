package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/services"
	"github.com/tpmanager/backend/internal/middleware"
)

// TaskController handles team task endpoints
type TaskController struct {
	taskService *services.TaskService
	logger      zerolog.Logger
}

// NewTaskController creates a new TaskController
func NewTaskController(taskService *services.TaskService, logger zerolog.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask creates a task in a team
// @Summary Create a task
// @Description Creates a task in a team. Team members only.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Param request body dto.CreateTaskRequest true "Task data"
// @Success 201 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /teams/{teamId}/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	teamID, err := parseIDParam(ctx, "teamId")
	if err != nil {
		return
	}

	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	task, err := c.taskService.CreateTask(ctx.Request.Context(), actorID, actorRole, teamID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(task))
}

// ListTasksByTeam returns every task of a team
// @Summary List tasks of a team
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TaskResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{teamId}/tasks [get]
func (c *TaskController) ListTasksByTeam(ctx *gin.Context) {
	teamID, err := parseIDParam(ctx, "teamId")
	if err != nil {
		return
	}

	tasks, err := c.taskService.ListTasksByTeam(ctx.Request.Context(), teamID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tasks))
}

// GetTaskByID returns one task
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (c *TaskController) GetTaskByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	task, err := c.taskService.GetTaskByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(task))
}

// UpdateTask updates a task
// @Summary Update a task
// @Description Updates a task; a status change records a history entry
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Task data"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	task, err := c.taskService.UpdateTask(ctx.Request.Context(), actorID, actorRole, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(task))
}

// DeleteTask removes a task
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	actorRole, _ := middleware.GetRole(ctx)

	if err := c.taskService.DeleteTask(ctx.Request.Context(), actorID, actorRole, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Task deleted"))
}

// ListTaskUpdates returns the history of a task
// @Summary List task history
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TaskUpdateResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/updates [get]
func (c *TaskController) ListTaskUpdates(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	updates, err := c.taskService.ListTaskUpdates(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updates))
}

// GetTeamProgress aggregates the task counters of a team
// @Summary Get team progress
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeamProgressResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{teamId}/progress [get]
func (c *TaskController) GetTeamProgress(ctx *gin.Context) {
	teamID, err := parseIDParam(ctx, "teamId")
	if err != nil {
		return
	}

	progress, err := c.taskService.GetTeamProgress(ctx.Request.Context(), teamID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(progress))
}
