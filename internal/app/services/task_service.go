package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
	"github.com/tpmanager/backend/internal/pkg/webhook"
)

// TaskService handles team task operations and their history
type TaskService struct {
	taskRepo       *repositories.TaskRepository
	taskUpdateRepo *repositories.TaskUpdateRepository
	teamRepo       *repositories.TeamRepository
	memberRepo     *repositories.TeamMemberRepository
	userRepo       *repositories.UserRepository
	notifier       *webhook.Notifier
	logger         zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo *repositories.TaskRepository,
	taskUpdateRepo *repositories.TaskUpdateRepository,
	teamRepo *repositories.TeamRepository,
	memberRepo *repositories.TeamMemberRepository,
	userRepo *repositories.UserRepository,
	notifier *webhook.Notifier,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		taskUpdateRepo: taskUpdateRepo,
		teamRepo:       teamRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreateTask creates a task in a team. Only team members (or admins) can
// create tasks.
func (s *TaskService) CreateTask(ctx context.Context, actorID int64, actorRole models.Role, teamID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	team, err := s.teamRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.requireTeamAccess(ctx, actorID, actorRole, teamID); err != nil {
		return nil, err
	}

	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(priority) {
		return nil, apperrors.NewBadRequestError("invalid task priority")
	}

	if req.AssignedTo != nil {
		if ok, err := s.memberRepo.IsMemberOfTeam(ctx, teamID, *req.AssignedTo); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperrors.NewBadRequestError("assignee is not a member of this team")
		}
	}

	task := &models.Task{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actorID,
	}

	taskID, err := s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = taskID

	s.notifyTaskEvent(ctx, webhook.EventTaskCreated, task, team)

	return s.GetTaskByID(ctx, taskID)
}

// GetTaskByID returns a task with its assignee, when set
func (s *TaskService) GetTaskByID(ctx context.Context, taskID int64) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	resp := mapTaskToResponse(task)
	if task.AssignedTo != nil {
		if assignee, err := s.userRepo.GetUserByID(ctx, *task.AssignedTo); err == nil {
			resp.AssignedUser = mapUserToResponse(assignee)
		}
	}

	return resp, nil
}

// ListTasksByTeam returns every task of a team
func (s *TaskService) ListTasksByTeam(ctx context.Context, teamID int64) ([]dto.TaskResponse, error) {
	if _, err := s.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListTasksByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, *mapTaskToResponse(task))
	}

	return out, nil
}

// UpdateTask applies an update to a task. A status change records a history
// entry and notifies the webhook endpoint.
func (s *TaskService) UpdateTask(ctx context.Context, actorID int64, actorRole models.Role, taskID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireTeamAccess(ctx, actorID, actorRole, task.TeamID); err != nil {
		return nil, err
	}

	newStatus := models.TaskStatus(req.Status)
	if !models.ValidTaskStatus(newStatus) {
		return nil, apperrors.NewBadRequestError("invalid task status")
	}
	newPriority := models.TaskPriority(req.Priority)
	if !models.ValidTaskPriority(newPriority) {
		return nil, apperrors.NewBadRequestError("invalid task priority")
	}

	if req.AssignedTo != nil {
		if ok, err := s.memberRepo.IsMemberOfTeam(ctx, task.TeamID, *req.AssignedTo); err != nil {
			return nil, err
		} else if !ok {
			return nil, apperrors.NewBadRequestError("assignee is not a member of this team")
		}
	}

	previousStatus := task.Status
	statusChanged := previousStatus != newStatus

	task.Title = req.Title
	task.Description = req.Description
	task.Status = newStatus
	task.Priority = newPriority
	task.DueDate = req.DueDate
	task.AssignedTo = req.AssignedTo

	if err := s.taskRepo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	if statusChanged || req.Comment != "" {
		update := &models.TaskUpdate{
			TaskID:  taskID,
			UserID:  actorID,
			Comment: req.Comment,
		}
		if statusChanged {
			update.PreviousStatus = &previousStatus
			update.NewStatus = &newStatus
		}
		if _, err := s.taskUpdateRepo.CreateUpdate(ctx, update); err != nil {
			s.logger.Error().Err(err).Int64("taskID", taskID).Msg("Failed to record task update history")
		}
	}

	if team, err := s.teamRepo.GetTeamByID(ctx, task.TeamID); err == nil {
		s.notifyTaskEvent(ctx, webhook.EventTaskUpdated, task, team)
	}

	return s.GetTaskByID(ctx, taskID)
}

// DeleteTask removes a task; only its creator or an admin may do so
func (s *TaskService) DeleteTask(ctx context.Context, actorID int64, actorRole models.Role, taskID int64) error {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	if task.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return apperrors.NewForbiddenError("only the creator or an admin can delete this task")
	}

	return s.taskRepo.DeleteTask(ctx, taskID)
}

// ListTaskUpdates returns the history of a task, newest first
func (s *TaskService) ListTaskUpdates(ctx context.Context, taskID int64) ([]dto.TaskUpdateResponse, error) {
	if _, err := s.taskRepo.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}

	updates, err := s.taskUpdateRepo.ListUpdatesByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TaskUpdateResponse, 0, len(updates))
	for _, u := range updates {
		resp := dto.TaskUpdateResponse{
			ID:        u.ID,
			TaskID:    u.TaskID,
			UserID:    u.UserID,
			Comment:   u.Comment,
			CreatedAt: u.CreatedAt,
			User:      mapUserToResponse(u.User),
		}
		if u.PreviousStatus != nil {
			prev := string(*u.PreviousStatus)
			resp.PreviousStatus = &prev
		}
		if u.NewStatus != nil {
			next := string(*u.NewStatus)
			resp.NewStatus = &next
		}
		out = append(out, resp)
	}

	return out, nil
}

// GetTeamProgress aggregates the task counters of a team
func (s *TaskService) GetTeamProgress(ctx context.Context, teamID int64) (*dto.TeamProgressResponse, error) {
	if _, err := s.teamRepo.GetTeamByID(ctx, teamID); err != nil {
		return nil, err
	}

	progress, err := s.taskRepo.GetTeamProgress(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &dto.TeamProgressResponse{
		TeamID:               progress.TeamID,
		TotalTasks:           progress.TotalTasks,
		CompletedTasks:       progress.CompletedTasks,
		InProgressTasks:      progress.InProgressTasks,
		PendingTasks:         progress.PendingTasks,
		OverdueTasks:         progress.OverdueTasks,
		CompletionPercentage: progress.CompletionPercentage,
	}, nil
}

func (s *TaskService) requireTeamAccess(ctx context.Context, actorID int64, actorRole models.Role, teamID int64) error {
	if actorRole == models.RoleAdmin || actorRole == models.RoleTeacher {
		return nil
	}

	ok, err := s.memberRepo.IsMemberOfTeam(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("you are not a member of this team")
	}
	return nil
}

func (s *TaskService) notifyTaskEvent(ctx context.Context, event string, task *models.Task, team *models.Team) {
	notification := webhook.TaskNotification{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		TeamID:      task.TeamID,
		CreatedBy:   task.CreatedBy,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC().Format(time.RFC3339)
		notification.DueDate = &due
	}
	if team != nil {
		notification.TeamName = &team.Name
	}
	if creator, err := s.userRepo.GetUserByID(ctx, task.CreatedBy); err == nil {
		notification.CreatorName = &creator.Name
	}
	if task.AssignedTo != nil {
		if assignee, err := s.userRepo.GetUserByID(ctx, *task.AssignedTo); err == nil {
			notification.AssignedUserName = &assignee.Name
		}
	}

	s.notifier.NotifyAsync(event, notification)
}

func mapTaskToResponse(task *models.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          task.ID,
		TeamID:      task.TeamID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
