package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tpmanager/backend/internal/app/models"
	"github.com/tpmanager/backend/internal/app/models/dto"
	"github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
	"github.com/tpmanager/backend/internal/pkg/helpers"
)

// TPService handles Trabajo Práctico operations
type TPService struct {
	tpRepo   *repositories.TPRepository
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewTPService creates a new TPService
func NewTPService(tpRepo *repositories.TPRepository, userRepo *repositories.UserRepository, logger zerolog.Logger) *TPService {
	return &TPService{
		tpRepo:   tpRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateTP creates a Trabajo Práctico owned by the acting user
func (s *TPService) CreateTP(ctx context.Context, actorID int64, req *dto.CreateTPRequest) (*dto.TPResponse, error) {
	if req.Deadline.Before(time.Now()) {
		return nil, apperrors.NewBadRequestError("deadline must be in the future")
	}

	tp := &models.TP{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		CreatedBy:   actorID,
	}

	id, err := s.tpRepo.CreateTP(ctx, tp)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("tpID", id).Int64("actorID", actorID).Msg("TP created")

	return s.GetTPByID(ctx, id)
}

// GetTPByID returns a TP with its creator and team count
func (s *TPService) GetTPByID(ctx context.Context, id int64) (*dto.TPResponse, error) {
	tp, err := s.tpRepo.GetTPByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := mapTPToResponse(tp)
	if creator, err := s.userRepo.GetUserByID(ctx, tp.CreatedBy); err == nil {
		resp.Creator = mapUserToResponse(creator)
	}

	return resp, nil
}

// ListTPs returns a page of TPs ordered by deadline
func (s *TPService) ListTPs(ctx context.Context, page, pageSize int) (*dto.TPListResponse, error) {
	offset := (page - 1) * pageSize
	tps, total, err := s.tpRepo.ListTPs(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TPResponse, 0, len(tps))
	for _, tp := range tps {
		items = append(items, *mapTPToResponse(tp))
	}

	return &dto.TPListResponse{
		TPs:            items,
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// UpdateTP updates a TP; only its creator or an admin may do so
func (s *TPService) UpdateTP(ctx context.Context, actorID int64, actorRole models.Role, id int64, req *dto.UpdateTPRequest) (*dto.TPResponse, error) {
	tp, err := s.tpRepo.GetTPByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tp.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only the creator or an admin can update this TP")
	}

	tp.Title = req.Title
	tp.Description = req.Description
	tp.Deadline = req.Deadline

	if err := s.tpRepo.UpdateTP(ctx, tp); err != nil {
		return nil, err
	}

	return s.GetTPByID(ctx, id)
}

// DeleteTP removes a TP and everything scoped to it
func (s *TPService) DeleteTP(ctx context.Context, actorID int64, actorRole models.Role, id int64) error {
	tp, err := s.tpRepo.GetTPByID(ctx, id)
	if err != nil {
		return err
	}

	if tp.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return apperrors.NewForbiddenError("only the creator or an admin can delete this TP")
	}

	if err := s.tpRepo.DeleteTP(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("tpID", id).Int64("actorID", actorID).Msg("TP deleted")
	return nil
}

func mapTPToResponse(tp *models.TP) *dto.TPResponse {
	return &dto.TPResponse{
		ID:          tp.ID,
		Title:       tp.Title,
		Description: tp.Description,
		Deadline:    tp.Deadline,
		CreatedBy:   tp.CreatedBy,
		TeamsCount:  tp.TeamsCount,
		CreatedAt:   tp.CreatedAt,
		UpdatedAt:   tp.UpdatedAt,
	}
}
