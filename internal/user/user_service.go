package user

import (
	"context"
	"errors"

	usererrors "github.com/dapphari007/leavemon-sub001/internal/user/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Position:   u.Position,
		IsActive:   u.IsActive,
	}
	resp.DepartmentID = uuidToString(u.DepartmentID)
	resp.PositionID = uuidToString(u.PositionID)
	resp.HRID = uuidToString(u.HRID)
	resp.TeamLeadID = uuidToString(u.TeamLeadID)
	resp.ManagerID = uuidToString(u.ManagerID)
	return resp
}

func uuidToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
