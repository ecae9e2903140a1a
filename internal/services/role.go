package services

import (
	"context"
	"fmt"
	"time"

	"eventconnect/internal/domain"
)

type roleService struct {
	roles          domain.RoleRepository
	contextTimeout time.Duration
}

func NewRoleService(roles domain.RoleRepository, timeout time.Duration) domain.RoleService {
	return &roleService{roles: roles, contextTimeout: timeout}
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}
