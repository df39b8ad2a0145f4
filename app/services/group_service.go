package services

import (
	"fmt"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// GroupService manages groups. It backs the admin commands only; there is
// no web page that creates or deletes groups.
type GroupService struct {
	groupRepo repositories.GroupRepository
}

func NewGroupService(groupRepo repositories.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup validates and stores a group. A taken slug returns
// repositories.ErrDuplicateSlug.
func (s *GroupService) CreateGroup(title, slug, description string) (*models.Group, error) {
	group := &models.Group{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}
	if err := group.Validate(); err != nil {
		return nil, fmt.Errorf("invalid group: %w", err)
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups() ([]*models.Group, error) {
	return s.groupRepo.List()
}

// DeleteGroup removes the group with slug. Its posts stay, without a group.
func (s *GroupService) DeleteGroup(slug string) error {
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(group.ID)
}
