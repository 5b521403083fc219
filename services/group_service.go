//go:generate go run go.uber.org/mock/mockgen -source=group_service.go -destination=../mocks/mock_group_service.go -package=mocks
package services

import (
	"babelchat/domain"
	"babelchat/repositories"

	"github.com/google/uuid"
)

type IGroupService interface {
	CreateGroup(name, creatorID string) (domain.Group, error)
	Join(id domain.GroupID, userID string) error
	GetGroup(id domain.GroupID) (domain.Group, error)
	GroupsOf(userID string) ([]domain.Group, error)
}

// GroupService is thin on purpose: membership is the only rule it owns, and
// that rule is enforced where messages flow, in MessageService.
type GroupService struct {
	groupRepository repositories.IGroupRepository
}

func NewGroupService(repo repositories.IGroupRepository) IGroupService {
	return &GroupService{groupRepository: repo}
}

// CreateGroup makes the creator the first member.
func (s *GroupService) CreateGroup(name, creatorID string) (domain.Group, error) {
	group := domain.Group{
		ID:      domain.GroupID(uuid.NewString()),
		Name:    name,
		Members: []string{creatorID},
	}
	if err := s.groupRepository.CreateGroup(group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (s *GroupService) Join(id domain.GroupID, userID string) error {
	return s.groupRepository.AddMember(id, userID)
}

func (s *GroupService) GetGroup(id domain.GroupID) (domain.Group, error) {
	return s.groupRepository.GetGroup(id)
}

func (s *GroupService) GroupsOf(userID string) ([]domain.Group, error) {
	return s.groupRepository.GroupsOf(userID)
}
