package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

// AddMemberRequest adds a member to a group. Email binds the new person to an
// existing account; without it the person is managed by the group (ANALOGUE
// or plain MEMBER without a device).
type AddMemberRequest struct {
	Name       string `json:"name"`
	MemberType string `json:"member_type"`
	Email      string `json:"email,omitempty"`
}

// ChangeMemberRequest changes a member's name and/or role. Empty fields keep
// their current value.
type ChangeMemberRequest struct {
	Name       string `json:"name,omitempty"`
	MemberType string `json:"member_type,omitempty"`
}

// GroupService manages groups and their memberships.
type GroupService interface {
	// CheckPermission reports whether the person holds at least the required
	// role in the group. Non-members hold nothing.
	CheckPermission(group *domain.Group, personID string, required domain.MembershipType) bool
	// AssertPermission is CheckPermission returning a typed error.
	AssertPermission(group *domain.Group, personID string, required domain.MembershipType) error

	CreateGroup(ctx context.Context, accountID, groupName, ownerName string) (*domain.Group, error)
	GetGroup(ctx context.Context, accountID, groupID string) (*domain.Group, error)
	ListGroups(ctx context.Context, accountID string) ([]domain.Group, error)
	FilterGroups(ctx context.Context, accountID, name string) ([]domain.Group, error)

	AddMember(ctx context.Context, accountID, groupID string, req AddMemberRequest) (*domain.Person, error)
	ChangeMember(ctx context.Context, accountID, groupID, personID string, req ChangeMemberRequest) (*domain.Person, error)
	RemoveMember(ctx context.Context, accountID, groupID, personID string) error

	// ExportMembers renders the member list as an xlsx workbook (ADMIN+).
	ExportMembers(ctx context.Context, accountID, groupID string) ([]byte, error)
}

type groupService struct {
	groups   repository.GroupsRepository
	persons  repository.PersonsRepository
	accounts repository.AccountsRepository
	log      *zap.Logger
}

func NewGroupService(
	groups repository.GroupsRepository,
	persons repository.PersonsRepository,
	accounts repository.AccountsRepository,
	log *zap.Logger,
) GroupService {
	return &groupService{groups: groups, persons: persons, accounts: accounts, log: log}
}

var _ GroupService = (*groupService)(nil)

func (s *groupService) CheckPermission(group *domain.Group, personID string, required domain.MembershipType) bool {
	member, ok := group.FindMember(personID)
	if !ok {
		return false
	}
	return member.MemberType.AtLeast(required)
}

func (s *groupService) AssertPermission(group *domain.Group, personID string, required domain.MembershipType) error {
	if !s.CheckPermission(group, personID, required) {
		return apperr.ErrInsufficient.Withf("requires at least %s", required)
	}
	return nil
}

func (s *groupService) CreateGroup(ctx context.Context, accountID, groupName, ownerName string) (*domain.Group, error) {
	if groupName == "" {
		return nil, apperr.Validation("group name must not be blank")
	}
	if ownerName == "" {
		return nil, apperr.Validation("owner name must not be blank")
	}

	group := &domain.Group{GroupID: uuid.NewString(), Name: groupName, CreatedAt: time.Now().UTC()}
	if _, err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	owner := domain.Person{
		PersonID:   uuid.NewString(),
		Name:       ownerName,
		GroupID:    group.GroupID,
		MemberType: domain.MembershipOwner,
	}
	owner.AccountID.String, owner.AccountID.Valid = accountID, true
	if _, err := s.persons.CreatePerson(ctx, &owner); err != nil {
		return nil, err
	}
	group.Members = []domain.Person{owner}

	s.log.Info("group created",
		zap.String("group_id", group.GroupID),
		zap.String("owner_id", owner.PersonID))
	return group, nil
}

// memberGroup loads the group and verifies the account is represented in it.
func (s *groupService) memberGroup(ctx context.Context, accountID, groupID string) (*domain.Group, *domain.Person, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, notFoundErr(err, "group", groupID)
	}
	actor, ok := group.MemberOfAccount(accountID)
	if !ok {
		return nil, nil, apperr.ErrForbidden
	}
	return group, &actor, nil
}

func (s *groupService) GetGroup(ctx context.Context, accountID, groupID string) (*domain.Group, error) {
	group, _, err := s.memberGroup(ctx, accountID, groupID)
	return group, err
}

func (s *groupService) ListGroups(ctx context.Context, accountID string) ([]domain.Group, error) {
	return s.groups.FindGroupsForAccount(ctx, accountID, "")
}

func (s *groupService) FilterGroups(ctx context.Context, accountID, name string) ([]domain.Group, error) {
	return s.groups.FindGroupsForAccount(ctx, accountID, name)
}

func (s *groupService) AddMember(ctx context.Context, accountID, groupID string, req AddMemberRequest) (*domain.Person, error) {
	group, actor, err := s.memberGroup(ctx, accountID, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.AssertPermission(group, actor.PersonID, domain.MembershipAdmin); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, apperr.Validation("member name must not be blank")
	}
	memberType, ok := domain.ParseMembershipType(req.MemberType)
	if !ok {
		return nil, apperr.Validation("unknown member type")
	}
	if memberType == domain.MembershipOwner {
		return nil, apperr.Validation("a group has exactly one owner")
	}
	if memberType == domain.MembershipAnalogue {
		if req.Email != "" {
			return nil, apperr.Validation("an analogue member cannot be bound to an account")
		}
		if _, exists := group.CenterPerson(); exists {
			return nil, apperr.Conflict("group already has an analogue member")
		}
	}

	person := domain.Person{
		PersonID:   uuid.NewString(),
		Name:       req.Name,
		GroupID:    groupID,
		MemberType: memberType,
	}
	if req.Email != "" {
		account, err := s.accounts.GetAccountByEmail(ctx, req.Email)
		if err != nil {
			return nil, notFoundErr(err, "account", req.Email)
		}
		person.AccountID.String, person.AccountID.Valid = account.AccountID, true
	}
	if _, err := s.persons.CreatePerson(ctx, &person); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("name is already used in this group")
		}
		return nil, err
	}

	s.log.Info("member added",
		zap.String("group_id", groupID),
		zap.String("person_id", person.PersonID),
		zap.String("member_type", string(memberType)))
	return &person, nil
}

func (s *groupService) ChangeMember(ctx context.Context, accountID, groupID, personID string, req ChangeMemberRequest) (*domain.Person, error) {
	group, actor, err := s.memberGroup(ctx, accountID, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.AssertPermission(group, actor.PersonID, domain.MembershipAdmin); err != nil {
		return nil, err
	}
	target, ok := group.FindMember(personID)
	if !ok {
		return nil, apperr.NotFound("person", personID)
	}
	if target.MemberType == domain.MembershipOwner {
		return nil, apperr.ErrOwnerImmutable
	}

	updated := target
	if req.Name != "" {
		updated = updated.WithName(req.Name)
	}
	if req.MemberType != "" {
		memberType, ok := domain.ParseMembershipType(req.MemberType)
		if !ok {
			return nil, apperr.Validation("unknown member type")
		}
		if memberType == domain.MembershipOwner {
			return nil, apperr.ErrOwnerImmutable.Withf("ownership cannot be transferred here")
		}
		if memberType == domain.MembershipAnalogue {
			if analogue, exists := group.CenterPerson(); exists && analogue.PersonID != target.PersonID {
				return nil, apperr.Conflict("group already has an analogue member")
			}
		}
		updated = updated.WithMemberType(memberType)
	}
	if err := s.persons.UpdatePerson(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("name is already used in this group")
		}
		return nil, err
	}
	return &updated, nil
}

func (s *groupService) RemoveMember(ctx context.Context, accountID, groupID, personID string) error {
	group, actor, err := s.memberGroup(ctx, accountID, groupID)
	if err != nil {
		return err
	}
	if err := s.AssertPermission(group, actor.PersonID, domain.MembershipAdmin); err != nil {
		return err
	}
	target, ok := group.FindMember(personID)
	if !ok {
		return apperr.NotFound("person", personID)
	}
	if target.MemberType == domain.MembershipOwner {
		return apperr.ErrOwnerImmutable
	}
	if err := s.persons.DeletePerson(ctx, personID); err != nil {
		return notFoundErr(err, "person", personID)
	}
	s.log.Info("member removed",
		zap.String("group_id", groupID),
		zap.String("person_id", personID))
	return nil
}

func (s *groupService) ExportMembers(ctx context.Context, accountID, groupID string) ([]byte, error) {
	group, actor, err := s.memberGroup(ctx, accountID, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.AssertPermission(group, actor.PersonID, domain.MembershipAdmin); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Name", "Role", "Linked Account"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, m := range group.Members {
		linked := ""
		if m.AccountID.Valid {
			linked = m.AccountID.String
		}
		values := []any{m.Name, string(m.MemberType), linked}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render member export: %w", err)
	}
	return buf.Bytes(), nil
}
