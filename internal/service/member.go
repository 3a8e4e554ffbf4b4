package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/ledger"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/repository"
)

const memberIDAttempts = 20

type memberService struct {
	repos  repository.Repositories
	tx     repository.TxManager
	lookup *ReadThrough
	cache  *cache.ReadCache
	clock  ledger.Clock
	ids    IDGenerator
}

func NewMemberService(
	repos repository.Repositories,
	tx repository.TxManager,
	lookup *ReadThrough,
	c *cache.ReadCache,
	clock ledger.Clock,
	ids IDGenerator,
) MemberService {
	return &memberService{
		repos:  repos,
		tx:     tx,
		lookup: lookup,
		cache:  c,
		clock:  clock,
		ids:    ids,
	}
}

func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.repos.Members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		members = []domain.Member{}
	}
	for _, m := range members {
		s.cache.PutMember(m)
	}
	return members, nil
}

func (s *memberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.lookup.Member(ctx, memberID)
}

// GetMemberDetails summarizes the member's previous calendar month across
// every item they hold.
func (s *memberService) GetMemberDetails(ctx context.Context, memberID string) (*domain.MemberDetails, error) {
	logger.EnterMethod("memberService.GetMemberDetails", "member_id", memberID)

	member, err := s.lookup.Member(ctx, memberID)
	if err != nil {
		logger.ExitMethodWithError("memberService.GetMemberDetails", err)
		return nil, err
	}

	groups, err := s.repos.Transactions.MonthlyLatestByMember(ctx, memberID)
	if err != nil {
		err = fmt.Errorf("failed to load monthly transactions: %w", err)
		logger.ExitMethodWithError("memberService.GetMemberDetails", err)
		return nil, err
	}
	s.cache.IndexMonthly(groups)

	items, err := s.lookup.MemberItems(ctx, member)
	if err != nil {
		logger.ExitMethodWithError("memberService.GetMemberDetails", err)
		return nil, err
	}

	details := &domain.MemberDetails{
		Member:     *member,
		TotalItems: len(member.ItemIDs),
		Summary:    ledger.Summarize(groups, items, ledger.PreviousPeriod(s.clock.Now())),
	}
	logger.ExitMethod("memberService.GetMemberDetails", "groups", len(groups))
	return details, nil
}

func (s *memberService) ListMemberItems(ctx context.Context, memberID string) ([]domain.Item, error) {
	member, err := s.lookup.Member(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.lookup.MemberItems(ctx, member)
}

// GetItemHistory lists the transactions of an item the member holds.
func (s *memberService) GetItemHistory(ctx context.Context, memberID, itemCode string) ([]domain.YearHistory, error) {
	if _, err := s.lookup.Member(ctx, memberID); err != nil {
		return nil, err
	}
	item, err := s.lookup.ItemByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if !item.HasMember(memberID) {
		return nil, ErrItemNotHeld
	}

	txns, err := s.repos.Transactions.ListAllByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item transactions: %w", err)
	}
	return ledger.History(txns), nil
}

func (s *memberService) EnrollMember(ctx context.Context, req EnrollMemberRequest) (*domain.Member, error) {
	logger.EnterMethod("memberService.EnrollMember", "items", len(req.ItemCodes))

	name, mobile := strings.TrimSpace(req.Name), strings.TrimSpace(req.Mobile)
	if name == "" || mobile == "" {
		err := fmt.Errorf("%w: name and mobile are required", ErrInvalidRequest)
		logger.ExitMethodWithError("memberService.EnrollMember", err)
		return nil, err
	}

	var enrolled *domain.Member
	var touched []domain.Item
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Members.GetByMobile(ctx, mobile); err == nil {
			return ErrDuplicateMobile
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check mobile: %w", err)
		}

		id, err := s.allocateMemberID(ctx, repos)
		if err != nil {
			return err
		}
		member := &domain.Member{ID: id, Name: name, Mobile: mobile, IsActive: true}
		if err := repos.Members.Create(ctx, member); err != nil {
			return fmt.Errorf("failed to create member: %w", err)
		}

		for _, code := range req.ItemCodes {
			item, err := s.issueItem(ctx, repos, id, code, req.CreateItems)
			if err != nil {
				return err
			}
			touched = append(touched, *item)
		}

		enrolled, err = repos.Members.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload member: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("memberService.EnrollMember", err)
		return nil, err
	}

	s.cache.PutMember(*enrolled)
	for _, item := range touched {
		s.cache.DeleteItem(item.ID)
	}
	logger.ExitMethod("memberService.EnrollMember", "member_id", enrolled.ID)
	return enrolled, nil
}

func (s *memberService) allocateMemberID(ctx context.Context, repos repository.Repositories) (string, error) {
	for range memberIDAttempts {
		id := s.ids.MemberID()
		exists, err := repos.Members.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check member id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", ErrMemberIDExhausted
}

func (s *memberService) issueItem(ctx context.Context, repos repository.Repositories, memberID, code string, create bool) (*domain.Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty item code", ErrInvalidRequest)
	}

	existing, err := repos.Items.GetByCode(ctx, code)
	switch {
	case err == nil && create:
		return nil, fmt.Errorf("%w: %s", ErrDuplicateItemCode, code)
	case err == nil:
		if err := repos.Items.LinkMember(ctx, existing.ID, memberID); err != nil {
			return nil, fmt.Errorf("failed to link item %s: %w", code, err)
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to get item %s: %w", code, err)
	case !create:
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, code)
	}

	item := &domain.Item{
		ID:        s.ids.ItemID(),
		Code:      code,
		MemberIDs: []string{memberID},
		IsActive:  true,
	}
	if err := repos.Items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item %s: %w", code, err)
	}
	return item, nil
}

func (s *memberService) UpdateMember(ctx context.Context, memberID, name, mobile string) (*domain.Member, error) {
	logger.EnterMethod("memberService.UpdateMember", "member_id", memberID)

	name, mobile = strings.TrimSpace(name), strings.TrimSpace(mobile)
	var updated *domain.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		member, err := repos.Members.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to get member: %w", err)
		}
		if mobile != "" && mobile != member.Mobile {
			other, err := repos.Members.GetByMobile(ctx, mobile)
			if err == nil && other.ID != memberID {
				return ErrDuplicateMobile
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("failed to check mobile: %w", err)
			}
			member.Mobile = mobile
		}
		if name != "" {
			member.Name = name
		}
		if err := repos.Members.Update(ctx, member); err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}
		updated = member
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("memberService.UpdateMember", err)
		return nil, err
	}

	s.cache.PutMember(*updated)
	logger.ExitMethod("memberService.UpdateMember")
	return updated, nil
}

func (s *memberService) ToggleActive(ctx context.Context, memberID string) (*domain.Member, error) {
	logger.EnterMethod("memberService.ToggleActive", "member_id", memberID)

	var updated *domain.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		member, err := repos.Members.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("failed to get member: %w", err)
		}
		member.IsActive = !member.IsActive
		if err := repos.Members.Update(ctx, member); err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}
		updated = member
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("memberService.ToggleActive", err)
		return nil, err
	}

	s.cache.PutMember(*updated)
	logger.ExitMethod("memberService.ToggleActive", "is_active", updated.IsActive)
	return updated, nil
}

// ToggleItemIssued links the item to the member, or unlinks it when it is
// already issued to them.
func (s *memberService) ToggleItemIssued(ctx context.Context, memberID, itemCode string) (*domain.Item, error) {
	logger.EnterMethod("memberService.ToggleItemIssued", "member_id", memberID, "item_code", itemCode)

	var updated *domain.Item
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		exists, err := repos.Members.Exists(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to check member: %w", err)
		}
		if !exists {
			return ErrMemberNotFound
		}

		item, err := repos.Items.GetByCode(ctx, itemCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		if item.HasMember(memberID) {
			err = repos.Items.UnlinkMember(ctx, item.ID, memberID)
		} else {
			err = repos.Items.LinkMember(ctx, item.ID, memberID)
		}
		if err != nil {
			return fmt.Errorf("failed to toggle item issuance: %w", err)
		}

		updated, err = repos.Items.GetByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to reload item: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("memberService.ToggleItemIssued", err)
		return nil, err
	}

	s.cache.PutItem(*updated)
	s.cache.DeleteMember(memberID)
	logger.ExitMethod("memberService.ToggleItemIssued", "issued", updated.HasMember(memberID))
	return updated, nil
}
