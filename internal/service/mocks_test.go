package service

import (
	"context"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/repository"
)

// --- Mock repositories ---

// mockUserRepo — мок UserRepository для unit-тестов.
type mockUserRepo struct {
	createFn         func(ctx context.Context, u *model.User) error
	getByIDFn        func(ctx context.Context, id string) (*model.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	updateFn         func(ctx context.Context, id, email, username string) (*model.User, error)
	updateActiveFn   func(ctx context.Context, id string, isActive bool) (*model.User, error)
	changePasswordFn func(ctx context.Context, id, passwordHash, salt string) error
	getRolesFn       func(ctx context.Context, userID string) ([]role.Role, error)
	setRolesFn       func(ctx context.Context, userID string, desired []role.Role) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, id, email, username string) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, email, username)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateActive(ctx context.Context, id string, isActive bool) (*model.User, error) {
	if m.updateActiveFn != nil {
		return m.updateActiveFn(ctx, id, isActive)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) ChangePassword(ctx context.Context, id, passwordHash, salt string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, id, passwordHash, salt)
	}
	return nil
}

func (m *mockUserRepo) GetRoles(ctx context.Context, userID string) ([]role.Role, error) {
	if m.getRolesFn != nil {
		return m.getRolesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserRepo) SetRoles(ctx context.Context, userID string, desired []role.Role) error {
	if m.setRolesFn != nil {
		return m.setRolesFn(ctx, userID, desired)
	}
	return nil
}

// mockSessionRepo — мок SessionRepository для unit-тестов.
type mockSessionRepo struct {
	createFn          func(ctx context.Context, userID string, slidingWindowSeconds int, sourceIP string) (*model.Session, error)
	getByIDFn         func(ctx context.Context, id string) (*model.Session, error)
	getByTicketFn     func(ctx context.Context, ticket string) (*model.Session, error)
	prolongFn         func(ctx context.Context, id string) (bool, error)
	closeFn           func(ctx context.Context, id string) (*model.Session, error)
	closeAllForUserFn func(ctx context.Context, userID string) ([]*model.Session, error)
	listActiveFn      func(ctx context.Context, userID *string) ([]*model.Session, error)
	listByUserFn      func(ctx context.Context, userID string) ([]*model.Session, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, userID string, slidingWindowSeconds int, sourceIP string) (*model.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, slidingWindowSeconds, sourceIP)
	}
	return &model.Session{UserID: userID, SlidingWindowSeconds: slidingWindowSeconds, SourceIP: sourceIP}, nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepo) GetByTicket(ctx context.Context, ticket string) (*model.Session, error) {
	if m.getByTicketFn != nil {
		return m.getByTicketFn(ctx, ticket)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepo) Prolong(ctx context.Context, id string) (bool, error) {
	if m.prolongFn != nil {
		return m.prolongFn(ctx, id)
	}
	return false, nil
}

func (m *mockSessionRepo) Close(ctx context.Context, id string) (*model.Session, error) {
	if m.closeFn != nil {
		return m.closeFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepo) CloseAllForUser(ctx context.Context, userID string) ([]*model.Session, error) {
	if m.closeAllForUserFn != nil {
		return m.closeAllForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSessionRepo) ListActive(ctx context.Context, userID *string) ([]*model.Session, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSessionRepo) ListByUser(ctx context.Context, userID string) ([]*model.Session, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}
