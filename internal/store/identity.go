package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"internhub/internal/common"
	"internhub/internal/domain/user"
	"internhub/internal/storage"
)

// IdentityStore owns the user collection and the current session. It is the
// leaf store: nothing here depends on postings or applications. All mutators
// write the complete affected snapshot through the adapter before swapping
// the in-memory copy, so a failed write never leaves partial state behind.
type IdentityStore struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *zap.Logger

	users   []user.User
	session *user.User
}

// NewIdentityStore loads the user collection and session from the adapter,
// falling back to the seed dataset when the users key is absent.
func NewIdentityStore(ctx context.Context, adapter storage.Adapter, logger *zap.Logger) (*IdentityStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &IdentityStore{adapter: adapter, logger: logger}

	raw, err := adapter.Load(ctx, storage.KeyUsers)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.users); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
	case err == storage.ErrNotFound:
		s.users = seedUsers()
		logger.Info("users collection absent, using seed dataset", zap.Int("count", len(s.users)))
	default:
		return nil, fmt.Errorf("load users: %w", err)
	}

	raw, err = adapter.Load(ctx, storage.KeySession)
	switch {
	case err == nil:
		var session user.User
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		s.session = &session
	case err == storage.ErrNotFound:
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}

	return s, nil
}

// Register appends a new user. The email must not already be taken; the
// new user is not logged in.
func (s *IdentityStore) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, common.NewValidationError("invalid registration", map[string]string{"email": "email is required"})
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, common.NewValidationError("invalid registration", map[string]string{"name": "name is required"})
	}
	role := user.Role(strings.ToLower(strings.TrimSpace(string(input.Role))))
	if !role.Valid() {
		return nil, common.NewValidationError("invalid registration", map[string]string{"role": "role must be student, mentor, or admin"})
	}
	if input.Experience < 0 {
		return nil, common.NewValidationError("invalid registration", map[string]string{"experience": "experience must be non-negative"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == email {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}

	created := user.User{
		ID:         common.NewUUID(),
		Email:      email,
		Name:       strings.TrimSpace(input.Name),
		Role:       role,
		Avatar:     input.Avatar,
		Department: input.Department,
		Company:    input.Company,
		Bio:        input.Bio,
		Skills:     append([]string(nil), input.Skills...),
		Experience: input.Experience,
	}

	next := make([]user.User, 0, len(s.users)+1)
	for _, existing := range s.users {
		next = append(next, existing)
	}
	next = append(next, created)
	if err := s.saveUsers(ctx, next); err != nil {
		return nil, err
	}
	s.users = next

	s.logger.Info("user registered", zap.String("user_id", created.ID.String()), zap.String("role", string(created.Role)))
	result := created.Clone()
	return &result, nil
}

// Login matches on email alone. The password is accepted but never checked
// against a stored secret; real verification lives outside this service.
func (s *IdentityStore) Login(ctx context.Context, email, password string) (*user.User, error) {
	_ = password
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == email {
			session := existing.Clone()
			if err := s.saveSession(ctx, &session); err != nil {
				return nil, err
			}
			s.session = &session
			s.logger.Info("user logged in", zap.String("user_id", session.ID.String()))
			result := session.Clone()
			return &result, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

// Logout clears the session and its persisted copy. Safe to call when no
// session exists.
func (s *IdentityStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adapter.Delete(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.session = nil
	return nil
}

// UpdateProfile merges the patch into the matching user. Unknown ids are an
// explicit not_found error. When the patched user is the session user, the
// session snapshot is refreshed and re-persisted in the same operation.
func (s *IdentityStore) UpdateProfile(ctx context.Context, userID common.UUID, patch ProfileUpdate) error {
	if patch.Experience != nil && *patch.Experience < 0 {
		return common.NewValidationError("invalid profile update", map[string]string{"experience": "experience must be non-negative"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, existing := range s.users {
		if existing.ID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}

	next := make([]user.User, len(s.users))
	for i, existing := range s.users {
		next[i] = existing.Clone()
	}
	applyProfileUpdate(&next[index], patch)

	if err := s.saveUsers(ctx, next); err != nil {
		return err
	}
	var session *user.User
	if s.session != nil && s.session.ID == userID {
		refreshed := next[index].Clone()
		if err := s.saveSession(ctx, &refreshed); err != nil {
			return err
		}
		session = &refreshed
	}

	s.users = next
	if session != nil {
		s.session = session
	}
	return nil
}

// CurrentUser returns the session snapshot, or nil when logged out.
func (s *IdentityStore) CurrentUser() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	session := s.session.Clone()
	return &session
}

// Users returns a copy of the collection in insertion order.
func (s *IdentityStore) Users() []user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]user.User, 0, len(s.users))
	for _, existing := range s.users {
		result = append(result, existing.Clone())
	}
	return result
}

func (s *IdentityStore) UserByID(userID common.UUID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.users {
		if existing.ID == userID {
			found := existing.Clone()
			return &found, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (s *IdentityStore) UserByEmail(email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.users {
		if existing.Email == email {
			found := existing.Clone()
			return &found, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (s *IdentityStore) saveUsers(ctx context.Context, users []user.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.adapter.Save(ctx, storage.KeyUsers, raw); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

func (s *IdentityStore) saveSession(ctx context.Context, session *user.User) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.adapter.Save(ctx, storage.KeySession, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func applyProfileUpdate(target *user.User, patch ProfileUpdate) {
	if patch.Email != nil {
		target.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Name != nil {
		target.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Avatar != nil {
		target.Avatar = *patch.Avatar
	}
	if patch.Department != nil {
		target.Department = *patch.Department
	}
	if patch.Company != nil {
		target.Company = *patch.Company
	}
	if patch.Bio != nil {
		target.Bio = *patch.Bio
	}
	if patch.Skills != nil {
		target.Skills = append([]string(nil), patch.Skills...)
	}
	if patch.Experience != nil {
		target.Experience = *patch.Experience
	}
}
