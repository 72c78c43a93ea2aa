package usecase

import (
	"context"
	"sync"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
	"fittrack-backend/internal/auth/repository"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*authdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*authdomain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *authdomain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	user.ID = uuid.New().String()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) find(match func(*authdomain.User) bool) *authdomain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	return f.find(func(u *authdomain.User) bool { return u.ID == id }), nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*authdomain.User, error) {
	return f.find(func(u *authdomain.User) bool { return u.Username == username }), nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	return f.find(func(u *authdomain.User) bool { return u.Email == email }), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *authdomain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].Password = hash
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*authdomain.RefreshSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*authdomain.RefreshSession{}}
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id string) (*authdomain.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) blacklist(now time.Time, match func(*authdomain.RefreshSession) bool) int64 {
	var n int64
	for _, s := range f.sessions {
		if s.BlacklistedAt == nil && match(s) {
			t := now
			s.BlacklistedAt = &t
			n++
		}
	}
	return n
}

func (f *fakeSessionRepo) StartExclusive(_ context.Context, session *authdomain.RefreshSession, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blacklist(now, func(s *authdomain.RefreshSession) bool { return s.UserID == session.UserID })
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) Rotate(_ context.Context, oldID string, next *authdomain.RefreshSession, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.sessions[oldID]
	if !ok || !current.Active(now) || current.UserID != next.UserID {
		return repository.ErrSessionInactive
	}
	f.blacklist(now, func(s *authdomain.RefreshSession) bool { return s.ID == oldID })
	cp := *next
	f.sessions[next.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) Blacklist(_ context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blacklist(now, func(s *authdomain.RefreshSession) bool { return s.ID == id }) > 0, nil
}

func (f *fakeSessionRepo) BlacklistAllForUser(_ context.Context, userID string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blacklist(now, func(s *authdomain.RefreshSession) bool { return s.UserID == userID }), nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.ExpiresAt.Before(now) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) activeFor(userID string, now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.UserID == userID && s.Active(now) {
			n++
		}
	}
	return n
}

type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]authdomain.DeviceToken
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: map[string]authdomain.DeviceToken{}}
}

func (f *fakeDeviceRepo) Save(_ context.Context, userID, token, info string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices[token] = authdomain.DeviceToken{UserID: userID, Token: token, DeviceInfo: info}
	return nil
}

func (f *fakeDeviceRepo) ListByUser(_ context.Context, userID string) ([]authdomain.DeviceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []authdomain.DeviceToken
	for _, d := range f.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Delete(_ context.Context, userID, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[token]
	if !ok || d.UserID != userID {
		return 0, nil
	}
	delete(f.devices, token)
	return 1, nil
}

func (f *fakeDeviceRepo) DeleteTokens(_ context.Context, tokens []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tokens {
		delete(f.devices, t)
	}
	return nil
}
