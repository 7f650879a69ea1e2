package repo

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"cesizen/internal/models"
)

// Память вместо БД: режим без database.driver и тестовый дублёр.
// Покрывает только пользователей и роли — ровно то, что нужно auth-потоку.

type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]*models.User
	roles  map[uint]*models.Role
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		nextID: 1,
		users:  make(map[uint]*models.User),
		roles:  make(map[uint]*models.Role),
	}
	// роли — справочник, всегда присутствуют
	m.roles[1] = &models.Role{ID: 1, Name: models.RoleAdmin}
	m.roles[2] = &models.Role{ID: 2, Name: models.RoleUser}
	return m
}

func (m *MemoryStore) clone(u *models.User) *models.User {
	cp := *u
	if r, ok := m.roles[u.RoleID]; ok {
		rc := *r
		cp.Role = &rc
	}
	return &cp
}

func (m *MemoryStore) Create(_ context.Context, in CreateUserInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == in.UserName || u.Email == in.Email {
			return nil, ErrDuplicate
		}
	}
	u := &models.User{
		ID:        m.nextID,
		UserName:  in.UserName,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		RoleID:    in.RoleID,
	}
	m.nextID++
	m.users[u.ID] = u
	return m.clone(u), nil
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.UserName == username {
			return m.clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return m.clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.clone(u), nil
}

func (m *MemoryStore) Exists(_ context.Context, username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.UserName == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, id uint, in UpdateProfileInput) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	return m.clone(u), nil
}

func (m *MemoryStore) UpdatePassword(_ context.Context, id uint, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	return nil
}

func (m *MemoryStore) SetActiveStatus(_ context.Context, id uint, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) GetAll(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *m.clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetRole меняет роль пользователя (нужно тестам на живую перепроверку роли).
func (m *MemoryStore) SetRole(_ context.Context, id, roleID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.RoleID = roleID
	return nil
}

// Roles возвращает представление справочника ролей поверх того же стора.
func (m *MemoryStore) Roles() *MemoryRoleStore { return &MemoryRoleStore{m: m} }

type MemoryRoleStore struct{ m *MemoryStore }

func (r *MemoryRoleStore) FindByID(_ context.Context, id uint) (*models.Role, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	role, ok := r.m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *MemoryRoleStore) FindByName(_ context.Context, name string) (*models.Role, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, role := range r.m.roles {
		if role.Name == name {
			cp := *role
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// DropRole удаляет роль из справочника (симуляция нарушения целостности в тестах).
func (r *MemoryRoleStore) DropRole(id uint) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.roles, id)
}
