package moderation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loocate/loocate-backend/internal/models"
)

// MemoryStore is an in-process Store used by tests and local development.
// Owners for content targets are registered explicitly instead of being
// resolved from content tables.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	reports      map[uuid.UUID]*models.Report
	violations   map[uuid.UUID]*models.ViolationRecord
	restrictions map[uuid.UUID]*models.UserRestriction
	owners       map[Target]uuid.UUID
	users        map[uuid.UUID]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports:      make(map[uuid.UUID]*models.Report),
		violations:   make(map[uuid.UUID]*models.ViolationRecord),
		restrictions: make(map[uuid.UUID]*models.UserRestriction),
		owners:       make(map[Target]uuid.UUID),
		users:        make(map[uuid.UUID]bool),
	}
}

// RegisterOwner maps a content target to its owning user.
func (m *MemoryStore) RegisterOwner(target Target, owner uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[target] = owner
}

// RegisterUser makes a user id resolvable as a user target.
func (m *MemoryStore) RegisterUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = true
}

func (m *MemoryStore) CreateReport(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *MemoryStore) HasOpenReport(_ context.Context, reporterID uuid.UUID, target Target) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reports {
		if r.ReporterID == reporterID &&
			r.TargetType == string(target.Type) && r.TargetID == target.ID &&
			(r.Status == string(StatusPending) || r.Status == string(StatusUnderReview)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CountNonDismissedReports(_ context.Context, target Target) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, r := range m.reports {
		if r.TargetType == string(target.Type) && r.TargetID == target.ID &&
			r.Status != string(StatusDismissed) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) GetReport(_ context.Context, id uuid.UUID) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) ListReports(_ context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []models.Report
	for _, r := range m.reports {
		if status == "" || r.Status == status {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *MemoryStore) SaveReport(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		return ErrReportNotFound
	}
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *MemoryStore) AutoResolvePending(_ context.Context, target Target, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.TargetType == string(target.Type) && r.TargetID == target.ID &&
			(r.Status == string(StatusPending) || r.Status == string(StatusUnderReview)) {
			r.Status = string(StatusAutoResolved)
			reviewed := now
			r.ReviewedAt = &reviewed
			r.UpdatedAt = now
		}
	}
	return nil
}

func (m *MemoryStore) CreateViolation(_ context.Context, v *models.ViolationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.violations[v.ID] = &cp
	return nil
}

func (m *MemoryStore) ViolationsByUser(_ context.Context, userID uuid.UUID) ([]models.ViolationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ViolationRecord
	for _, v := range m.violations {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) TotalPoints(_ context.Context, userID uuid.UUID, now time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, v := range m.violations {
		if v.UserID == userID && v.ExpiresAt.After(now) {
			total += v.Points
		}
	}
	return total, nil
}

func (m *MemoryStore) CreateRestriction(_ context.Context, r *models.UserRestriction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.restrictions[r.ID] = &cp
	return nil
}

func (m *MemoryStore) ActiveRestrictions(_ context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.UserRestriction
	for _, r := range m.restrictions {
		if r.UserID == userID && r.IsActive {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) RestrictionsByUser(_ context.Context, userID uuid.UUID) ([]models.UserRestriction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.UserRestriction
	for _, r := range m.restrictions {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetRestriction(_ context.Context, id uuid.UUID) (*models.UserRestriction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restrictions[id]
	if !ok {
		return nil, ErrRestrictionNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) DeactivateRestriction(_ context.Context, id uuid.UUID, liftedBy *uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restrictions[id]
	if !ok {
		return ErrRestrictionNotFound
	}
	r.IsActive = false
	if liftedBy != nil {
		lb := *liftedBy
		r.LiftedBy = &lb
		lifted := at
		r.LiftedAt = &lifted
	}
	r.UpdatedAt = at
	return nil
}

func (m *MemoryStore) ResolveOwner(_ context.Context, target Target) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if target.Type == TargetUser {
		if m.users[target.ID] {
			return target.ID, nil
		}
		return uuid.Nil, ErrUnresolvableTarget
	}
	owner, ok := m.owners[target]
	if !ok {
		return uuid.Nil, ErrUnresolvableTarget
	}
	return owner, nil
}

// Transaction serializes check-then-act sequences. Writes apply immediately;
// there is no rollback, which is fine for the tests this store exists for.
func (m *MemoryStore) Transaction(_ context.Context, fn func(Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}
