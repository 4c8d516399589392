package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
	// setPlanErrs are returned by successive SetPlan calls before it
	// starts succeeding.
	setPlanErrs []error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) SetPlan(_ context.Context, id string, plan domain.Plan) error {
	if len(r.setPlanErrs) > 0 {
		err := r.setPlanErrs[0]
		r.setPlanErrs = r.setPlanErrs[1:]
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Plan = plan
	return nil
}

type stubInterviewRepo struct {
	items     map[string]*domain.Interview
	seq       int
	createErr error
	updateErr error
}

func newStubInterviewRepo() *stubInterviewRepo {
	return &stubInterviewRepo{items: make(map[string]*domain.Interview)}
}

func (r *stubInterviewRepo) Create(_ context.Context, iv *domain.Interview) (*domain.Interview, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *iv
	clone.ID = fmt.Sprintf("iv-%d", r.seq)
	stored := clone
	r.items[clone.ID] = &stored
	return &clone, nil
}

func (r *stubInterviewRepo) FindByID(_ context.Context, id string) (*domain.Interview, error) {
	iv, ok := r.items[id]
	if !ok {
		return nil, domain.ErrInterviewNotFound
	}
	clone := *iv
	return &clone, nil
}

func (r *stubInterviewRepo) List(_ context.Context, f ports.ListInterviewsFilter) ([]*domain.Interview, error) {
	var out []*domain.Interview
	for _, iv := range r.items {
		if f.UserID != "" && iv.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(iv.Status) != f.Status {
			continue
		}
		if f.Type != "" && iv.Type != f.Type {
			continue
		}
		clone := *iv
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubInterviewRepo) Update(_ context.Context, iv *domain.Interview) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[iv.ID]; !ok {
		return domain.ErrInterviewNotFound
	}
	clone := *iv
	r.items[iv.ID] = &clone
	return nil
}

func (r *stubInterviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrInterviewNotFound
	}
	delete(r.items, id)
	return nil
}

type stubSessionRepo struct {
	items map[string]*domain.InterviewSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{items: make(map[string]*domain.InterviewSession)}
}

func cloneSession(s *domain.InterviewSession) *domain.InterviewSession {
	clone := *s
	clone.Answers = append([]domain.Answer(nil), s.Answers...)
	return &clone
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.InterviewSession) error {
	r.items[s.ID] = cloneSession(s)
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.InterviewSession, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *stubSessionRepo) Update(_ context.Context, s *domain.InterviewSession) error {
	if _, ok := r.items[s.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.items[s.ID] = cloneSession(s)
	return nil
}

type stubPaymentRepo struct {
	items     map[string]*domain.Payment
	seq       int
	createErr error
	findErr   error
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{items: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *p
	clone.ID = fmt.Sprintf("pay-%d", r.seq)
	stored := clone
	r.items[clone.ID] = &stored
	return &clone, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) ListByUser(_ context.Context, userID string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.items {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error {
	p, ok := r.items[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = status
	p.PaidAt = paidAt
	return nil
}

type stubIdempotency struct {
	values map[string]string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{values: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, scope, key string) (string, bool, error) {
	k := scope + ":" + key
	if v, ok := s.values[k]; ok {
		return v, false, nil
	}
	s.values[k] = ""
	return "", true, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key, value string) error {
	s.values[scope+":"+key] = value
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, scope, key string) error {
	delete(s.values, scope+":"+key)
	return nil
}

type stubActivityRepo struct {
	events []*domain.ActivityEvent
}

func (r *stubActivityRepo) Insert(_ context.Context, e *domain.ActivityEvent) error {
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubActivityRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	var out []*domain.ActivityEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *stubActivityRepo) CountByType(_ context.Context) (map[domain.ActivityType]int64, error) {
	out := map[domain.ActivityType]int64{}
	for _, e := range r.events {
		out[e.Type]++
	}
	return out, nil
}

// recordingPublisher captures published activity events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (p *recordingPublisher) Publish(e domain.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []domain.ActivityType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ActivityType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func userIdentity(id string) *domain.Identity {
	return &domain.Identity{UserID: id, Role: domain.RoleUser}
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }
