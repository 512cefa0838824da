package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-enhancer/internal/db"
)

// fakeStore is an in-memory Store. It mirrors the database conventions: lookups of missing or
// foreign rows return nil, deletes of missing rows wrap db.ErrNotFound.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*db.User
	cvs          map[uuid.UUID]*db.CV
	suggestions  []db.StoredSuggestion
	letters      map[uuid.UUID]*db.CoverLetter
	applications map[uuid.UUID]*db.JobApplication
	seq          time.Duration
	failCounts   error
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]*db.User{},
		cvs:          map[uuid.UUID]*db.CV{},
		letters:      map[uuid.UUID]*db.CoverLetter{},
		applications: map[uuid.UUID]*db.JobApplication{},
	}
}

// tick returns strictly increasing timestamps so ordering by creation is deterministic.
func (f *fakeStore) tick() time.Time {
	f.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(f.seq * time.Second)
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, fmt.Errorf("user %s: %w", email, db.ErrDuplicate)
		}
	}
	now := f.tick()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash,
		IsActive: true, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, db.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeStore) CreateCV(_ context.Context, c *db.CV) (*db.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.cvs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetCV(_ context.Context, userID, id uuid.UUID) (*db.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cvs[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListCVs(_ context.Context, userID uuid.UUID) ([]db.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.CV{}
	for _, c := range f.cvs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateCV(_ context.Context, c *db.CV) (*db.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.cvs[c.ID]
	if !ok || existing.UserID != c.UserID {
		return nil, nil
	}
	cp := *c
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = f.tick()
	f.cvs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteCV(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cvs[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("cv %s: %w", id, db.ErrNotFound)
	}
	delete(f.cvs, id)
	return nil
}

func (f *fakeStore) CountCVs(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCounts != nil {
		return 0, f.failCounts
	}
	n := 0
	for _, c := range f.cvs {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SaveCustomization(_ context.Context, c *db.Customization, suggestions []db.StoredSuggestion) (*db.Customization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *c
	saved.ID = uuid.New()
	saved.CreatedAt = f.tick()
	saved.Suggestions = make([]db.StoredSuggestion, 0, len(suggestions))
	if saved.MatchedKeywords == nil {
		saved.MatchedKeywords = db.StringArray{}
	}
	if saved.MissingKeywords == nil {
		saved.MissingKeywords = db.StringArray{}
	}
	for i, s := range suggestions {
		customizationID := saved.ID
		s.ID = uuid.New()
		s.CVID = c.CVID
		s.CustomizationID = &customizationID
		s.Position = i
		s.CreatedAt = saved.CreatedAt
		f.suggestions = append(f.suggestions, s)
		saved.Suggestions = append(saved.Suggestions, s)
	}
	return &saved, nil
}

func (f *fakeStore) ListSuggestions(_ context.Context, cvID uuid.UUID) ([]db.StoredSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.StoredSuggestion{}
	for _, s := range f.suggestions {
		if s.CVID == cvID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ApplySuggestion(_ context.Context, cvID, id uuid.UUID) (*db.StoredSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.suggestions {
		if f.suggestions[i].ID == id && f.suggestions[i].CVID == cvID {
			f.suggestions[i].IsApplied = true
			cp := f.suggestions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCoverLetter(_ context.Context, l *db.CoverLetter) (*db.CoverLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	cp.ID = uuid.New()
	if cp.Title == "" {
		cp.Title = db.DefaultCoverLetterTitle
	}
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.letters[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetCoverLetter(_ context.Context, userID, id uuid.UUID) (*db.CoverLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.letters[id]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) ListCoverLetters(_ context.Context, userID uuid.UUID) ([]db.CoverLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.CoverLetter{}
	for _, l := range f.letters {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateCoverLetter(_ context.Context, l *db.CoverLetter) (*db.CoverLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.letters[l.ID]
	if !ok || existing.UserID != l.UserID {
		return nil, nil
	}
	cp := *l
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = f.tick()
	f.letters[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteCoverLetter(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.letters[id]
	if !ok || l.UserID != userID {
		return fmt.Errorf("cover letter %s: %w", id, db.ErrNotFound)
	}
	delete(f.letters, id)
	return nil
}

func (f *fakeStore) CountCoverLetters(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.letters {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateJobApplication(_ context.Context, a *db.JobApplication) (*db.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	cp.ID = uuid.New()
	if cp.Status == "" {
		cp.Status = db.StatusSaved
	}
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.applications[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetJobApplication(_ context.Context, userID, id uuid.UUID) (*db.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListJobApplications(_ context.Context, userID uuid.UUID, status string, limit int) ([]db.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.JobApplication{}
	for _, a := range f.applications {
		if a.UserID == userID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateJobApplication(_ context.Context, a *db.JobApplication) (*db.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.applications[a.ID]
	if !ok || existing.UserID != a.UserID {
		return nil, nil
	}
	cp := *a
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = f.tick()
	f.applications[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteJobApplication(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applications[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("job application %s: %w", id, db.ErrNotFound)
	}
	delete(f.applications, id)
	return nil
}

func (f *fakeStore) CountApplicationsByStatus(_ context.Context, userID uuid.UUID) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, a := range f.applications {
		if a.UserID == userID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

var errStoreDown = errors.New("connection refused")
