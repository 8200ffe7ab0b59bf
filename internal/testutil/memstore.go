// Package testutil provides in-memory stores with the same semantics as the
// Mongo repositories, for HTTP-level tests that should not need a database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
)

// Diaries is an in-memory diary store.
type Diaries struct {
	mu      sync.Mutex
	seq     int64
	entries map[int64]models.DiaryEntry
	Calls   int // number of lookups, for asserting no storage access
}

func NewDiaries() *Diaries {
	return &Diaries{entries: make(map[int64]models.DiaryEntry)}
}

// Put stores e as is, keeping its id.
func (d *Diaries) Put(e models.DiaryEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e.ID > d.seq {
		d.seq = e.ID
	}
	d.entries[e.ID] = e
}

func (d *Diaries) Create(_ context.Context, e *models.DiaryEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	e.ID = d.seq
	d.entries[e.ID] = *e
	return nil
}

func (d *Diaries) FindByID(_ context.Context, id int64) (*models.DiaryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	e, ok := d.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (d *Diaries) FindShared(_ context.Context, token string) (*models.DiaryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	for _, e := range d.entries {
		if e.ShareToken == token && e.Visibility == models.VisibilityShared {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (d *Diaries) ListByUser(_ context.Context, userID, visibility string, skip, limit int64) ([]models.DiaryEntry, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.DiaryEntry
	for _, e := range d.entries {
		if e.UserID == userID && (visibility == "" || e.Visibility == visibility) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := int64(len(out))
	if skip >= total {
		return []models.DiaryEntry{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return out[skip:end], total, nil
}

func (d *Diaries) Update(_ context.Context, id int64, c repository.DiaryChanges, now time.Time) (*models.DiaryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&e.Title, c.Title)
	set(&e.Entry, c.Entry)
	set(&e.Emotion, c.Emotion)
	set(&e.Visibility, c.Visibility)
	set(&e.ShareToken, c.ShareToken)
	e.UpdatedAt = now
	d.entries[id] = e
	return &e, nil
}

func (d *Diaries) SetEmotionAnalysis(_ context.Context, id int64, emotions map[string]float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.EmotionAnalysis = emotions
	d.entries[id] = e
	return nil
}

func (d *Diaries) SetFeedbackIfUnset(_ context.Context, id int64, feedback string, at time.Time) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[id]
	if !ok || e.AIFeedback != "" {
		return false, nil
	}
	e.AIFeedback = feedback
	e.AIFeedbackAt = &at
	d.entries[id] = e
	return true, nil
}

func (d *Diaries) Delete(_ context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(d.entries, id)
	return nil
}

// Comments is an in-memory comment store.
type Comments struct {
	mu       sync.Mutex
	seq      int64
	comments []models.Comment
}

func NewComments() *Comments {
	return &Comments{}
}

func (c *Comments) Create(_ context.Context, m *models.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	m.ID = c.seq
	c.comments = append(c.comments, *m)
	return nil
}

func (c *Comments) ListForEntry(_ context.Context, entryID int64, shareToken string) ([]models.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []models.Comment{}
	for i := len(c.comments) - 1; i >= 0; i-- {
		m := c.comments[i]
		if m.EntryID == entryID && m.ShareToken == shareToken {
			out = append(out, m)
		}
	}
	return out, nil
}

// Emotions is an in-memory emotion analysis store.
type Emotions struct {
	mu       sync.Mutex
	analyses []models.EmotionAnalysis
}

func NewEmotions() *Emotions {
	return &Emotions{}
}

func (s *Emotions) Upsert(_ context.Context, a *models.EmotionAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.analyses {
		if s.analyses[i].DiaryID == a.DiaryID {
			s.analyses[i] = *a
			return nil
		}
	}
	s.analyses = append(s.analyses, *a)
	return nil
}

func (s *Emotions) Latest(_ context.Context, userID string, limit int64) ([]models.EmotionAnalysis, error) {
	all := s.forUser(userID)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Emotions) AllForUser(_ context.Context, userID string) ([]models.EmotionAnalysis, error) {
	all := s.forUser(userID)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (s *Emotions) DeleteByDiary(_ context.Context, diaryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.analyses[:0]
	for _, a := range s.analyses {
		if a.DiaryID != diaryID {
			kept = append(kept, a)
		}
	}
	s.analyses = kept
	return nil
}

func (s *Emotions) forUser(userID string) []models.EmotionAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EmotionAnalysis
	for _, a := range s.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

// Users is an in-memory user store keyed by provider identity.
type Users struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUsers() *Users {
	return &Users{users: make(map[string]models.User)}
}

// Put stores u as is.
func (s *Users) Put(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Users) UpsertLogin(_ context.Context, p models.OAuthProfile, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Provider == p.Provider && u.ProviderID == p.ProviderID {
			u.LastLoginAt = now
			s.users[id] = u
			return &u, nil
		}
	}
	u := models.User{
		ID:          uuid.NewString(),
		Provider:    p.Provider,
		ProviderID:  p.ProviderID,
		Name:        p.Name,
		Email:       p.Email,
		Avatar:      p.Avatar,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}
