package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"stargate/internal/astronaut/models"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/platform/strings"
)

// InMemoryStore keeps people, summaries and duties in maps. RunInTx serializes
// writers and restores a snapshot when the callback fails.
type InMemoryStore struct {
	txMu sync.Mutex

	mu         sync.RWMutex
	people     map[int64]*models.Person
	peopleKeys map[string]int64
	details    map[int64]*models.AstronautDetail // by person id
	duties     map[int64]*models.AstronautDuty
	nextID     int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		people:     make(map[int64]*models.Person),
		peopleKeys: make(map[string]int64),
		details:    make(map[int64]*models.AstronautDetail),
		duties:     make(map[int64]*models.AstronautDuty),
	}
}

// RunInTx runs fn against the store, rolling back every change fn made if it
// returns an error.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(ctx, s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *InMemoryStore) CreatePerson(_ context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.peopleKeys[person.NameKey]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.nextID++
	person.ID = s.nextID
	stored := *person
	s.people[person.ID] = &stored
	s.peopleKeys[person.NameKey] = person.ID
	return nil
}

func (s *InMemoryStore) FindPersonByName(_ context.Context, name string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.peopleKeys[strings.FoldKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p := *s.people[id]
	return &p, nil
}

func (s *InMemoryStore) FindPersonByID(_ context.Context, id int64) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *p
	return &c, nil
}

// ListPeople returns every person ordered by id.
func (s *InMemoryStore) ListPeople(_ context.Context) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Person, 0, len(s.people))
	for _, p := range s.people {
		c := *p
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.Person) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *InMemoryStore) FindDetail(_ context.Context, personID int64) (*models.AstronautDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.details[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (s *InMemoryStore) ListDetails(_ context.Context) ([]*models.AstronautDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AstronautDetail, 0, len(s.details))
	for _, d := range s.details {
		out = append(out, d.Clone())
	}
	slices.SortFunc(out, func(a, b *models.AstronautDetail) int { return cmp.Compare(a.PersonID, b.PersonID) })
	return out, nil
}

// SaveDetail inserts the summary when its ID is zero, otherwise replaces it.
func (s *InMemoryStore) SaveDetail(_ context.Context, detail *models.AstronautDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[detail.PersonID]; !ok {
		return sentinel.ErrNotFound
	}
	existing, exists := s.details[detail.PersonID]
	if detail.ID == 0 {
		if exists {
			return fmt.Errorf("insert detail: person %d already has a summary: %w", detail.PersonID, sentinel.ErrInconsistent)
		}
		s.nextID++
		detail.ID = s.nextID
	} else if !exists || existing.ID != detail.ID {
		return sentinel.ErrNotFound
	}
	s.details[detail.PersonID] = detail.Clone()
	return nil
}

// ListDutiesByPerson returns the person's duties ordered by start date ascending.
func (s *InMemoryStore) ListDutiesByPerson(_ context.Context, personID int64) ([]*models.AstronautDuty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.AstronautDuty
	for _, d := range s.duties {
		if d.PersonID == personID {
			out = append(out, d.Clone())
		}
	}
	sortByStart(out)
	return out, nil
}

// ListDutiesActiveOn returns every duty covering day, ordered by person then start date.
func (s *InMemoryStore) ListDutiesActiveOn(_ context.Context, day time.Time) ([]*models.AstronautDuty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.AstronautDuty
	for _, d := range s.duties {
		if d.Covers(day) {
			out = append(out, d.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.AstronautDuty) int {
		if c := cmp.Compare(a.PersonID, b.PersonID); c != 0 {
			return c
		}
		return a.DutyStartDate.Compare(b.DutyStartDate)
	})
	return out, nil
}

// CreateDuty enforces the same constraints the SQL schema does: one duty per start
// date and one open duty per person.
func (s *InMemoryStore) CreateDuty(_ context.Context, duty *models.AstronautDuty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[duty.PersonID]; !ok {
		return sentinel.ErrNotFound
	}
	if duty.DutyEndDate != nil && duty.DutyEndDate.Before(duty.DutyStartDate) {
		return fmt.Errorf("insert duty: end date before start: %w", sentinel.ErrInconsistent)
	}
	for _, d := range s.duties {
		if d.PersonID != duty.PersonID {
			continue
		}
		if d.DutyStartDate.Equal(duty.DutyStartDate) {
			return sentinel.ErrAlreadyUsed
		}
		if d.IsOpen() && duty.IsOpen() {
			return fmt.Errorf("insert duty: person %d already has an open duty: %w", duty.PersonID, sentinel.ErrInconsistent)
		}
	}
	s.nextID++
	duty.ID = s.nextID
	s.duties[duty.ID] = duty.Clone()
	return nil
}

// SetDutyEndDate mirrors the schema's CHECK and one-open-duty index.
func (s *InMemoryStore) SetDutyEndDate(_ context.Context, dutyID int64, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.duties[dutyID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if end == nil {
		for _, other := range s.duties {
			if other.ID != d.ID && other.PersonID == d.PersonID && other.IsOpen() {
				return fmt.Errorf("update duty end date: person %d already has an open duty: %w", d.PersonID, sentinel.ErrInconsistent)
			}
		}
		d.DutyEndDate = nil
		return nil
	}
	if end.Before(d.DutyStartDate) {
		return fmt.Errorf("update duty end date: end date before start: %w", sentinel.ErrInconsistent)
	}
	e := *end
	d.DutyEndDate = &e
	return nil
}

// Ping satisfies the health check; memory is always available.
func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}

type memorySnapshot struct {
	people     map[int64]*models.Person
	peopleKeys map[string]int64
	details    map[int64]*models.AstronautDetail
	duties     map[int64]*models.AstronautDuty
	nextID     int64
}

func (s *InMemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memorySnapshot{
		people:     make(map[int64]*models.Person, len(s.people)),
		peopleKeys: make(map[string]int64, len(s.peopleKeys)),
		details:    make(map[int64]*models.AstronautDetail, len(s.details)),
		duties:     make(map[int64]*models.AstronautDuty, len(s.duties)),
		nextID:     s.nextID,
	}
	for k, v := range s.people {
		c := *v
		snap.people[k] = &c
	}
	for k, v := range s.peopleKeys {
		snap.peopleKeys[k] = v
	}
	for k, v := range s.details {
		snap.details[k] = v.Clone()
	}
	for k, v := range s.duties {
		snap.duties[k] = v.Clone()
	}
	return snap
}

func (s *InMemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = snap.people
	s.peopleKeys = snap.peopleKeys
	s.details = snap.details
	s.duties = snap.duties
	s.nextID = snap.nextID
}

func sortByStart(duties []*models.AstronautDuty) {
	slices.SortFunc(duties, func(a, b *models.AstronautDuty) int {
		return a.DutyStartDate.Compare(b.DutyStartDate)
	})
}
