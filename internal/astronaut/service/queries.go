package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"stargate/internal/astronaut/models"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/audit"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/platform/strings"
	"stargate/pkg/requestcontext"
)

// GetPersonByName returns the person's current snapshot, or nil when the name is
// blank or unknown.
func (s *Service) GetPersonByName(ctx context.Context, name string) (*models.PersonAstronaut, error) {
	ctx, span := s.tracer.Start(ctx, "astronaut.GetPersonByName")
	defer span.End()

	name = strings.NormalizeNameOrTitle(name)
	if name == "" {
		return nil, nil
	}
	person, err := s.store.FindPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, s.queryFailed(ctx, "GetPersonByName", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person"))
	}
	l, err := loadLedgerFor(ctx, s.store, person)
	if err != nil {
		return nil, s.queryFailed(ctx, "GetPersonByName", err)
	}
	return snapshot(person, l.detail, l.duties, requestcontext.Today(ctx)), nil
}

// GetCurrentSnapshot returns the snapshot for a person id.
func (s *Service) GetCurrentSnapshot(ctx context.Context, personID int64) (*models.PersonAstronaut, error) {
	ctx, span := s.tracer.Start(ctx, "astronaut.GetCurrentSnapshot")
	defer span.End()
	span.SetAttributes(attribute.Int64("astronaut.person_id", personID))

	person, err := s.store.FindPersonByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, s.queryFailed(ctx, "GetCurrentSnapshot", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person"))
	}
	l, err := loadLedgerFor(ctx, s.store, person)
	if err != nil {
		return nil, s.queryFailed(ctx, "GetCurrentSnapshot", err)
	}
	return snapshot(person, l.detail, l.duties, requestcontext.Today(ctx)), nil
}

// GetDutyHistory returns the person's snapshot and duties, newest first.
// An unknown or blank name yields a nil person and no duties.
func (s *Service) GetDutyHistory(ctx context.Context, name string) (*models.PersonAstronaut, []*models.AstronautDuty, error) {
	ctx, span := s.tracer.Start(ctx, "astronaut.GetDutyHistory")
	defer span.End()

	name = strings.NormalizeNameOrTitle(name)
	if name == "" {
		return nil, []*models.AstronautDuty{}, nil
	}
	person, err := s.store.FindPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, []*models.AstronautDuty{}, nil
		}
		return nil, nil, s.queryFailed(ctx, "GetAstronautDutiesByName", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person"))
	}
	l, err := loadLedgerFor(ctx, s.store, person)
	if err != nil {
		return nil, nil, s.queryFailed(ctx, "GetAstronautDutiesByName", err)
	}

	history := slices.Clone(l.duties)
	slices.SortFunc(history, func(a, b *models.AstronautDuty) int {
		return b.DutyStartDate.Compare(a.DutyStartDate)
	})
	if history == nil {
		history = []*models.AstronautDuty{}
	}
	return snapshot(person, l.detail, l.duties, requestcontext.Today(ctx)), history, nil
}

// GetPeopleOverview returns a snapshot for every person, ordered by id.
func (s *Service) GetPeopleOverview(ctx context.Context) ([]*models.PersonAstronaut, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "astronaut.GetPeopleOverview")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveOverview(start)
	}

	today := requestcontext.Today(ctx)
	var (
		people  []*models.Person
		details []*models.AstronautDetail
		active  []*models.AstronautDuty
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		people, err = s.store.ListPeople(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = s.store.ListDetails(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.store.ListDutiesActiveOn(gctx, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.queryFailed(ctx, "GetPeople", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load people"))
	}

	detailByPerson := make(map[int64]*models.AstronautDetail, len(details))
	for _, d := range details {
		detailByPerson[d.PersonID] = d
	}
	dutiesByPerson := make(map[int64][]*models.AstronautDuty)
	for _, d := range active {
		dutiesByPerson[d.PersonID] = append(dutiesByPerson[d.PersonID], d)
	}

	out := make([]*models.PersonAstronaut, 0, len(people))
	for _, p := range people {
		out = append(out, snapshot(p, detailByPerson[p.ID], dutiesByPerson[p.ID], today))
	}
	span.SetAttributes(attribute.Int("astronaut.people", len(out)))
	return out, nil
}

// snapshot projects a person with the duty active on today. When several duties
// cover today the latest start wins.
func snapshot(p *models.Person, detail *models.AstronautDetail, duties []*models.AstronautDuty, today time.Time) *models.PersonAstronaut {
	pa := &models.PersonAstronaut{PersonID: p.ID, Name: p.Name}
	if current := activeDuty(duties, today); current != nil {
		pa.CurrentRank = current.Rank
		pa.CurrentDutyTitle = current.DutyTitle
	}
	if detail != nil {
		start := detail.CareerStartDate
		pa.CareerStartDate = &start
		if detail.CareerEndDate != nil {
			end := *detail.CareerEndDate
			pa.CareerEndDate = &end
		}
	}
	return pa
}

func activeDuty(duties []*models.AstronautDuty, today time.Time) *models.AstronautDuty {
	var current *models.AstronautDuty
	for _, d := range duties {
		if !d.Covers(today) {
			continue
		}
		if current == nil || d.DutyStartDate.After(current.DutyStartDate) {
			current = d
		}
	}
	return current
}

func (s *Service) queryFailed(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "query failed",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err.Error(),
	)
	s.emit(ctx, audit.Error("Error in "+op, dErrors.Message(err), err))
	return err
}
