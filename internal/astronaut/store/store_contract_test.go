package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stargate/internal/astronaut/models"
	"stargate/pkg/platform/sentinel"
)

// storeContractSuite runs the same behaviour checks against every Store implementation.
type storeContractSuite struct {
	suite.Suite
	newStore func(t *testing.T) TxStore
	store    TxStore
	ctx      context.Context
}

func (s *storeContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func day(v string) time.Time {
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(v string) *time.Time {
	t := day(v)
	return &t
}

func (s *storeContractSuite) createPerson(name string) *models.Person {
	p := models.NewPerson(name, time.Now())
	s.Require().NoError(s.store.CreatePerson(s.ctx, p))
	s.Require().NotZero(p.ID)
	return p
}

func (s *storeContractSuite) TestPersonLookupIsCaseInsensitive() {
	p := s.createPerson("John Doe")

	found, err := s.store.FindPersonByName(s.ctx, "  JOHN   doe ")
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("John Doe", found.Name)

	byID, err := s.store.FindPersonByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("John Doe", byID.Name)
}

func (s *storeContractSuite) TestPersonNotFound() {
	_, err := s.store.FindPersonByName(s.ctx, "Nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindPersonByID(s.ctx, 999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *storeContractSuite) TestDuplicatePersonNameRejected() {
	s.createPerson("Jane Doe")

	err := s.store.CreatePerson(s.ctx, models.NewPerson("jane DOE", time.Now()))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *storeContractSuite) TestListPeopleOrderedByID() {
	a := s.createPerson("Alpha")
	b := s.createPerson("Bravo")

	people, err := s.store.ListPeople(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(people, 2)
	s.Equal(a.ID, people[0].ID)
	s.Equal(b.ID, people[1].ID)
}

func (s *storeContractSuite) TestDetailInsertThenUpdate() {
	p := s.createPerson("John Doe")

	_, err := s.store.FindDetail(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	detail := &models.AstronautDetail{PersonID: p.ID, CareerStartDate: day("2024-01-10")}
	s.Require().NoError(s.store.SaveDetail(s.ctx, detail))
	s.NotZero(detail.ID)

	detail.CareerEndDate = dayPtr("2024-02-29")
	s.Require().NoError(s.store.SaveDetail(s.ctx, detail))

	got, err := s.store.FindDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(day("2024-01-10"), got.CareerStartDate)
	s.Require().NotNil(got.CareerEndDate)
	s.Equal(day("2024-02-29"), *got.CareerEndDate)

	details, err := s.store.ListDetails(s.ctx)
	s.Require().NoError(err)
	s.Len(details, 1)

	second := &models.AstronautDetail{PersonID: p.ID, CareerStartDate: day("2023-01-01")}
	s.ErrorIs(s.store.SaveDetail(s.ctx, second), sentinel.ErrInconsistent)
}

func (s *storeContractSuite) TestDutiesOrderedAndEndDateUpdates() {
	p := s.createPerson("John Doe")
	later := &models.AstronautDuty{PersonID: p.ID, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: day("2024-02-01")}
	earlier := &models.AstronautDuty{PersonID: p.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10"), DutyEndDate: dayPtr("2024-01-31")}
	s.Require().NoError(s.store.CreateDuty(s.ctx, later))
	s.Require().NoError(s.store.CreateDuty(s.ctx, earlier))

	duties, err := s.store.ListDutiesByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(duties, 2)
	s.Equal("Pilot", duties[0].DutyTitle)
	s.Equal(day("2024-01-31"), *duties[0].DutyEndDate)
	s.True(duties[1].IsOpen())

	s.Require().NoError(s.store.SetDutyEndDate(s.ctx, later.ID, dayPtr("2024-02-29")))
	duties, err = s.store.ListDutiesByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(day("2024-02-29"), *duties[1].DutyEndDate)

	s.ErrorIs(s.store.SetDutyEndDate(s.ctx, 9999, nil), sentinel.ErrNotFound)
}

func (s *storeContractSuite) TestDutyUniqueness() {
	p := s.createPerson("John Doe")
	s.Require().NoError(s.store.CreateDuty(s.ctx, &models.AstronautDuty{
		PersonID: p.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10"),
	}))

	sameStart := &models.AstronautDuty{PersonID: p.ID, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: day("2024-01-10"), DutyEndDate: dayPtr("2024-01-20")}
	s.ErrorIs(s.store.CreateDuty(s.ctx, sameStart), sentinel.ErrAlreadyUsed)

	secondOpen := &models.AstronautDuty{PersonID: p.ID, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: day("2024-02-01")}
	err := s.store.CreateDuty(s.ctx, secondOpen)
	s.ErrorIs(err, sentinel.ErrInconsistent, "a second open duty is a broken ledger, not a taken start date")
	s.NotErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *storeContractSuite) TestDutyEndDateConstraints() {
	p := s.createPerson("John Doe")
	closed := &models.AstronautDuty{PersonID: p.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10"), DutyEndDate: dayPtr("2024-01-31")}
	open := &models.AstronautDuty{PersonID: p.ID, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: day("2024-02-01")}
	s.Require().NoError(s.store.CreateDuty(s.ctx, closed))
	s.Require().NoError(s.store.CreateDuty(s.ctx, open))

	s.Run("reopening while another duty is open", func() {
		s.ErrorIs(s.store.SetDutyEndDate(s.ctx, closed.ID, nil), sentinel.ErrInconsistent)
	})

	s.Run("end date before start", func() {
		s.ErrorIs(s.store.SetDutyEndDate(s.ctx, open.ID, dayPtr("2024-01-15")), sentinel.ErrInconsistent)

		backwards := &models.AstronautDuty{PersonID: p.ID, Rank: "CPT", DutyTitle: "Pilot", DutyStartDate: day("2023-06-01"), DutyEndDate: dayPtr("2023-05-01")}
		s.ErrorIs(s.store.CreateDuty(s.ctx, backwards), sentinel.ErrInconsistent)
	})

	duties, err := s.store.ListDutiesByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(duties, 2)
	s.Equal(day("2024-01-31"), *duties[0].DutyEndDate)
	s.True(duties[1].IsOpen())
}

func (s *storeContractSuite) TestListDutiesActiveOn() {
	a := s.createPerson("Alpha")
	b := s.createPerson("Bravo")
	s.Require().NoError(s.store.CreateDuty(s.ctx, &models.AstronautDuty{PersonID: a.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10"), DutyEndDate: dayPtr("2024-01-31")}))
	s.Require().NoError(s.store.CreateDuty(s.ctx, &models.AstronautDuty{PersonID: a.ID, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: day("2024-02-01")}))
	s.Require().NoError(s.store.CreateDuty(s.ctx, &models.AstronautDuty{PersonID: b.ID, Rank: "SGT", DutyTitle: "Engineer", DutyStartDate: day("2024-03-01")}))

	active, err := s.store.ListDutiesActiveOn(s.ctx, day("2024-01-31"))
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("Pilot", active[0].DutyTitle)

	active, err = s.store.ListDutiesActiveOn(s.ctx, day("2024-03-01"))
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal(a.ID, active[0].PersonID)
	s.Equal(b.ID, active[1].PersonID)
}

func (s *storeContractSuite) TestRunInTxRollsBackOnError() {
	p := s.createPerson("John Doe")
	boom := errors.New("boom")

	err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx Store) error {
		s.Require().NoError(tx.CreateDuty(ctx, &models.AstronautDuty{PersonID: p.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10")}))
		s.Require().NoError(tx.SaveDetail(ctx, &models.AstronautDetail{PersonID: p.ID, CareerStartDate: day("2024-01-10")}))
		return boom
	})
	s.ErrorIs(err, boom)

	duties, err := s.store.ListDutiesByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(duties)
	_, err = s.store.FindDetail(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *storeContractSuite) TestRunInTxCommits() {
	p := s.createPerson("John Doe")

	err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx Store) error {
		return tx.CreateDuty(ctx, &models.AstronautDuty{PersonID: p.ID, Rank: "1LT", DutyTitle: "Pilot", DutyStartDate: day("2024-01-10")})
	})
	s.Require().NoError(err)

	duties, err := s.store.ListDutiesByPerson(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Len(duties, 1)
}

func (s *storeContractSuite) TestRunInTxHonoursCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	called := false
	err := s.store.RunInTx(ctx, func(context.Context, Store) error {
		called = true
		return nil
	})
	s.Error(err)
	s.False(called)
}
