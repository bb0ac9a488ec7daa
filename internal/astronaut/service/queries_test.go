package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/store"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/requestcontext"
)

func newQueryFixture(t *testing.T) (*Service, context.Context) {
	t.Helper()
	ctx := requestcontext.WithTime(context.Background(), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	svc := New(store.NewInMemory())

	for _, name := range []string{"Steve", "Jane", "Rookie"} {
		_, err := svc.CreatePerson(ctx, name)
		require.NoError(t, err)
	}
	for _, c := range []models.CreateDutyCommand{
		dutyCmd("Steve", "1LT", "Commander", "2024-01-01"),
		dutyCmd("Steve", "CPT", "Commander", "2024-03-01"),
		dutyCmd("Jane", "MAJ", "Pilot", "2023-01-01"),
		dutyCmd("Jane", "MAJ", "RETIRED", "2024-01-01"),
	} {
		_, err := svc.CreateDuty(ctx, c)
		require.NoError(t, err)
	}
	return svc, ctx
}

func TestGetPeopleOverview(t *testing.T) {
	svc, ctx := newQueryFixture(t)

	people, err := svc.GetPeopleOverview(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)

	assert.Equal(t, "Steve", people[0].Name)
	assert.Equal(t, "CPT", people[0].CurrentRank)
	assert.Equal(t, day("2024-01-01"), *people[0].CareerStartDate)
	assert.Nil(t, people[0].CareerEndDate)

	assert.Equal(t, "RETIRED", people[1].CurrentDutyTitle)
	assert.Equal(t, day("2023-12-31"), *people[1].CareerEndDate)

	assert.Equal(t, "Rookie", people[2].Name)
	assert.Empty(t, people[2].CurrentRank)
	assert.Nil(t, people[2].CareerStartDate)
}

func TestGetPersonByName(t *testing.T) {
	svc, ctx := newQueryFixture(t)

	pa, err := svc.GetPersonByName(ctx, "  steve ")
	require.NoError(t, err)
	assert.Equal(t, "Steve", pa.Name)

	pa, err = svc.GetPersonByName(ctx, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, pa)

	pa, err = svc.GetPersonByName(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, pa)
}

func TestGetCurrentSnapshot(t *testing.T) {
	svc, ctx := newQueryFixture(t)

	byName, err := svc.GetPersonByName(ctx, "Jane")
	require.NoError(t, err)

	byID, err := svc.GetCurrentSnapshot(ctx, byName.PersonID)
	require.NoError(t, err)
	assert.Equal(t, byName, byID)

	_, err = svc.GetCurrentSnapshot(ctx, 9999)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestGetDutyHistory(t *testing.T) {
	svc, ctx := newQueryFixture(t)

	pa, duties, err := svc.GetDutyHistory(ctx, "STEVE")
	require.NoError(t, err)
	require.Len(t, duties, 2)
	assert.Equal(t, "CPT", pa.CurrentRank)
	assert.True(t, duties[0].DutyStartDate.After(duties[1].DutyStartDate), "newest first")

	pa, duties, err = svc.GetDutyHistory(ctx, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, pa)
	assert.NotNil(t, duties)
	assert.Empty(t, duties)

	_, duties, err = svc.GetDutyHistory(ctx, "Rookie")
	require.NoError(t, err)
	assert.NotNil(t, duties)
	assert.Empty(t, duties)
}

func TestActiveDutyPrefersLatestStart(t *testing.T) {
	duties := []*models.AstronautDuty{
		duty(1, "1LT", "Pilot", "2024-01-01", dayPtr("2024-12-31")),
		duty(2, "CPT", "Commander", "2024-03-01", nil),
		duty(3, "MAJ", "Instructor", "2024-07-01", nil),
	}

	current := activeDuty(duties, day("2024-06-15"))
	require.NotNil(t, current)
	assert.Equal(t, int64(2), current.ID)
	assert.Nil(t, activeDuty(duties, day("2023-06-15")))
}
