package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stargate/internal/astronaut/handler/mocks"
	"stargate/internal/astronaut/models"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/httputil"
	"stargate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,Pinger
type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	pinger  *mocks.MockPinger
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.pinger = mocks.NewMockPinger(ctrl)
	s.router = chi.NewRouter()
	New(s.service, s.pinger, nil).Register(s.router)
}

func date(v string) *time.Time {
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return &t
}

// =============================================================================
// POST /Person
// =============================================================================

func (s *HandlerSuite) TestCreatePerson() {
	s.Run("accepts a bare JSON string", func() {
		s.service.EXPECT().CreatePerson(gomock.Any(), "John Doe").
			Return(&models.Person{ID: 7, Name: "John Doe"}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/Person", `"John Doe"`))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[IDResponse](s.T(), rr)
		s.Equal(int64(7), resp.ID)
		s.Equal("Person with the name of John Doe created successfully", resp.Message)
		s.Equal(http.StatusOK, resp.ResponseCode)
	})

	s.Run("accepts an object with a name", func() {
		s.service.EXPECT().CreatePerson(gomock.Any(), "Jane").
			Return(&models.Person{ID: 8, Name: "Jane"}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/Person", map[string]string{"name": " Jane "}))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("duplicate name is a 400", func() {
		s.service.EXPECT().CreatePerson(gomock.Any(), "John Doe").
			Return(nil, dErrors.New(dErrors.CodeConflict, "Bad Request. Name already exists in system"))

		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/Person", `"John Doe"`))
		testutil.AssertFailure(s.T(), rr, http.StatusBadRequest, "Bad Request. Name already exists in system")
	})

	s.Run("malformed body never reaches the service", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/Person", `{`))
		testutil.AssertFailure(s.T(), rr, http.StatusBadRequest, "Request body is not valid JSON")
	})
}

// =============================================================================
// POST /AstronautDuty
// =============================================================================

func (s *HandlerSuite) TestCreateDuty() {
	s.Run("parses the start date and echoes the normalized command", func() {
		s.service.EXPECT().CreateDuty(gomock.Any(), models.CreateDutyCommand{
			Name: "Steve ", Rank: "CPT", DutyTitle: "Commander", DutyStartDate: *date("2024-03-01"),
		}).Return(&models.AstronautDuty{ID: 42}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/AstronautDuty", CreateDutyRequest{
			Name: "Steve ", Rank: "CPT", DutyTitle: "Commander", DutyStartDate: "2024-03-01T00:00:00Z",
		}))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[IDResponse](s.T(), rr)
		s.Equal(int64(42), resp.ID)
		s.Equal("Successfully created astronaut duty for Steve: Commander (Rank: CPT) starting 2024-03-01", resp.Message)
	})

	s.Run("unparseable date is a 400", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/AstronautDuty", CreateDutyRequest{
			Name: "Steve", Rank: "CPT", DutyTitle: "Commander", DutyStartDate: "03/01/2024",
		}))
		testutil.AssertFailure(s.T(), rr, http.StatusBadRequest, "Duty start date must be formatted as YYYY-MM-DD")
	})

	s.Run("server errors hide their detail", func() {
		s.service.EXPECT().CreateDuty(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("connection reset"), dErrors.CodeInternal, "failed to create astronaut duty"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/AstronautDuty", CreateDutyRequest{
			Name: "Steve", Rank: "CPT", DutyTitle: "Commander", DutyStartDate: "2024-03-01",
		}))
		testutil.AssertFailure(s.T(), rr, http.StatusInternalServerError, httputil.InternalErrorMessage)
	})
}

// =============================================================================
// Queries
// =============================================================================

func (s *HandlerSuite) TestGetPeople() {
	s.service.EXPECT().GetPeopleOverview(gomock.Any()).Return([]*models.PersonAstronaut{
		{PersonID: 1, Name: "Steve", CurrentRank: "CPT", CurrentDutyTitle: "Commander", CareerStartDate: date("2024-01-01")},
		{PersonID: 2, Name: "Rookie"},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/Person"))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[PeopleResponse](s.T(), rr)
	s.Require().Len(resp.People, 2)
	s.Equal("CPT", *resp.People[0].CurrentRank)
	s.Equal("2024-01-01", *resp.People[0].CareerStartDate)
	s.Nil(resp.People[0].CareerEndDate)
	s.Nil(resp.People[1].CurrentRank)
}

func (s *HandlerSuite) TestGetPersonUnescapesName() {
	s.service.EXPECT().GetPersonByName(gomock.Any(), "John Doe").Return(nil, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/Person/John%20Doe"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONHasKey(s.T(), rr, "person")
	testutil.AssertJSONContains(s.T(), rr, "person", nil)
}

func (s *HandlerSuite) TestGetDuties() {
	s.service.EXPECT().GetDutyHistory(gomock.Any(), "Steve").Return(
		&models.PersonAstronaut{PersonID: 1, Name: "Steve"},
		[]*models.AstronautDuty{
			{ID: 2, Rank: "CPT", DutyTitle: "Commander", DutyStartDate: *date("2024-03-01")},
			{ID: 1, Rank: "1LT", DutyTitle: "Commander", DutyStartDate: *date("2024-01-01"), DutyEndDate: date("2024-02-29")},
		}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/AstronautDuty/Steve"))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[DutiesResponse](s.T(), rr)
	s.Require().Len(resp.AstronautDuties, 2)
	s.Nil(resp.AstronautDuties[0].DutyEndDate)
	s.Equal("2024-02-29", *resp.AstronautDuties[1].DutyEndDate)
}

func (s *HandlerSuite) TestGetDutiesUnknownPersonReturnsEmptyList() {
	s.service.EXPECT().GetDutyHistory(gomock.Any(), "Nobody").Return(nil, []*models.AstronautDuty{}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/AstronautDuty/Nobody"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "astronautDuties", []any{})
}

// =============================================================================
// Health
// =============================================================================

func (s *HandlerSuite) TestHealth() {
	s.Run("ok when storage answers", func() {
		s.pinger.EXPECT().Ping(gomock.Any()).Return(nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "status", "ok")
	})

	s.Run("unavailable when storage fails", func() {
		s.pinger.EXPECT().Ping(gomock.Any()).Return(context.DeadlineExceeded)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	})
}
