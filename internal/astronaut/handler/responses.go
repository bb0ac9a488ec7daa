package handler

import (
	"stargate/internal/astronaut/models"
	"stargate/pkg/platform/httputil"
)

// PersonAstronautResponse is the JSON shape of a person's current snapshot.
type PersonAstronautResponse struct {
	PersonID         int64   `json:"personId"`
	Name             string  `json:"name"`
	CurrentRank      *string `json:"currentRank"`
	CurrentDutyTitle *string `json:"currentDutyTitle"`
	CareerStartDate  *string `json:"careerStartDate"`
	CareerEndDate    *string `json:"careerEndDate"`
}

// DutyResponse is the JSON shape of one duty.
type DutyResponse struct {
	ID            int64   `json:"id"`
	Rank          string  `json:"rank"`
	DutyTitle     string  `json:"dutyTitle"`
	DutyStartDate string  `json:"dutyStartDate"`
	DutyEndDate   *string `json:"dutyEndDate"`
}

type IDResponse struct {
	httputil.Response
	ID int64 `json:"id"`
}

type PeopleResponse struct {
	httputil.Response
	People []*PersonAstronautResponse `json:"people"`
}

type PersonResponse struct {
	httputil.Response
	Person *PersonAstronautResponse `json:"person"`
}

type DutiesResponse struct {
	httputil.Response
	Person          *PersonAstronautResponse `json:"person"`
	AstronautDuties []DutyResponse           `json:"astronautDuties"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// FromPersonAstronaut converts a snapshot; nil stays nil.
func FromPersonAstronaut(pa *models.PersonAstronaut) *PersonAstronautResponse {
	if pa == nil {
		return nil
	}
	return &PersonAstronautResponse{
		PersonID:         pa.PersonID,
		Name:             pa.Name,
		CurrentRank:      optional(pa.CurrentRank),
		CurrentDutyTitle: optional(pa.CurrentDutyTitle),
		CareerStartDate:  models.FormatDayPtr(pa.CareerStartDate),
		CareerEndDate:    models.FormatDayPtr(pa.CareerEndDate),
	}
}

func FromPeople(people []*models.PersonAstronaut) []*PersonAstronautResponse {
	out := make([]*PersonAstronautResponse, 0, len(people))
	for _, pa := range people {
		out = append(out, FromPersonAstronaut(pa))
	}
	return out
}

func FromDuties(duties []*models.AstronautDuty) []DutyResponse {
	out := make([]DutyResponse, 0, len(duties))
	for _, d := range duties {
		out = append(out, DutyResponse{
			ID:            d.ID,
			Rank:          d.Rank,
			DutyTitle:     d.DutyTitle,
			DutyStartDate: models.FormatDay(d.DutyStartDate),
			DutyEndDate:   models.FormatDayPtr(d.DutyEndDate),
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
