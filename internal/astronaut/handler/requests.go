package handler

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"stargate/internal/astronaut/models"
)

// CreatePersonRequest is the body of POST /Person: either a bare JSON string or
// an object with a name field.
type CreatePersonRequest struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts "Steve" as well as {"name":"Steve"}.
func (r *CreatePersonRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Name)
	}
	type plain CreatePersonRequest
	return json.Unmarshal(data, (*plain)(r))
}

// Validate trims the name. Blank names are rejected by the service so the
// failure is recorded in the activity log.
func (r *CreatePersonRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return nil
}

// CreateDutyRequest is the body of POST /AstronautDuty.
type CreateDutyRequest struct {
	Name          string `json:"name"`
	Rank          string `json:"rank"`
	DutyTitle     string `json:"dutyTitle"`
	DutyStartDate string `json:"dutyStartDate"`

	parsedStartDate time.Time
}

// Validate parses the start date. Field rules are enforced by the service.
func (r *CreateDutyRequest) Validate() error {
	start, err := models.ParseDay(r.DutyStartDate)
	if err != nil {
		return err
	}
	r.parsedStartDate = start
	return nil
}

// Command converts the request into the service input.
func (r *CreateDutyRequest) Command() models.CreateDutyCommand {
	return models.CreateDutyCommand{
		Name:          r.Name,
		Rank:          r.Rank,
		DutyTitle:     r.DutyTitle,
		DutyStartDate: r.parsedStartDate,
	}
}
