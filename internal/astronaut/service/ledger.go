package service

import (
	"fmt"
	"slices"
	"time"

	"stargate/internal/astronaut/models"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/sentinel"
)

// endDateChange sets the end date of an existing duty.
type endDateChange struct {
	DutyID  int64
	EndDate time.Time
}

// dutyPlan is the full set of writes for one duty insertion.
// EndDates are applied before Duty is inserted.
type dutyPlan struct {
	Duty      *models.AstronautDuty
	Detail    *models.AstronautDetail // ID zero means insert
	EndDates  []endDateChange
	Backdated bool
}

// planDuty computes the ledger and summary writes for inserting cmd into a
// person's history. It never mutates its inputs.
//
// A later duty makes the insert a backdate: the new duty ends the day before it.
// The open duty that started before the new date is closed, and a closed duty
// spanning the new date is truncated. More than one candidate for either is a
// corrupted ledger and fails the plan.
func planDuty(cmd models.CreateDutyCommand, personID int64, duties []*models.AstronautDuty, detail *models.AstronautDetail) (*dutyPlan, error) {
	date := cmd.DutyStartDate
	ordered := slices.Clone(duties)
	slices.SortFunc(ordered, func(a, b *models.AstronautDuty) int {
		return a.DutyStartDate.Compare(b.DutyStartDate)
	})

	plan := &dutyPlan{
		Duty: &models.AstronautDuty{
			PersonID:      personID,
			Rank:          cmd.Rank,
			DutyTitle:     cmd.DutyTitle,
			DutyStartDate: date,
		},
	}

	for _, d := range ordered {
		if d.DutyStartDate.After(date) {
			end := models.DayBefore(d.DutyStartDate)
			plan.Duty.DutyEndDate = &end
			plan.Backdated = true
			break
		}
	}

	plan.Detail = planDetail(cmd, personID, detail, plan.Backdated)

	var open, spanning []*models.AstronautDuty
	for _, d := range ordered {
		if !d.DutyStartDate.Before(date) {
			continue
		}
		if d.IsOpen() {
			open = append(open, d)
		} else if !d.DutyEndDate.Before(date) {
			spanning = append(spanning, d)
		}
	}
	if len(open) > 1 {
		return nil, inconsistent("person %d has %d open duties before %s", personID, len(open), models.FormatDay(date))
	}
	if len(spanning) > 1 {
		return nil, inconsistent("person %d has %d duties spanning %s", personID, len(spanning), models.FormatDay(date))
	}

	closeOn := models.DayBefore(date)
	for _, d := range append(open, spanning...) {
		plan.EndDates = append(plan.EndDates, endDateChange{DutyID: d.ID, EndDate: closeOn})
	}
	return plan, nil
}

// planDetail derives the career summary after inserting cmd.
func planDetail(cmd models.CreateDutyCommand, personID int64, detail *models.AstronautDetail, backdated bool) *models.AstronautDetail {
	date := cmd.DutyStartDate
	if detail == nil {
		return &models.AstronautDetail{PersonID: personID, CareerStartDate: date}
	}

	next := detail.Clone()
	if date.Before(next.CareerStartDate) {
		next.CareerStartDate = date
	}
	if next.CareerEndDate != nil && date.After(*next.CareerEndDate) {
		next.CareerEndDate = nil
	}
	if cmd.IsRetirement() && !backdated {
		end := models.DayBefore(date)
		next.CareerEndDate = &end
	}
	return next
}

func inconsistent(format string, args ...any) error {
	return dErrors.Wrap(fmt.Errorf("%w: "+format, append([]any{sentinel.ErrInconsistent}, args...)...),
		dErrors.CodeInvariantViolation, msgLedgerInconsistent)
}
