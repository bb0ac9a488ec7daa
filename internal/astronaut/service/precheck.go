package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/store"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/requestcontext"
)

// Rejection messages returned to callers.
const (
	msgNameRequired          = "Person name cannot be empty"
	msgRankRequired          = "Rank cannot be empty"
	msgTitleRequired         = "Duty title cannot be empty"
	msgStartDateRequired     = "Duty start date is required"
	msgFutureStartDate       = "Duty start date cannot be in the future"
	msgDuplicateStartDate    = "Cannot start two duties on the same date for the same person."
	msgRedundantDuty         = "Cannot create a duty with the same rank and title within the bounds of an existing duty."
	msgRetireWithoutHistory  = "Cannot retire a person without prior duty history."
	msgRetireOnCareerStart   = "Cannot retire on the same day the career started."
	msgPersonNotFoundPattern = "Cannot find person with name '%s'"
	msgLedgerInconsistent    = "duty ledger is inconsistent"
)

// ValidateCreateDuty runs the lock-free pre-check for a normalized command.
// The same person rules run again inside the write transaction.
func (s *Service) ValidateCreateDuty(ctx context.Context, cmd models.CreateDutyCommand) error {
	if err := validateCommandFields(cmd, requestcontext.Today(ctx)); err != nil {
		return err
	}
	ledger, err := loadLedger(ctx, s.store, cmd.Name)
	if err != nil {
		return err
	}
	return checkDutyRules(cmd, ledger.duties, ledger.detail)
}

// validateCommandFields checks required fields and future dating.
func validateCommandFields(cmd models.CreateDutyCommand, today time.Time) error {
	switch {
	case cmd.Name == "":
		return dErrors.New(dErrors.CodeValidation, msgNameRequired)
	case cmd.Rank == "":
		return dErrors.New(dErrors.CodeValidation, msgRankRequired)
	case cmd.DutyTitle == "":
		return dErrors.New(dErrors.CodeValidation, msgTitleRequired)
	case cmd.DutyStartDate.IsZero():
		return dErrors.New(dErrors.CodeValidation, msgStartDateRequired)
	case cmd.DutyStartDate.After(today):
		return dErrors.New(dErrors.CodeValidation, msgFutureStartDate)
	}
	return nil
}

// checkDutyRules applies the rules that depend on the person's existing ledger.
// duties may be in any order.
func checkDutyRules(cmd models.CreateDutyCommand, duties []*models.AstronautDuty, detail *models.AstronautDetail) error {
	date := cmd.DutyStartDate
	for _, d := range duties {
		if d.DutyStartDate.Equal(date) {
			return dErrors.New(dErrors.CodeConflict, msgDuplicateStartDate)
		}
	}
	for _, d := range duties {
		if d.Covers(date) && d.SameAssignment(cmd.Rank, cmd.DutyTitle) {
			return dErrors.New(dErrors.CodeValidation, msgRedundantDuty)
		}
	}
	if !cmd.IsRetirement() {
		return nil
	}
	hasPrior := false
	for _, d := range duties {
		if d.DutyStartDate.Before(date) {
			hasPrior = true
			break
		}
	}
	if !hasPrior {
		return dErrors.New(dErrors.CodeValidation, msgRetireWithoutHistory)
	}
	// Unreachable while the summary agrees with the ledger: the career start is
	// the earliest duty start, which the duplicate start rule already rejects.
	if detail != nil && detail.CareerStartDate.Equal(date) {
		return dErrors.New(dErrors.CodeValidation, msgRetireOnCareerStart)
	}
	return nil
}

// ledger is one person's duty history and career summary as loaded from a store.
type ledger struct {
	person *models.Person
	detail *models.AstronautDetail // nil before the first duty
	duties []*models.AstronautDuty // ascending by start date
}

func loadLedger(ctx context.Context, st store.Store, name string) (*ledger, error) {
	person, err := st.FindPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf(msgPersonNotFoundPattern, name))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return loadLedgerFor(ctx, st, person)
}

func loadLedgerFor(ctx context.Context, st store.Store, person *models.Person) (*ledger, error) {
	duties, err := st.ListDutiesByPerson(ctx, person.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load duties")
	}
	detail, err := st.FindDetail(ctx, person.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load astronaut detail")
	}
	return &ledger{person: person, detail: detail, duties: duties}, nil
}
