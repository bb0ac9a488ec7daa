package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/store"
	"stargate/internal/platform/database"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/audit"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/platform/strings"
	"stargate/pkg/requestcontext"
)

// CreateDuty appends a duty to a person's ledger and updates their career summary.
//
// The command is pre-checked without locks, then re-checked and applied inside one
// transaction while holding the person's lock. Any failure leaves the ledger untouched.
func (s *Service) CreateDuty(ctx context.Context, cmd models.CreateDutyCommand) (*models.AstronautDuty, error) {
	start := time.Now()
	cmd.Normalize()

	ctx, span := s.tracer.Start(ctx, "astronaut.CreateDuty")
	defer span.End()
	span.SetAttributes(
		attribute.String("astronaut.name", cmd.Name),
		attribute.String("astronaut.duty_title", cmd.DutyTitle),
		attribute.String("astronaut.duty_start_date", models.FormatDay(cmd.DutyStartDate)),
	)

	duty, err := s.createDuty(ctx, cmd)
	if s.metrics != nil {
		s.metrics.ObserveCreateDuty(start)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		s.logDutyFailure(ctx, cmd, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "astronaut duty created",
		"request_id", requestcontext.RequestID(ctx),
		"duty_id", duty.ID,
		"person_id", duty.PersonID,
		"name", cmd.Name,
		"rank", cmd.Rank,
		"duty_title", cmd.DutyTitle,
		"duty_start_date", models.FormatDay(cmd.DutyStartDate),
	)
	s.emit(ctx, audit.Info("Successfully created astronaut duty", DutyCreatedMessage(cmd)))
	if s.metrics != nil {
		s.metrics.IncrementDutiesCreated()
	}
	return duty, nil
}

// DutyCreatedMessage is the human-readable confirmation for a created duty.
func DutyCreatedMessage(cmd models.CreateDutyCommand) string {
	return fmt.Sprintf("Successfully created astronaut duty for %s: %s (Rank: %s) starting %s",
		cmd.Name, cmd.DutyTitle, cmd.Rank, models.FormatDay(cmd.DutyStartDate))
}

func (s *Service) createDuty(ctx context.Context, cmd models.CreateDutyCommand) (*models.AstronautDuty, error) {
	if err := s.ValidateCreateDuty(ctx, cmd); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, strings.FoldKey(cmd.Name))
	if err != nil {
		return nil, translateTxError(err)
	}
	defer unlock()

	var created *models.AstronautDuty
	err = s.store.RunInTx(ctx, func(ctx context.Context, st store.Store) error {
		l, err := loadLedger(ctx, st, cmd.Name)
		if err != nil {
			return err
		}
		if err := checkDutyRules(cmd, l.duties, l.detail); err != nil {
			return err
		}
		plan, err := planDuty(cmd, l.person.ID, l.duties, l.detail)
		if err != nil {
			return err
		}
		if err := applyPlan(ctx, st, plan); err != nil {
			return err
		}
		created = plan.Duty
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}
	return created, nil
}

// applyPlan writes end dates first so the one-open-duty constraint holds at every step.
func applyPlan(ctx context.Context, st store.Store, plan *dutyPlan) error {
	for _, change := range plan.EndDates {
		end := change.EndDate
		if err := st.SetDutyEndDate(ctx, change.DutyID, &end); err != nil {
			return fmt.Errorf("close duty %d: %w", change.DutyID, err)
		}
	}
	if err := st.SaveDetail(ctx, plan.Detail); err != nil {
		return fmt.Errorf("save astronaut detail: %w", err)
	}
	if err := st.CreateDuty(ctx, plan.Duty); err != nil {
		return fmt.Errorf("insert duty: %w", err)
	}
	return nil
}

// translateTxError keeps coded errors and classifies storage failures.
func translateTxError(err error) error {
	var coded *dErrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "duty creation timed out")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, msgDuplicateStartDate)
	case errors.Is(err, sentinel.ErrInconsistent):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, msgLedgerInconsistent)
	case database.IsSerializationFailure(err):
		return dErrors.Wrap(err, dErrors.CodeInternal, "concurrent duty update, please retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create astronaut duty")
	}
}

func (s *Service) logDutyFailure(ctx context.Context, cmd models.CreateDutyCommand, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"name", cmd.Name,
		"rank", cmd.Rank,
		"duty_title", cmd.DutyTitle,
		"duty_start_date", models.FormatDay(cmd.DutyStartDate),
		"error", err.Error(),
	}
	if dErrors.IsClientError(err) {
		s.logger.WarnContext(ctx, "astronaut duty rejected", attrs...)
	} else {
		s.logger.ErrorContext(ctx, "failed to create astronaut duty", attrs...)
	}

	details := fmt.Sprintf("Failed to create astronaut duty for %s: %s (Rank: %s) starting %s",
		cmd.Name, cmd.DutyTitle, cmd.Rank, models.FormatDay(cmd.DutyStartDate))
	s.emit(ctx, audit.Error("Error when creating astronaut duty", details, err))
	if s.metrics != nil {
		s.metrics.IncrementDutyRejected(string(dErrors.CodeOf(err)))
	}
}

// emit writes an activity entry. Activity logging never fails the operation.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.activity == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record activity",
			"request_id", event.RequestID,
			"message", event.Message,
			"error", err.Error(),
		)
	}
}
