package service

import (
	"context"
	"errors"
	"fmt"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/store"
	dErrors "stargate/pkg/domain-errors"
	"stargate/pkg/platform/audit"
	"stargate/pkg/platform/sentinel"
	"stargate/pkg/platform/strings"
	"stargate/pkg/requestcontext"
)

const (
	msgPersonNameRequired = "Bad Request. Name is required"
	msgPersonNameTaken    = "Bad Request. Name already exists in system"
)

// PersonCreatedMessage is the confirmation returned for a new person.
func PersonCreatedMessage(p *models.Person) string {
	return fmt.Sprintf("Person with the name of %s created successfully", p.Name)
}

// CreatePerson registers a person under a normalized, case-insensitively unique name.
func (s *Service) CreatePerson(ctx context.Context, name string) (*models.Person, error) {
	name = strings.NormalizeNameOrTitle(name)
	if name == "" {
		err := dErrors.New(dErrors.CodeBadRequest, msgPersonNameRequired)
		s.logPersonFailure(ctx, name, err)
		return nil, err
	}

	person := models.NewPerson(name, requestcontext.Now(ctx))
	err := s.store.RunInTx(ctx, func(ctx context.Context, st store.Store) error {
		_, err := st.FindPersonByName(ctx, name)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, msgPersonNameTaken)
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up person")
		}
		if err := st.CreatePerson(ctx, person); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, msgPersonNameTaken)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
		}
		return nil
	})
	if err != nil {
		err = translateTxError(err)
		s.logPersonFailure(ctx, name, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "person created",
		"request_id", requestcontext.RequestID(ctx),
		"person_id", person.ID,
		"name", person.Name,
	)
	s.emit(ctx, audit.Info("Successfully created person", "Successfully created person with name "+person.Name))
	if s.metrics != nil {
		s.metrics.IncrementPeopleCreated()
	}
	return person, nil
}

func (s *Service) logPersonFailure(ctx context.Context, name string, err error) {
	if dErrors.IsClientError(err) {
		s.logger.WarnContext(ctx, "person rejected",
			"request_id", requestcontext.RequestID(ctx),
			"name", name,
			"error", err.Error(),
		)
	} else {
		s.logger.ErrorContext(ctx, "failed to create person",
			"request_id", requestcontext.RequestID(ctx),
			"name", name,
			"error", err.Error(),
		)
	}
	s.emit(ctx, audit.Error("Error in CreatePerson", dErrors.Message(err), err))
}
