package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"stargate/internal/astronaut/models"
	"stargate/internal/astronaut/service"
	"stargate/pkg/platform/httputil"
	"stargate/pkg/requestcontext"
)

const msgSuccessful = "Successful"

// Service defines the astronaut operations exposed over HTTP.
type Service interface {
	CreatePerson(ctx context.Context, name string) (*models.Person, error)
	GetPeopleOverview(ctx context.Context) ([]*models.PersonAstronaut, error)
	GetPersonByName(ctx context.Context, name string) (*models.PersonAstronaut, error)
	GetDutyHistory(ctx context.Context, name string) (*models.PersonAstronaut, []*models.AstronautDuty, error)
	CreateDuty(ctx context.Context, cmd models.CreateDutyCommand) (*models.AstronautDuty, error)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires the person and duty endpoints to the astronaut service.
type Handler struct {
	service Service
	pinger  Pinger
	logger  *slog.Logger
}

// New constructs the handler. A nil pinger makes /healthz always report ok.
func New(service Service, pinger Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, pinger: pinger, logger: logger}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)

	r.Route("/Person", func(r chi.Router) {
		r.Get("/", h.HandleGetPeople)
		r.Post("/", h.HandleCreatePerson)
		r.Get("/{name}", h.HandleGetPerson)
	})
	r.Route("/AstronautDuty", func(r chi.Router) {
		r.Post("/", h.HandleCreateDuty)
		r.Get("/{name}", h.HandleGetDuties)
	})
}

// HandleCreatePerson handles POST /Person.
func (h *Handler) HandleCreatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	person, err := h.service.CreatePerson(ctx, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IDResponse{
		Response: httputil.OK(service.PersonCreatedMessage(person)),
		ID:       person.ID,
	})
}

// HandleGetPeople handles GET /Person.
func (h *Handler) HandleGetPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.GetPeopleOverview(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PeopleResponse{
		Response: httputil.OK(msgSuccessful),
		People:   FromPeople(people),
	})
}

// HandleGetPerson handles GET /Person/{name}.
func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.service.GetPersonByName(r.Context(), nameParam(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PersonResponse{
		Response: httputil.OK(msgSuccessful),
		Person:   FromPersonAstronaut(person),
	})
}

// HandleGetDuties handles GET /AstronautDuty/{name}.
func (h *Handler) HandleGetDuties(w http.ResponseWriter, r *http.Request) {
	person, duties, err := h.service.GetDutyHistory(r.Context(), nameParam(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DutiesResponse{
		Response:        httputil.OK(msgSuccessful),
		Person:          FromPersonAstronaut(person),
		AstronautDuties: FromDuties(duties),
	})
}

// HandleCreateDuty handles POST /AstronautDuty.
func (h *Handler) HandleCreateDuty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateDutyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cmd := req.Command()
	duty, err := h.service.CreateDuty(ctx, cmd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cmd.Normalize()
	h.logger.DebugContext(ctx, "astronaut duty request served",
		"request_id", requestID,
		"duty_id", duty.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, IDResponse{
		Response: httputil.OK(service.DutyCreatedMessage(cmd)),
		ID:       duty.ID,
	})
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed",
				"request_id", requestcontext.RequestID(r.Context()),
				"error", err,
			)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
