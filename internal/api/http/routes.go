package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-forecast-state/internal/editor"
	"github.com/i474232898/weather-forecast-state/internal/session"
	"github.com/i474232898/weather-forecast-state/internal/weather"
)

var validate = validator.New()

const maxWait = 60 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *session.Manager) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		s, fetched := sessions.Create(c.UserContext())
		status := fiber.StatusCreated
		if !fetched {
			// the session exists, but its list is empty until a refresh succeeds
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(createdState{sessionState: stateOf(s), Fetched: fetched})
	})

	h := func(fn sessionHandler) fiber.Handler { return withSession(sessions, fn) }

	v1.Get("/sessions/:id", h(func(c *fiber.Ctx, s *session.Session) error {
		return c.JSON(stateOf(s))
	}))

	v1.Delete("/sessions/:id", h(func(c *fiber.Ctx, s *session.Session) error {
		if err := sessions.Close(s.ID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}))

	v1.Post("/sessions/:id/forecasts/refresh", h(func(c *fiber.Ctx, s *session.Session) error {
		if !s.View.Fetch(c.UserContext()) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, s.View.Message())
		}
		return c.JSON(stateOf(s))
	}))

	v1.Post("/sessions/:id/forecasts/default", h(func(c *fiber.Ctx, s *session.Session) error {
		if !s.View.AddRecord(c.UserContext()) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, s.View.Message())
		}
		return c.Status(fiber.StatusCreated).JSON(stateOf(s))
	}))

	v1.Post("/sessions/:id/editor", h(func(c *fiber.Ctx, s *session.Session) error {
		if _, err := s.Editor.Show(); err != nil {
			return editorError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(stateOf(s))
	}))

	v1.Get("/sessions/:id/editor/wait", h(func(c *fiber.Ctx, s *session.Session) error {
		handle, ok := s.Editor.Pending()
		if !ok {
			return c.JSON(stateOf(s))
		}

		timeout, err := parseWait(c.Query("timeout"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-handle.Done():
			return c.JSON(stateOf(s))
		case <-timer.C:
			return c.Status(fiber.StatusAccepted).JSON(stateOf(s))
		}
	}))

	v1.Post("/sessions/:id/editor/commit", h(func(c *fiber.Ctx, s *session.Session) error {
		var req draftRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		added, err := s.Editor.Commit(c.UserContext(), req.toDraft(time.Now()))
		if err != nil {
			return editorError(err)
		}
		if !added {
			return fiber.NewError(fiber.StatusUnprocessableEntity, s.View.Message())
		}
		return c.Status(fiber.StatusCreated).JSON(stateOf(s))
	}))

	v1.Post("/sessions/:id/editor/cancel", h(func(c *fiber.Ctx, s *session.Session) error {
		if err := s.Editor.Cancel(); err != nil {
			return editorError(err)
		}
		return c.JSON(stateOf(s))
	}))
}

type sessionHandler func(c *fiber.Ctx, s *session.Session) error

// withSession resolves the :id parameter before calling fn.
func withSession(sessions *session.Manager, fn sessionHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
		}
		s, err := sessions.Get(id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
		}
		return fn(c, s)
	}
}

func editorError(err error) error {
	switch {
	case errors.Is(err, editor.ErrAlreadyVisible), errors.Is(err, editor.ErrNotVisible),
		errors.Is(err, editor.ErrCommitInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// sessionState is the JSON view of a session.
type sessionState struct {
	ID            uuid.UUID          `json:"id"`
	Revision      uint64             `json:"revision"`
	EditorVisible bool               `json:"editorVisible"`
	Message       string             `json:"message,omitempty"`
	Forecasts     []weather.Forecast `json:"forecasts"`
}

// createdState adds the outcome of the initial fetch.
type createdState struct {
	sessionState
	Fetched bool `json:"fetched"`
}

func stateOf(s *session.Session) sessionState {
	return sessionState{
		ID:            s.ID,
		Revision:      s.Revision(),
		EditorVisible: s.Editor.Visible(),
		Message:       s.View.Message(),
		Forecasts:     s.View.Forecasts(),
	}
}

// draftRequest holds the body of an editor commit.
type draftRequest struct {
	Date         *time.Time `json:"date"`
	TemperatureC *int       `json:"temperatureC" validate:"required,gte=-100,lte=100"`
	Summary      *string    `json:"summary" validate:"omitempty,max=64"`
}

func (r draftRequest) toDraft(now time.Time) weather.Draft {
	d := weather.Draft{Date: now, TemperatureC: *r.TemperatureC, Summary: r.Summary}
	if r.Date != nil {
		d.Date = *r.Date
	}
	return d
}

// parseWait reads the long-poll timeout, defaulting to and capped at maxWait.
func parseWait(s string) (time.Duration, error) {
	if s == "" {
		return maxWait, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid timeout; use a positive duration such as 30s")
	}
	if d > maxWait {
		d = maxWait
	}
	return d, nil
}
