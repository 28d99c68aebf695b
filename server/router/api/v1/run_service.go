package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lifepilot/lifepilot/ai/agents"
	"github.com/lifepilot/lifepilot/ai/agents/orchestrator"
)

// CreateRunRequest starts a new orchestrated run. Hints are optional and
// win over values extracted from the query.
type CreateRunRequest struct {
	Query string       `json:"query"`
	Hints agents.Hints `json:"hints"`
}

// AnswerRunRequest resumes a suspended run with the user's answer.
type AnswerRunRequest struct {
	Answer string `json:"answer"`
}

// RunResponse is a run result with markdown fields rendered to HTML for the
// presentation layer.
type RunResponse struct {
	*orchestrator.RunResult
	MealHTML   string `json:"meal_html,omitempty"`
	TravelHTML string `json:"travel_html,omitempty"`
}

func (s *APIV1Service) createRun(c echo.Context) error {
	req := &CreateRunRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	res, err := s.Orchestrator.Run(c.Request().Context(), req.Query, req.Hints)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to run request").SetInternal(err)
	}
	return c.JSON(http.StatusOK, s.response(res))
}

func (s *APIV1Service) answerRun(c echo.Context) error {
	req := &AnswerRunRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if strings.TrimSpace(req.Answer) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "answer is required")
	}

	res, err := s.Orchestrator.Resume(c.Request().Context(), c.Param("id"), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrRunNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		case errors.Is(err, orchestrator.ErrNotAwaiting):
			return echo.NewHTTPError(http.StatusConflict, "run is not awaiting clarification")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resume run").SetInternal(err)
	}
	return c.JSON(http.StatusOK, s.response(res))
}

func (s *APIV1Service) getRun(c echo.Context) error {
	res, err := s.Orchestrator.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrRunNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load run").SetInternal(err)
	}
	return c.JSON(http.StatusOK, s.response(res))
}

// response renders the markdown fields to HTML. Rendering failures are
// logged and leave the HTML fields empty; the raw markdown is still there.
func (s *APIV1Service) response(res *orchestrator.RunResult) *RunResponse {
	out := &RunResponse{RunResult: res}
	if res.Meal != nil {
		html, err := s.Markdown.ToHTML(res.Meal.Markdown)
		if err != nil {
			slog.Warn("render meal markdown failed", "run_id", res.ID, "error", err)
		}
		out.MealHTML = html
	}
	if res.Travel != nil {
		html, err := s.Markdown.ToHTML(res.Travel.Markdown)
		if err != nil {
			slog.Warn("render travel markdown failed", "run_id", res.ID, "error", err)
		}
		out.TravelHTML = html
	}
	return out
}
