package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Counters is the slice of the metrics collector the handlers feed.
type Counters interface {
	ObserveSubmission(loanType string)
	ObserveDecision(status string)
}

type noCounters struct{}

func (noCounters) ObserveSubmission(string) {}
func (noCounters) ObserveDecision(string)   {}

func countersOrNoop(m Counters) Counters {
	if m == nil {
		return noCounters{}
	}
	return m
}
