package handlers

import (
	"net/http"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is implemented by *background.JobScheduler
type JobRunner interface {
	Status() []background.JobStatus
	RunNow(name string) error
}

type JobHandlers struct {
	runner JobRunner
}

func NewJobHandlers(runner JobRunner) *JobHandlers {
	return &JobHandlers{runner: runner}
}

func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.runner.Status())
}

// RunJob triggers a maintenance job immediately
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	for _, s := range h.runner.Status() {
		if s.Name != name {
			continue
		}
		if err := h.runner.RunNow(name); err != nil {
			return common.SendServerError(c, "Failed to start job")
		}
		return c.JSON(http.StatusAccepted, map[string]string{"status": "started", "job": name})
	}
	return common.SendNotFoundError(c, "Job")
}
