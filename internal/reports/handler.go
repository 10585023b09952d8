package reports

import (
	"net/http"
	"time"

	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/team", h.Team)
	rg.GET("/members/:id", h.Member)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/overall", h.Overall)
}

func (h *Handler) Team(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.svc.TeamReport(c.Request.Context(), id.UserID(), from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	writeReport(c, report, "team-report")
}

func (h *Handler) Member(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.svc.MemberReport(c.Request.Context(), memberID, from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	writeReport(c, report, "member-report")
}

func (h *Handler) Overall(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.svc.OverallReport(c.Request.Context(), from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	writeReport(c, report, "overall-report")
}

func parseRange(c *gin.Context) (from, to *time.Time, ok bool) {
	for _, q := range []struct {
		name string
		dest **time.Time
	}{
		{"from", &from},
		{"to", &to},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid "+q.name+" date", nil)
			return nil, nil, false
		}
		*q.dest = &parsed
	}
	return from, to, true
}

// writeReport serializes the report per the format query parameter. The
// structured object is the source of truth; text and CSV are renderings.
func writeReport(c *gin.Context, report Report, filename string) {
	switch c.Query("format") {
	case "text":
		c.String(http.StatusOK, RenderText(report))
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Status(http.StatusOK)
		if err := RenderCSV(c.Writer, report); err != nil {
			_ = c.Error(err)
		}
	default:
		httpkit.OK(c, report)
	}
}
