package analytics

import (
	"context"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/pkg/response"
)

// Lister lists every registration.
type Lister interface {
	List(ctx context.Context) ([]models.Registration, error)
}

// Handler handles GET /api/registration/stats.
type Handler struct {
	store  Lister
	logger *zap.Logger
}

// NewHandler creates an analytics handler.
func NewHandler(store Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Count is one bucket of a breakdown.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SummaryResponse is the JSON shape of the review committee summary.
type SummaryResponse struct {
	TotalRegistrations int      `json:"totalRegistrations"`
	Pending            int      `json:"pending"`
	Approved           int      `json:"approved"`
	Rejected           int      `json:"rejected"`
	ApprovalRate       *float64 `json:"approvalRate,omitempty"` // approved / reviewed, omitted until something is reviewed
	ByBranch           []Count  `json:"byBranch"`
	BySemester         []Count  `json:"bySemester"`
	TopSkills          []Count  `json:"topSkills"`
	TopInterests       []Count  `json:"topInterests"`
}

// TopN bounds the skills and interests lists.
const TopN = 10

// Summarize aggregates registrations into a summary.
func Summarize(regs []models.Registration) SummaryResponse {
	out := SummaryResponse{TotalRegistrations: len(regs)}
	branches := map[string]int{}
	semesters := map[string]int{}
	skills := map[string]int{}
	interests := map[string]int{}
	for _, r := range regs {
		switch r.Status {
		case models.StatusApproved:
			out.Approved++
		case models.StatusRejected:
			out.Rejected++
		default:
			out.Pending++
		}
		branches[r.Branch]++
		semesters[semesterName(r.Semester)]++
		for _, s := range r.Skills {
			skills[s]++
		}
		for _, i := range r.AreasOfInterest {
			interests[i]++
		}
	}
	if reviewed := out.Approved + out.Rejected; reviewed > 0 {
		rate := float64(out.Approved) / float64(reviewed)
		out.ApprovalRate = &rate
	}
	out.ByBranch = ranked(branches, 0)
	out.BySemester = byName(semesters)
	out.TopSkills = ranked(skills, TopN)
	out.TopInterests = ranked(interests, TopN)
	return out
}

// Summary handles GET /api/registration/stats. Mount behind the admin guard.
func (h *Handler) Summary(c *gin.Context) {
	regs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("load registrations for stats failed", zap.Error(err))
		response.Internal(c, "Error fetching registration stats", "failed to load registrations")
		return
	}
	response.OK(c, Summarize(regs))
}

func semesterName(s int) string {
	return strconv.Itoa(s)
}

// ranked orders buckets by count descending, then name; limit 0 keeps all.
func ranked(m map[string]int, limit int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func byName(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
