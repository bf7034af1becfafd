package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdc-club/backend/internal/models"
)

func reg(branch string, sem int, status models.Status, skills ...string) models.Registration {
	return models.Registration{Branch: branch, Semester: sem, Status: status, Skills: skills, AreasOfInterest: []string{"Web Development"}}
}

func TestSummarize(t *testing.T) {
	out := Summarize([]models.Registration{
		reg("Computer Science", 5, models.StatusApproved, "Go", "React"),
		reg("Computer Science", 3, models.StatusPending, "Go"),
		reg("Civil", 5, models.StatusRejected, "Python"),
		reg("Mechanical", 1, models.StatusApproved),
	})

	assert.Equal(t, 4, out.TotalRegistrations)
	assert.Equal(t, 1, out.Pending)
	assert.Equal(t, 2, out.Approved)
	assert.Equal(t, 1, out.Rejected)
	require.NotNil(t, out.ApprovalRate)
	assert.InDelta(t, 2.0/3.0, *out.ApprovalRate, 1e-9)

	assert.Equal(t, Count{"Computer Science", 2}, out.ByBranch[0])
	assert.Equal(t, []Count{{"1", 1}, {"3", 1}, {"5", 2}}, out.BySemester)
	assert.Equal(t, Count{"Go", 2}, out.TopSkills[0])
	assert.Equal(t, []Count{{"Web Development", 4}}, out.TopInterests)
}

func TestSummarize_Empty(t *testing.T) {
	out := Summarize(nil)
	assert.Zero(t, out.TotalRegistrations)
	assert.Nil(t, out.ApprovalRate)
	assert.NotNil(t, out.ByBranch)
	assert.Empty(t, out.TopSkills)
}

func TestRanked_Limit(t *testing.T) {
	m := map[string]int{}
	for i := 0; i < TopN+5; i++ {
		m[string(rune('a'+i))] = i
	}
	got := ranked(m, TopN)
	assert.Len(t, got, TopN)
	assert.Equal(t, TopN+4, got[0].Count)
}

type fakeLister struct {
	regs []models.Registration
	err  error
}

func (f fakeLister) List(ctx context.Context) ([]models.Registration, error) { return f.regs, f.err }

func TestSummaryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for name, tc := range map[string]struct {
		lister Lister
		code   int
	}{
		"ok":    {fakeLister{regs: []models.Registration{reg("Civil", 2, models.StatusPending)}}, http.StatusOK},
		"error": {fakeLister{err: errors.New("db down")}, http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/stats", NewHandler(tc.lister, nil).Summary)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				var body struct {
					Data SummaryResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, 1, body.Data.TotalRegistrations)
			}
		})
	}
}
