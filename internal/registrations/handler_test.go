package registrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdc-club/backend/internal/middleware"
	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/pkg/queue"
)

type fakeJobs struct {
	notifications []queue.StatusNotificationPayload
	exports       []queue.ExportPayload
	err           error
}

func (f *fakeJobs) EnqueueStatusNotification(ctx context.Context, p queue.StatusNotificationPayload) error {
	if f.err != nil {
		return f.err
	}
	f.notifications = append(f.notifications, p)
	return nil
}

func (f *fakeJobs) EnqueueExport(ctx context.Context, p queue.ExportPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.exports = append(f.exports, p)
	return "job-1", nil
}

type recordedEvent struct {
	event string
	reg   *models.Registration
}

type fakeEvents struct{ got []recordedEvent }

func (f *fakeEvents) Publish(event string, payload interface{}) {
	f.got = append(f.got, recordedEvent{event, payload.(*models.Registration)})
}

type failingStore struct{ Store }

func (failingStore) Create(ctx context.Context, reg *models.Registration) error {
	return errors.New("connection refused")
}

func (failingStore) List(ctx context.Context) ([]models.Registration, error) {
	return nil, errors.New("connection refused")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(store Store, jobs Jobs) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, jobs, nil)
	r := gin.New()
	r.POST("/api/registration", h.Create)
	r.GET("/api/registration", h.List)
	r.PATCH("/api/registration/:id", h.UpdateStatus)
	r.POST("/api/registration/export", func(c *gin.Context) {
		c.Set(middleware.ContextSubject, "admin")
		c.Next()
	}, h.Export)
	return r
}

func call(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

const validBody = `{"fullName":"Asha Rao","email":"asha@mvjce.edu.in","studentId":"1MJ21CS001",
"branch":"Computer Science","semester":5,"phoneNumber":"9876543210","skills":["Go"],
"areasOfInterest":["AI/ML"],"whyJoinSDC":"To build things"}`

func TestCreate(t *testing.T) {
	r := newTestRouter(NewMemoryStore(), nil)

	code, env := call(t, r, http.MethodPost, "/api/registration", validBody)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Equal(t, MsgCreated, env.Message)

	var reg models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, 5, reg.Semester)
	assert.Equal(t, models.StatusPending, reg.Status)

	code, env = call(t, r, http.MethodPost, "/api/registration", validBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, MsgCreateFailed, env.Message)
	assert.Equal(t, "email already registered", env.Error)
}

func TestCreate_SemesterAsString(t *testing.T) {
	r := newTestRouter(NewMemoryStore(), nil)
	body := bytes.Replace([]byte(validBody), []byte(`"semester":5`), []byte(`"semester":"8"`), 1)
	code, env := call(t, r, http.MethodPost, "/api/registration", string(body))
	require.Equal(t, http.StatusCreated, code)
	var reg models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, 8, reg.Semester)
}

func TestCreate_SemesterAsNumber(t *testing.T) {
	tests := map[string]struct {
		semester string
		wantCode int
	}{
		"integral float":   {semester: `3.0`, wantCode: http.StatusCreated},
		"exponent form":    {semester: `4e0`, wantCode: http.StatusCreated},
		"fractional float": {semester: `3.5`, wantCode: http.StatusBadRequest},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(NewMemoryStore(), nil)
			body := strings.Replace(validBody, `"semester":5`, `"semester":`+tt.semester, 1)
			code, env := call(t, r, http.MethodPost, "/api/registration", body)
			require.Equal(t, tt.wantCode, code)
			if tt.wantCode != http.StatusCreated {
				assert.False(t, env.Success)
				assert.Contains(t, env.Error, "Semester must be between 1 and 8")
				return
			}
			var reg models.Registration
			require.NoError(t, json.Unmarshal(env.Data, &reg))
			assert.Equal(t, int(tt.semester[0]-'0'), reg.Semester)
		})
	}
}

func TestCreate_BadInput(t *testing.T) {
	r := newTestRouter(NewMemoryStore(), nil)
	for name, body := range map[string]string{
		"malformed":  `{"fullName":`,
		"bad phone":  `{"fullName":"A","email":"a@b.co","studentId":"1","branch":"Civil","semester":1,"phoneNumber":"12345","whyJoinSDC":"x"}`,
		"semester 0": `{"fullName":"A","email":"a@b.co","studentId":"1","branch":"Civil","semester":0,"phoneNumber":"1234567890","whyJoinSDC":"x"}`,
		"bad branch": `{"fullName":"A","email":"a@b.co","studentId":"1","branch":"Arts","semester":1,"phoneNumber":"1234567890","whyJoinSDC":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			code, env := call(t, r, http.MethodPost, "/api/registration", body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			assert.Equal(t, MsgCreateFailed, env.Message)
			assert.NotEmpty(t, env.Error)
		})
	}
	_, env := call(t, r, http.MethodGet, "/api/registration", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCreate_StoreFailure(t *testing.T) {
	r := newTestRouter(failingStore{}, nil)
	code, env := call(t, r, http.MethodPost, "/api/registration", validBody)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, MsgCreateFailed, env.Message)
}

func TestList(t *testing.T) {
	r := newTestRouter(NewMemoryStore(), nil)
	code, env := call(t, r, http.MethodGet, "/api/registration", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))

	call(t, r, http.MethodPost, "/api/registration", validBody)
	_, env = call(t, r, http.MethodGet, "/api/registration", "")
	var list []models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = call(t, newTestRouter(failingStore{}, nil), http.MethodGet, "/api/registration", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, MsgListFailed, env.Message)
}

func TestUpdateStatus(t *testing.T) {
	jobs := &fakeJobs{}
	r := newTestRouter(NewMemoryStore(), jobs)
	_, env := call(t, r, http.MethodPost, "/api/registration", validBody)
	var created models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env := call(t, r, http.MethodPatch, "/api/registration/"+created.ID, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, code)
	var updated models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, created.Email, updated.Email)

	require.Len(t, jobs.notifications, 1)
	assert.Equal(t, queue.StatusNotificationPayload{
		RegistrationID: created.ID,
		FullName:       "Asha Rao",
		RecipientEmail: "asha@mvjce.edu.in",
		Status:         "approved",
	}, jobs.notifications[0])

	for name, tc := range map[string]struct{ id, body string }{
		"invalid status": {created.ID, `{"status":"maybe"}`},
		"unknown id":     {"does-not-exist", `{"status":"rejected"}`},
		"missing body":   {created.ID, ``},
		"missing status": {created.ID, `{}`},
	} {
		t.Run(name, func(t *testing.T) {
			code, env := call(t, r, http.MethodPatch, "/api/registration/"+tc.id, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, MsgUpdateFailed, env.Message)
		})
	}
	assert.Len(t, jobs.notifications, 1)
}

func TestUpdateStatus_EnqueueFailureDoesNotFail(t *testing.T) {
	store := NewMemoryStore()
	reg := mustReg(t, nil)
	require.NoError(t, store.Create(context.Background(), reg))

	r := newTestRouter(store, &fakeJobs{err: errors.New("redis down")})
	code, _ := call(t, r, http.MethodPatch, "/api/registration/"+reg.ID, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestExport(t *testing.T) {
	code, _ := call(t, newTestRouter(NewMemoryStore(), nil), http.MethodPost, "/api/registration/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	jobs := &fakeJobs{}
	code, env := call(t, newTestRouter(NewMemoryStore(), jobs), http.MethodPost, "/api/registration/export", "")
	require.Equal(t, http.StatusAccepted, code)
	assert.JSONEq(t, `{"jobId":"job-1"}`, string(env.Data))
	require.Len(t, jobs.exports, 1)
	assert.Equal(t, "admin", jobs.exports[0].RequestedBy)
}

func TestEventsPublished(t *testing.T) {
	gin.SetMode(gin.TestMode)
	events := &fakeEvents{}
	h := NewHandler(NewMemoryStore(), nil, nil)
	h.SetEvents(events)
	r := gin.New()
	r.POST("/api/registration", h.Create)
	r.PATCH("/api/registration/:id", h.UpdateStatus)

	_, env := call(t, r, http.MethodPost, "/api/registration", validBody)
	var created models.Registration
	require.NoError(t, json.Unmarshal(env.Data, &created))
	call(t, r, http.MethodPost, "/api/registration", validBody)
	call(t, r, http.MethodPatch, "/api/registration/"+created.ID, `{"status":"approved"}`)

	require.Len(t, events.got, 2)
	assert.Equal(t, EventCreated, events.got[0].event)
	assert.Equal(t, created.ID, events.got[0].reg.ID)
	assert.Equal(t, EventStatusChanged, events.got[1].event)
	assert.Equal(t, models.StatusApproved, events.got[1].reg.Status)
}
