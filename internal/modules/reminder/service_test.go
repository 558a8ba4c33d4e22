package reminder

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/dentalcare/internal/database"
	"github.com/mx-space/dentalcare/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return NewService(db, func() time.Time { return now })
}

func ptr[T any](v T) *T { return &v }

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name string
		dto  CreateReminderDTO
		want error
	}{
		{"missing title", CreateReminderDTO{Type: "appointment", Date: "2024-06-20"}, errMissingFields},
		{"missing date", CreateReminderDTO{Type: "appointment", Title: "x"}, errMissingFields},
		{"bad type", CreateReminderDTO{Type: "surgery", Title: "x", Date: "2024-06-20"}, errInvalidReminderType},
		{"bad date", CreateReminderDTO{Type: "appointment", Title: "x", Date: "20/06/2024"}, errInvalidDate},
		{"bad time", CreateReminderDTO{Type: "appointment", Title: "x", Date: "2024-06-20", Time: ptr("25:99")}, errInvalidTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Create("u1", &tc.dto)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateMedicationExpandsSeries(t *testing.T) {
	svc := newTestService(t)

	first, count, err := svc.Create("u1", &CreateReminderDTO{
		Type:          "medication",
		Title:         "Antibiotic",
		Date:          "2024-06-15",
		Time:          ptr("9:05"),
		FrequencyDays: ptr(2),
		PillCount:     ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, "2024-06-15", first.Date)
	require.NotNil(t, first.Time)
	assert.Equal(t, "09:05", *first.Time)

	list, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-06-15", list[0].Date)
	assert.Equal(t, "2024-06-17", list[1].Date)
	assert.Equal(t, "2024-06-19", list[2].Date)
}

func TestCreateSingleWhenNotSeries(t *testing.T) {
	svc := newTestService(t)

	_, count, err := svc.Create("u1", &CreateReminderDTO{
		Type: "appointment", Title: "Dentist", Date: "2024-06-20",
		FrequencyDays: ptr(2), PillCount: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, count, err = svc.Create("u1", &CreateReminderDTO{
		Type: "medication", Title: "Once", Date: "2024-06-20", PillCount: ptr(1), FrequencyDays: ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)
	r, _, err := svc.Create("u1", &CreateReminderDTO{
		Type: "appointment", Title: "Dentist", Description: "bring x-rays",
		Date: "2024-06-20", Time: ptr("14:30"),
	})
	require.NoError(t, err)

	var dto UpdateReminderDTO
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","time":null,"completed":true}`), &dto))
	got, err := svc.Update("u1", r.ID, &dto)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, "bring x-rays", got.Description)
	assert.Nil(t, got.Time)
	assert.True(t, got.Completed)

	dto = UpdateReminderDTO{}
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"date":"2024-07-01","time":"8:00"}`), &dto))
	got, err = svc.Update("u1", r.ID, &dto)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Equal(t, "2024-07-01", got.Date)
	assert.Equal(t, "08:00", *got.Time)

	dto = UpdateReminderDTO{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"checkup"}`), &dto))
	_, err = svc.Update("u1", r.ID, &dto)
	assert.ErrorIs(t, err, errInvalidReminderType)

	missing, err := svc.Update("u2", r.ID, &UpdateReminderDTO{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpcomingAndDelete(t *testing.T) {
	svc := newTestService(t)
	for _, d := range []string{"2024-06-14", "2024-06-15", "2024-06-22", "2024-06-23"} {
		_, _, err := svc.Create("u1", &CreateReminderDTO{Type: "appointment", Title: d, Date: d})
		require.NoError(t, err)
	}
	done, _, err := svc.Create("u1", &CreateReminderDTO{Type: "appointment", Title: "done", Date: "2024-06-16"})
	require.NoError(t, err)
	dto := UpdateReminderDTO{Completed: ptr(true)}
	_, err = svc.Update("u1", done.ID, &dto)
	require.NoError(t, err)

	up, err := svc.Upcoming("u1", 7)
	require.NoError(t, err)
	require.Len(t, up, 2)
	assert.Equal(t, "2024-06-15", up[0].Date)
	assert.Equal(t, "2024-06-22", up[1].Date)

	ok, err := svc.Delete("u2", done.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.Delete("u1", done.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := svc.DeleteAll("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	list, err := svc.List("u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	r := gin.New()
	fakeAuth := func(c *gin.Context) { c.Set(middleware.ContextKeyUserID, "u1") }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), fakeAuth)

	call := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPost, "/api/v1/reminders", `{"type":"medication","title":"Rinse","date":"2024-06-15","frequency_days":1,"pill_count":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Message  string           `json:"message"`
		Count    int              `json:"count"`
		Reminder reminderResponse `json:"reminder"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Reminders created successfully", created.Message)
	assert.Equal(t, 2, created.Count)

	w = call(http.MethodPost, "/api/v1/reminders", `{"type":"appointment","title":"x","date":"2024-06-15","time":"noon"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":0,"code":400,"message":"Invalid time format. Use HH:MM"}`, w.Body.String())

	w = call(http.MethodGet, "/api/v1/reminders/upcoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []reminderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	w = call(http.MethodPut, "/api/v1/reminders/"+created.Reminder.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reminder updated successfully")

	w = call(http.MethodGet, "/api/v1/reminders/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(http.MethodDelete, "/api/v1/reminders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"2 reminders deleted successfully","count":2}`, w.Body.String())
}
