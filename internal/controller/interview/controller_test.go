package interview

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"CampusPlacement-backend/internal/auth"
	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/middleware"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func interviewRouter() *gin.Engine {
	r := gin.New()
	ctrl := NewInterviewController(testDB, EventBus.New())

	g := r.Group("", middleware.RequireAuth(testDB))
	g.POST("/schedule/:applicationId", middleware.CheckRole(model.RoleAdmin), ctrl.ScheduleInterview)
	g.GET("/my-interviews", middleware.CheckRole(model.RoleStudent), ctrl.MyInterviews)

	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func seedApplication(t *testing.T, student model.User, job model.Job, status string) model.Application {
	t.Helper()
	application := model.Application{
		StudentID: student.ID,
		JobID:     job.ID,
		Status:    status,
		AppliedAt: time.Now(),
	}
	require.NoError(t, testDB.Create(&application).Error)
	t.Cleanup(func() {
		testDB.Where("application_id = ?", application.ID).Delete(&model.InterviewSchedule{})
		testDB.Delete(&application)
	})
	return application
}

func TestScheduleInterview_CreateThenReschedule(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1, database.TestJob1, model.StatusShortlisted)

	r := interviewRouter()
	token := adminToken(t)
	endpoint := fmt.Sprintf("/schedule/%d", application.ID)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"date":         "2026-09-20",
		"time":         "14:30",
		"mode":         model.InterviewModeOnline,
		"meeting_link": "https://meet.example.com/abc",
		"questions":    []string{"Tell us about a project"},
	}, token, r, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-09-20", testutil.Data(resp)["date"])

	var stored model.Application
	require.NoError(t, testDB.Where("id = ?", application.ID).First(&stored).Error)
	assert.Equal(t, model.StatusInterviewScheduled, stored.Status)
	require.NotNil(t, stored.InterviewAt)
	assert.Equal(t, model.InterviewModeOnline, stored.InterviewMode)

	// Rescheduling overwrites the slot instead of adding a second one.
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"date": "2026-09-22",
		"time": "09:00",
		"mode": model.InterviewModeOffline,
	}, token, r, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-09-22", testutil.Data(resp)["date"])

	var count int64
	require.NoError(t, testDB.Model(&model.InterviewSchedule{}).
		Where("application_id = ?", application.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, testDB.Where("id = ?", application.ID).First(&stored).Error)
	assert.Equal(t, model.StatusInterviewScheduled, stored.Status)
	assert.Equal(t, model.InterviewModeOffline, stored.InterviewMode)
}

func TestScheduleInterview_TerminalApplication(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent2, database.TestJob1, model.StatusRejected)

	r := interviewRouter()
	token := adminToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"date": "2026-09-20",
		"time": "14:30",
		"mode": model.InterviewModeOnline,
	}, token, r, fmt.Sprintf("/schedule/%d", application.ID), http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["message"], "rejected")
}

func TestScheduleInterview_BadDate(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1, database.TestJob2, model.StatusShortlisted)

	r := interviewRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"date": "20-09-2026",
		"time": "14:30",
		"mode": model.InterviewModeOnline,
	}, token, r, fmt.Sprintf("/schedule/%d", application.ID), http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleInterview_UnknownApplication(t *testing.T) {
	r := interviewRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"date": "2026-09-20",
		"time": "14:30",
		"mode": model.InterviewModeOnline,
	}, token, r, "/schedule/424242", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyInterviews(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent2, database.TestJob2, model.StatusShortlisted)

	r := interviewRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"date": "2026-10-01",
		"time": "11:00",
		"mode": model.InterviewModeOnline,
	}, token, r, fmt.Sprintf("/schedule/%d", application.ID), http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)

	studentToken, err := auth.GetAccessToken(t, testDB,
		database.TestUserStudent2.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, studentToken, r, "/my-interviews", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	schedules, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, schedules)
	first := schedules[0].(map[string]interface{})
	assert.Equal(t, database.TestUserStudent2.ID.String(), first["student_id"])
}
