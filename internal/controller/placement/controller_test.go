package placement

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

func placementRouter() *gin.Engine {
	r := gin.New()
	ctrl := NewPlacementController(testDB, EventBus.New())

	g := r.Group("", middleware.RequireAuth(testDB))
	g.GET("/jobs", ctrl.GetJobs)
	g.GET("/jobs/:id", ctrl.GetJobByID)
	g.GET("/applications", ctrl.GetApplications)
	g.POST("/apply", middleware.CheckRole(model.RoleStudent), ctrl.Apply)
	g.PUT("/applications/:id/withdraw", middleware.CheckRole(model.RoleStudent), ctrl.WithdrawApplication)
	g.POST("/jobs", middleware.CheckRole(model.RoleAdmin), ctrl.CreateJob)
	g.PUT("/jobs/:id", middleware.CheckRole(model.RoleAdmin), ctrl.UpdateJob)
	g.DELETE("/jobs/:id", middleware.CheckRole(model.RoleAdmin), ctrl.DeleteJob)
	g.PUT("/applications/:id", middleware.CheckRole(model.RoleAdmin), ctrl.UpdateApplicationStatus)
	g.GET("/stats", middleware.CheckRole(model.RoleAdmin), ctrl.GetStats)

	return r
}

func studentToken(t *testing.T, user model.User) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, user.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func jobTitles(items []interface{}) []string {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		job := it.(map[string]interface{})
		titles = append(titles, job["title"].(string))
	}
	return titles
}

func TestGetJobs_StudentOnlySeesOpenPostings(t *testing.T) {
	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?limit=100", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	titles := jobTitles(testutil.Items(resp))
	assert.Contains(t, titles, database.TestJob1.Title)
	assert.Contains(t, titles, database.TestJob2.Title)
	assert.NotContains(t, titles, database.TestJobExpired.Title)
	assert.NotContains(t, titles, database.TestJobInactive.Title)
}

func TestGetJobs_AdminSeesInactiveWithStatusFilter(t *testing.T) {
	r := placementRouter()
	token := adminToken(t)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?status=inactive&limit=100", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	titles := jobTitles(testutil.Items(resp))
	assert.Contains(t, titles, database.TestJobInactive.Title)
	assert.NotContains(t, titles, database.TestJob1.Title)
}

func TestGetJobs_SalaryBandOverlap(t *testing.T) {
	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	// TestJob1 pays 600000-900000, TestJob2 pays 180000-240000.
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobs?salary=700000-800000&limit=100", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	titles := jobTitles(testutil.Items(resp))
	assert.Contains(t, titles, database.TestJob1.Title)
	assert.NotContains(t, titles, database.TestJob2.Title)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/jobs?salary=broken", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobs_Pagination(t *testing.T) {
	deadline := time.Now().AddDate(0, 3, 0)
	for i := 0; i < 15; i++ {
		job := model.Job{
			CompanyID:  database.TestCompany1.ID,
			PostedByID: database.TestAdminUser.ID,
			EditableJobInfo: model.EditableJobInfo{
				Title:    fmt.Sprintf("Paging Role %02d", i),
				Location: "Paginationville",
				Type:     model.JobTypeFullTime,
				Deadline: &deadline,
			},
		}
		require.NoError(t, testDB.Create(&job).Error)
	}

	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, token, r,
		"/jobs?location=Paginationville&page=2&limit=10", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	items := testutil.Items(resp)
	assert.Len(t, items, 5)

	pagination := testutil.Data(resp)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["current"])
	assert.Equal(t, float64(2), pagination["pages"])
	assert.Equal(t, float64(15), pagination["total"])
}

func TestCreateJob_UnknownCompany(t *testing.T) {
	r := placementRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_id": 99999,
		"title":      "Ghost Role",
		"type":       model.JobTypeFullTime,
	}, token, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApply_IncrementsCounterAndRejectsDuplicate(t *testing.T) {
	r := placementRouter()
	token := studentToken(t, database.TestUserStudent2)

	var before model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJob2.ID).First(&before).Error)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_id": database.TestJob2.ID,
		"resume": "https://cdn.example.com/resume.pdf",
	}, token, r, "/apply", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.StatusApplied, testutil.Data(resp)["status"])

	var after model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJob2.ID).First(&after).Error)
	assert.Equal(t, before.AppliedCount+1, after.AppliedCount)

	// Second submission against the same job must bounce without a new row.
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"job_id": database.TestJob2.ID,
	}, token, r, "/apply", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["message"], "already applied")

	var count int64
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("student_id = ? AND job_id = ?", database.TestUserStudent2.ID, database.TestJob2.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApply_DeadlinePassed(t *testing.T) {
	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_id": database.TestJobExpired.ID,
	}, token, r, "/apply", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["message"], "deadline")

	var count int64
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("student_id = ? AND job_id = ?", database.TestUserStudent1.ID, database.TestJobExpired.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestApply_InactiveJob(t *testing.T) {
	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"job_id": database.TestJobInactive.ID,
	}, token, r, "/apply", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
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
	return application
}

func TestUpdateApplicationStatus_Legal(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1, database.TestJob1, model.StatusApplied)
	t.Cleanup(func() { testDB.Delete(&application) })

	r := placementRouter()
	token := adminToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"status":   model.StatusUnderReview,
		"feedback": "Strong Go background",
	}, token, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)

	data := testutil.Data(resp)
	assert.Equal(t, model.StatusUnderReview, data["status"])
	assert.Equal(t, "Strong Go background", data["feedback"])
	assert.NotNil(t, data["reviewed_at"])
}

func TestUpdateApplicationStatus_IllegalTransition(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent2, database.TestJob1, model.StatusSelected)
	t.Cleanup(func() { testDB.Delete(&application) })

	r := placementRouter()
	token := adminToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"status": model.StatusApplied,
	}, token, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["message"], "Illegal status transition")

	// Skipping straight to an interview without a shortlist is refused too.
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"status": model.StatusInterviewScheduled,
	}, token, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateApplicationStatus_UnknownStatus(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1, database.TestJob2, model.StatusApplied)
	t.Cleanup(func() { testDB.Delete(&application) })

	r := placementRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": "hired",
	}, token, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateApplicationStatus_SelectedBumpsCounter(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1,
		database.TestJob2, model.StatusInterviewScheduled)
	t.Cleanup(func() { testDB.Delete(&application) })

	var before model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJob2.ID).First(&before).Error)

	r := placementRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": model.StatusSelected,
	}, token, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)

	var after model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJob2.ID).First(&after).Error)
	assert.Equal(t, before.SelectedCount+1, after.SelectedCount)
}

func TestWithdrawApplication(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent1, database.TestJob1, model.StatusApplied)
	t.Cleanup(func() { testDB.Delete(&application) })

	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/applications/%d/withdraw", application.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Application
	require.NoError(t, testDB.Where("id = ?", application.ID).First(&stored).Error)
	assert.Equal(t, model.StatusWithdrawn, stored.Status)

	// A withdrawn application is settled for good.
	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/applications/%d/withdraw", application.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithdrawApplication_NotOwn(t *testing.T) {
	application := seedApplication(t, database.TestUserStudent2, database.TestJob1, model.StatusApplied)
	t.Cleanup(func() { testDB.Delete(&application) })

	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/applications/%d/withdraw", application.ID), http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetApplications_StudentScopedToOwn(t *testing.T) {
	own := seedApplication(t, database.TestUserStudent1, database.TestJob1, model.StatusApplied)
	other := seedApplication(t, database.TestUserStudent2, database.TestJob1, model.StatusApplied)
	t.Cleanup(func() {
		testDB.Delete(&own)
		testDB.Delete(&other)
	})

	r := placementRouter()
	token := studentToken(t, database.TestUserStudent1)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/applications?limit=100", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, it := range testutil.Items(resp) {
		application := it.(map[string]interface{})
		assert.Equal(t, database.TestUserStudent1.ID.String(), application["student_id"])
	}
}

func TestDeleteJob_Cascades(t *testing.T) {
	deadline := time.Now().AddDate(0, 1, 0)
	job := model.Job{
		CompanyID:  database.TestCompany1.ID,
		PostedByID: database.TestAdminUser.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:    "Doomed Role",
			Location: "Nowhere",
			Type:     model.JobTypeContract,
			Deadline: &deadline,
		},
	}
	require.NoError(t, testDB.Create(&job).Error)

	application := seedApplication(t, database.TestUserStudent1, job, model.StatusShortlisted)
	schedule := model.InterviewSchedule{
		ApplicationID: application.ID,
		StudentID:     application.StudentID,
		JobID:         job.ID,
		Date:          "2026-09-15",
		Time:          "10:00",
		Mode:          model.InterviewModeOnline,
		ScheduledByID: database.TestAdminUser.ID,
	}
	require.NoError(t, testDB.Create(&schedule).Error)

	r := placementRouter()
	token := adminToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/jobs/%d", job.ID), http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)

	var jobs, applications, schedules int64
	require.NoError(t, testDB.Model(&model.Job{}).Where("id = ?", job.ID).Count(&jobs).Error)
	require.NoError(t, testDB.Model(&model.Application{}).Where("job_id = ?", job.ID).Count(&applications).Error)
	require.NoError(t, testDB.Model(&model.InterviewSchedule{}).Where("job_id = ?", job.ID).Count(&schedules).Error)
	assert.Zero(t, jobs)
	assert.Zero(t, applications)
	assert.Zero(t, schedules)
}

func TestParseSalaryBand(t *testing.T) {
	minSalary, maxSalary, err := parseSalaryBand("300000-500000")
	assert.NoError(t, err)
	assert.Equal(t, 300000, minSalary)
	assert.Equal(t, 500000, maxSalary)

	_, _, err = parseSalaryBand("500000")
	assert.Error(t, err)

	_, _, err = parseSalaryBand("abc-def")
	assert.Error(t, err)

	_, _, err = parseSalaryBand("900000-100000")
	assert.Error(t, err)
}
