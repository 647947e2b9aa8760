package notification

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

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

func notificationRouter() *gin.Engine {
	r := gin.New()
	ctrl := NewNotificationController(testDB)

	g := r.Group("", middleware.RequireAuth(testDB))
	g.GET("/notifications", ctrl.GetMyNotifications)
	g.PUT("/notifications/:id/read", ctrl.MarkRead)

	return r
}

func TestNotificationsScopedAndMarkable(t *testing.T) {
	own := model.Notification{
		UserID:  database.TestUserStudent1.ID,
		Title:   "Application update",
		Message: "Your application moved to shortlisted",
	}
	other := model.Notification{
		UserID:  database.TestUserStudent2.ID,
		Title:   "Application update",
		Message: "Your application moved to rejected",
	}
	require.NoError(t, testDB.Create(&own).Error)
	require.NoError(t, testDB.Create(&other).Error)
	t.Cleanup(func() {
		testDB.Delete(&own)
		testDB.Delete(&other)
	})

	r := notificationRouter()
	token, err := auth.GetAccessToken(t, testDB,
		database.TestUserStudent1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/notifications", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	notifications := resp["data"].([]interface{})
	require.NotEmpty(t, notifications)
	for _, it := range notifications {
		assert.Equal(t, database.TestUserStudent1.ID.String(),
			it.(map[string]interface{})["user_id"])
	}

	rec, resp = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/notifications/%d/read", own.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, testutil.Data(resp)["read"])

	// Someone else's notification is invisible, not forbidden.
	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/notifications/%d/read", other.ID), http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
