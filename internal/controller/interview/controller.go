// Package interview provides HTTP handlers for interview scheduling.
package interview

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/metrics"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/notify"
	"CampusPlacement-backend/internal/utilities"
)

// InterviewController handles interview scheduling endpoints.
type InterviewController struct {
	DB  *database.DBinstanceStruct
	Bus EventBus.Bus
}

// NewInterviewController creates a new instance of InterviewController.
func NewInterviewController(db *database.DBinstanceStruct, bus EventBus.Bus) *InterviewController {
	return &InterviewController{DB: db, Bus: bus}
}

type scheduleRequest struct {
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	Mode        string   `json:"mode" binding:"required,oneof=online offline"`
	MeetingLink string   `json:"meeting_link"`
	Questions   []string `json:"questions"`
}

// ScheduleInterview creates or replaces the interview slot for an
// application. The schedule row and the application's interview fields are
// written in one transaction so neither can exist without the other.
// @Summary Schedule or reschedule an interview for an application
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param applicationId path integer true "ID of desired application"
// @Param schedule body scheduleRequest true "Interview slot information"
// @Success 200 {object} utilities.APIResponse "The interview schedule"
// @Failure 400 {object} utilities.APIResponse "Bad date or settled application"
// @Failure 404 {object} utilities.APIResponse "Application not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /interviews/schedule/{applicationId} [post]
func (ic *InterviewController) ScheduleInterview(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	id := c.Param("applicationId")

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err.Error()))
		return
	}

	interviewAt, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		utilities.Fail(c, http.StatusBadRequest,
			"Invalid date or time, want YYYY-MM-DD and HH:MM")
		return
	}

	var application model.Application
	if err := ic.DB.Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Application not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve application: %s", err.Error()))
		return
	}

	if model.IsTerminalStatus(application.Status) {
		utilities.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot schedule an interview for a %s application", application.Status))
		return
	}

	var schedule model.InterviewSchedule
	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("application_id = ?", application.ID).First(&schedule).Error
		switch {
		case err == nil:
			// Reschedule: overwrite the existing slot.
			schedule.Date = req.Date
			schedule.Time = req.Time
			schedule.Mode = req.Mode
			schedule.MeetingLink = req.MeetingLink
			schedule.Questions = pq.StringArray(req.Questions)
			schedule.ScheduledByID = admin.ID
			if err := tx.Save(&schedule).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			schedule = model.InterviewSchedule{
				ApplicationID: application.ID,
				StudentID:     application.StudentID,
				JobID:         application.JobID,
				Date:          req.Date,
				Time:          req.Time,
				Mode:          req.Mode,
				MeetingLink:   req.MeetingLink,
				Questions:     pq.StringArray(req.Questions),
				ScheduledByID: admin.ID,
			}
			if err := tx.Create(&schedule).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&application).Updates(map[string]interface{}{
			"status":         model.StatusInterviewScheduled,
			"interview_at":   interviewAt,
			"interview_mode": req.Mode,
			"interview_link": req.MeetingLink,
		}).Error
	})
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to schedule interview: %s", err.Error()))
		return
	}

	metrics.InterviewsScheduled.Inc()

	ic.Bus.Publish(notify.TopicInterviewScheduled, notify.InterviewScheduled{
		ApplicationID: application.ID,
		StudentID:     application.StudentID,
		JobTitle:      application.Job.Title,
		Date:          req.Date,
		Time:          req.Time,
		Mode:          req.Mode,
		MeetingLink:   req.MeetingLink,
	})

	utilities.Respond(c, http.StatusOK, schedule)
}

// MyInterviews lists the calling student's interview schedules.
// @Summary List own interview schedules
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.APIResponse "Interview schedules"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /interviews/my-interviews [get]
func (ic *InterviewController) MyInterviews(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var schedules []model.InterviewSchedule
	if err := ic.DB.
		Preload("Job").Preload("Job.Company").
		Where("student_id = ?", user.ID).
		Order("date, time").
		Find(&schedules).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to fetch interviews: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, schedules)
}

func combineDateTime(date, clock string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}
