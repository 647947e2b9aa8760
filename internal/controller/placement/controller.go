// Package placement provides HTTP handlers for the job and application
// lifecycle.
package placement

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/metrics"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/notify"
	"CampusPlacement-backend/internal/utilities"
)

// PlacementController handles job posting and application endpoints.
type PlacementController struct {
	DB  *database.DBinstanceStruct
	Bus EventBus.Bus

	statsCache *gocache.Cache
}

// NewPlacementController creates a new instance of PlacementController.
func NewPlacementController(db *database.DBinstanceStruct, bus EventBus.Bus) *PlacementController {
	return &PlacementController{
		DB:         db,
		Bus:        bus,
		statsCache: gocache.New(time.Minute, 5*time.Minute),
	}
}

type jobRequest struct {
	CompanyID uint `json:"company_id" binding:"required"`

	model.EditableJobInfo
}

// CreateJob handles the creation of a new job posting by an admin.
// @Summary Create job posting based on given json structure
// @Tags Placement
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body jobRequest true "Input job information"
// @Success 201 {object} utilities.APIResponse "Successfully create job"
// @Failure 400 {object} utilities.APIResponse "Invalid job struct"
// @Failure 404 {object} utilities.APIResponse "Company not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/jobs [post]
func (pc *PlacementController) CreateJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err.Error()))
		return
	}

	var company model.Company
	if err := pc.DB.Where("id = ?", req.CompanyID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Company not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve company: %s", err.Error()))
		return
	}

	job := model.Job{
		CompanyID:       req.CompanyID,
		PostedByID:      user.ID,
		EditableJobInfo: req.EditableJobInfo,
		IsActive:        true,
	}
	if err := pc.DB.Create(&job).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to create job: ", err))
		return
	}
	job.Company = company

	utilities.Respond(c, http.StatusCreated, job)
}

// GetJobs fetches job postings matching query filters, paginated.
// Students only ever see active jobs whose deadline has not passed.
// @Summary Get job postings based on query
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param company query string false "Company name, substring matching and case insensitive"
// @Param location query string false "Location, substring matching and case insensitive"
// @Param type query string false "Employment type, exact match"
// @Param experience query string false "Experience level, exact match"
// @Param salary query string false "Salary band as min-max, overlap matching"
// @Param status query string false "active or inactive; ignored for students"
// @Param page query integer false "Page number, starting at 1"
// @Param limit query integer false "Page size, default 10"
// @Success 200 {object} utilities.APIResponse "Items plus pagination block"
// @Failure 400 {object} utilities.APIResponse "Invalid salary band"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/jobs [get]
func (pc *PlacementController) GetJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	rawCompany := c.Query("company")
	rawLocation := c.Query("location")
	rawType := c.Query("type")
	rawExp := c.Query("experience")
	rawSalary := c.Query("salary")
	rawStatus := c.Query("status")

	page, limit := pageParams(c)

	query := pc.DB.Model(&model.Job{}).Preload("Company")

	if user.Role == model.RoleStudent {
		// Students never see inactive or expired postings, whatever they ask for.
		query = query.Where("jobs.is_active = ?", true).
			Where("jobs.deadline IS NULL OR jobs.deadline > ?", time.Now())
	} else if rawStatus != "" {
		query = query.Where("jobs.is_active = ?", strings.EqualFold(rawStatus, "active"))
	}

	if rawCompany != "" {
		query = query.Joins("JOIN companies ON companies.id = jobs.company_id").
			Where("companies.name ILIKE ?", "%"+rawCompany+"%")
	}

	if rawLocation != "" {
		query = query.Where("jobs.location ILIKE ?", "%"+rawLocation+"%")
	}

	if rawType != "" {
		query = query.Where("jobs.type = ?", rawType)
	}

	if rawExp != "" {
		query = query.Where("jobs.experience_level = ?", rawExp)
	}

	if rawSalary != "" {
		minSalary, maxSalary, err := parseSalaryBand(rawSalary)
		if err != nil {
			utilities.Fail(c, http.StatusBadRequest, "Invalid salary band, want min-max")
			return
		}
		query = query.Where("jobs.salary_max >= ? AND jobs.salary_min <= ?", minSalary, maxSalary)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count jobs: ", err.Error()))
		return
	}

	var jobs []model.Job
	if err := query.Session(&gorm.Session{}).
		Order("jobs.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&jobs).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to fetch jobs: ", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, utilities.PagedItems{
		Items: jobs,
		Pagination: utilities.Pagination{
			Current: page,
			Pages:   pageCount(total, limit),
			Total:   total,
		},
	})
}

// GetJobByID fetches a job posting by its ID.
// @Summary Get job posting by ID
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Success 200 {object} utilities.APIResponse "The job with the specified ID"
// @Failure 404 {object} utilities.APIResponse "Job not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/jobs/{id} [get]
func (pc *PlacementController) GetJobByID(c *gin.Context) {
	id := c.Param("id")

	job := model.Job{}
	if err := pc.DB.
		Preload("Company").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve job: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, job)
}

type jobUpdateRequest struct {
	model.EditableJobInfo

	IsActive *bool `json:"is_active"`
}

// UpdateJob allows an admin to update a job posting.
// @Summary Edit job posting based on given json structure
// @Tags Placement
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Param Job body jobUpdateRequest true "Input job information"
// @Success 200 {object} utilities.APIResponse "Successfully update job"
// @Failure 400 {object} utilities.APIResponse "Invalid job struct"
// @Failure 404 {object} utilities.APIResponse "Job not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/jobs/{id} [put]
func (pc *PlacementController) UpdateJob(c *gin.Context) {
	id := c.Param("id")

	job := model.Job{}
	if err := pc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve job: %s", err.Error()))
		return
	}

	var req jobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Failed to parse request body: %s", err.Error()))
		return
	}

	if err := pc.DB.Model(&job).Updates(model.Job{EditableJobInfo: req.EditableJobInfo}).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to update job: %s", err.Error()))
		return
	}

	// Activation flag is updated separately so "false" is not dropped as a
	// zero value.
	if req.IsActive != nil {
		if err := pc.DB.Model(&job).Update("is_active", *req.IsActive).Error; err != nil {
			utilities.Fail(c, http.StatusInternalServerError,
				fmt.Sprintf("Failed to update job status: %s", err.Error()))
			return
		}
	}

	if err := pc.DB.Preload("Company").Where("id = ?", job.ID).First(&job).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve updated job: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, job)
}

// DeleteJob removes a job posting together with its applications and any
// interview schedules hanging off them.
// @Summary Delete given job ID and cascade to applications
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Success 200 {object} utilities.APIResponse "Successfully delete job"
// @Failure 404 {object} utilities.APIResponse "Job not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/jobs/{id} [delete]
func (pc *PlacementController) DeleteJob(c *gin.Context) {
	id := c.Param("id")

	job := model.Job{}
	if err := pc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve job: %s", err.Error()))
		return
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.InterviewSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to delete job: %s", err.Error()))
		return
	}

	utilities.Message(c, http.StatusOK, "Job deleted")
}

type applyRequest struct {
	JobID       uint   `json:"job_id" binding:"required"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}

// Apply handles the submission of a new application by a student.
// The application insert and the job's applied counter share one
// transaction; the composite unique index backs the duplicate pre-check
// under concurrent submissions.
// @Summary Submit an application against a job posting
// @Tags Placement
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body applyRequest true "Application information"
// @Success 201 {object} utilities.APIResponse "Successfully applied"
// @Failure 400 {object} utilities.APIResponse "Duplicate, inactive job or deadline passed"
// @Failure 404 {object} utilities.APIResponse "Job not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/apply [post]
func (pc *PlacementController) Apply(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err.Error()))
		return
	}

	var job model.Job
	if err := pc.DB.Where("id = ?", req.JobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve job: %s", err.Error()))
		return
	}

	if !job.IsActive {
		utilities.Fail(c, http.StatusBadRequest, "Job is not accepting applications")
		return
	}
	if job.Deadline != nil && job.Deadline.Before(time.Now()) {
		utilities.Fail(c, http.StatusBadRequest, "Application deadline has passed")
		return
	}

	// Friendly-path duplicate check; the unique index has the final word.
	var existing model.Application
	err = pc.DB.Where("student_id = ? AND job_id = ?", user.ID, job.ID).First(&existing).Error
	if err == nil {
		utilities.Fail(c, http.StatusBadRequest, "You have already applied to this job")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utilities.Fail(c, http.StatusInternalServerError, "Failed to check existing application")
		return
	}

	application := model.Application{
		StudentID:   user.ID,
		JobID:       job.ID,
		Resume:      req.Resume,
		CoverLetter: req.CoverLetter,
		Status:      model.StatusApplied,
		AppliedAt:   time.Now(),
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		return tx.Model(&model.Job{}).Where("id = ?", job.ID).
			UpdateColumn("applied_count", gorm.Expr("applied_count + 1")).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Unique violation: a concurrent request won the race.
			if pgErr.Code == "23505" {
				utilities.Fail(c, http.StatusBadRequest, "You have already applied to this job")
				return
			}
			if pgErr.Code == "23503" {
				utilities.Fail(c, http.StatusBadRequest,
					fmt.Sprintf("Invalid job reference: %s", err.Error()))
				return
			}
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to create application: %s", err.Error()))
		return
	}

	metrics.ApplicationsSubmitted.Inc()

	utilities.Respond(c, http.StatusCreated, application)
}

// GetApplications lists applications. Students are restricted to their own;
// admins can filter by job, student and status.
// @Summary List applications with filters and pagination
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job_id query integer false "Restrict to one job (admin)"
// @Param student_id query string false "Restrict to one student (admin)"
// @Param status query string false "Restrict to one status"
// @Param page query integer false "Page number, starting at 1"
// @Param limit query integer false "Page size, default 10"
// @Success 200 {object} utilities.APIResponse "Items plus pagination block"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/applications [get]
func (pc *PlacementController) GetApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	page, limit := pageParams(c)

	query := pc.DB.Model(&model.Application{}).
		Preload("Job").Preload("Job.Company").Preload("Student")

	if user.Role == model.RoleStudent {
		query = query.Where("student_id = ?", user.ID)
	} else {
		if rawJobID := c.Query("job_id"); rawJobID != "" {
			query = query.Where("job_id = ?", rawJobID)
		}
		if rawStudentID := c.Query("student_id"); rawStudentID != "" {
			query = query.Where("student_id = ?", rawStudentID)
		}
	}

	if rawStatus := c.Query("status"); rawStatus != "" {
		query = query.Where("status = ?", rawStatus)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count applications: ", err.Error()))
		return
	}

	var applications []model.Application
	if err := query.Session(&gorm.Session{}).
		Order("applied_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&applications).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to fetch applications: ", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, utilities.PagedItems{
		Items: applications,
		Pagination: utilities.Pagination{
			Current: page,
			Pages:   pageCount(total, limit),
			Total:   total,
		},
	})
}

type statusUpdateRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
}

// UpdateApplicationStatus moves an application through its lifecycle.
// Transitions are validated against the status table; moving to selected
// also bumps the job's selected counter in the same transaction.
// @Summary Change an application's status and feedback
// @Tags Placement
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Param update body statusUpdateRequest true "New status and optional feedback"
// @Success 200 {object} utilities.APIResponse "Updated application"
// @Failure 400 {object} utilities.APIResponse "Unknown status or illegal transition"
// @Failure 404 {object} utilities.APIResponse "Application not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/applications/{id} [put]
func (pc *PlacementController) UpdateApplicationStatus(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	id := c.Param("id")

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err.Error()))
		return
	}

	if !model.ValidStatus(req.Status) {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Unknown application status %q", req.Status))
		return
	}

	var application model.Application
	if err := pc.DB.Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Application not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve application: %s", err.Error()))
		return
	}

	if !model.CanTransition(application.Status, req.Status) {
		utilities.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Illegal status transition from %s to %s", application.Status, req.Status))
		return
	}

	newlySelected := req.Status == model.StatusSelected && application.Status != model.StatusSelected
	now := time.Now()

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         req.Status,
			"feedback":       req.Feedback,
			"reviewed_at":    now,
			"reviewed_by_id": admin.ID,
		}
		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return err
		}
		if newlySelected {
			return tx.Model(&model.Job{}).Where("id = ?", application.JobID).
				UpdateColumn("selected_count", gorm.Expr("selected_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to update application: %s", err.Error()))
		return
	}

	pc.Bus.Publish(notify.TopicApplicationStatus, notify.StatusChange{
		ApplicationID: application.ID,
		StudentID:     application.StudentID,
		JobTitle:      application.Job.Title,
		Status:        req.Status,
		Feedback:      req.Feedback,
	})

	if err := pc.DB.Preload("Job").Where("id = ?", application.ID).First(&application).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve updated application: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, application)
}

// WithdrawApplication lets a student pull their own application out of the
// running.
// @Summary Withdraw own application
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Success 200 {object} utilities.APIResponse "Withdrawn application"
// @Failure 400 {object} utilities.APIResponse "Application already settled"
// @Failure 404 {object} utilities.APIResponse "Application not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/applications/{id}/withdraw [put]
func (pc *PlacementController) WithdrawApplication(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	id := c.Param("id")

	var application model.Application
	if err := pc.DB.Preload("Job").
		Where("id = ? AND student_id = ?", id, user.ID).
		First(&application).Error; err != nil {
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
			fmt.Sprintf("Application is already %s", application.Status))
		return
	}

	if err := pc.DB.Model(&application).Update("status", model.StatusWithdrawn).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to withdraw application: %s", err.Error()))
		return
	}

	pc.Bus.Publish(notify.TopicApplicationStatus, notify.StatusChange{
		ApplicationID: application.ID,
		StudentID:     application.StudentID,
		JobTitle:      application.Job.Title,
		Status:        model.StatusWithdrawn,
	})

	utilities.Respond(c, http.StatusOK, application)
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func pageCount(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func parseSalaryBand(raw string) (int, int, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("salary band %q is not min-max", raw)
	}
	minSalary, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	maxSalary, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if minSalary > maxSalary {
		return 0, 0, fmt.Errorf("salary band %q has min above max", raw)
	}
	return minSalary, maxSalary, nil
}
