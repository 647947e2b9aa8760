package placement

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type companyCount struct {
	Company string `json:"company"`
	Count   int64  `json:"count"`
}

type placementStats struct {
	TotalJobs         int64            `json:"total_jobs"`
	ActiveJobs        int64            `json:"active_jobs"`
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	TopCompanies      []companyCount   `json:"top_companies"`
	PlacementRate     string           `json:"placement_rate"`
	AvgSalary         float64          `json:"avg_salary"`
	MaxSalary         int64            `json:"max_salary"`
}

// GetStats aggregates placement figures, optionally restricted to one
// calendar year. Results are cached for a minute since the queries fan out
// across several tables.
// @Summary Placement statistics for the admin dashboard
// @Tags Placement
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param year query integer false "Restrict to jobs and applications of one year"
// @Success 200 {object} utilities.APIResponse "Aggregated statistics"
// @Failure 400 {object} utilities.APIResponse "Invalid year"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /placements/stats [get]
func (pc *PlacementController) GetStats(c *gin.Context) {
	rawYear := c.Query("year")

	cacheKey := "placement-stats:" + rawYear
	if cached, ok := pc.statsCache.Get(cacheKey); ok {
		utilities.Respond(c, http.StatusOK, cached)
		return
	}

	jobQuery := pc.DB.Model(&model.Job{})
	appQuery := pc.DB.Model(&model.Application{})

	if rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil || year < 1900 || year > 9999 {
			utilities.Fail(c, http.StatusBadRequest, "Invalid year")
			return
		}
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		jobQuery = jobQuery.Where("jobs.created_at >= ? AND jobs.created_at < ?", from, to)
		appQuery = appQuery.Where("applied_at >= ? AND applied_at < ?", from, to)
	}

	stats := placementStats{}

	if err := jobQuery.Session(&gorm.Session{}).Count(&stats.TotalJobs).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count jobs: ", err.Error()))
		return
	}
	if err := jobQuery.Session(&gorm.Session{}).Where("is_active = ?", true).
		Count(&stats.ActiveJobs).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count active jobs: ", err.Error()))
		return
	}
	if err := appQuery.Session(&gorm.Session{}).Count(&stats.TotalApplications).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count applications: ", err.Error()))
		return
	}

	var byStatus []statusCount
	if err := appQuery.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to group applications: ", err.Error()))
		return
	}
	stats.ByStatus = lo.Associate(byStatus, func(sc statusCount) (string, int64) {
		return sc.Status, sc.Count
	})

	if err := jobQuery.Session(&gorm.Session{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Select("companies.name AS company, COUNT(*) AS count").
		Group("companies.name").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopCompanies).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to rank companies: ", err.Error()))
		return
	}

	if stats.TotalApplications > 0 {
		stats.PlacementRate = fmt.Sprintf("%.2f",
			float64(stats.ByStatus[model.StatusSelected])/float64(stats.TotalApplications)*100)
	} else {
		stats.PlacementRate = "0.00"
	}

	var salary struct {
		Avg float64
		Max int64
	}
	if err := jobQuery.Session(&gorm.Session{}).
		Select("COALESCE(AVG(salary_max), 0) AS avg, COALESCE(MAX(salary_max), 0) AS max").
		Scan(&salary).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to aggregate salaries: ", err.Error()))
		return
	}
	stats.AvgSalary = salary.Avg
	stats.MaxSalary = salary.Max

	pc.statsCache.Set(cacheKey, stats, gocache.DefaultExpiration)

	utilities.Respond(c, http.StatusOK, stats)
}
