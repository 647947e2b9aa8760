// Package company provides HTTP handlers for managing companies.
package company

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

// CompanyController handles company endpoints.
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController.
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{DB: db}
}

// GetCompanies lists all companies, optionally filtered by name substring.
// @Summary List companies
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param name query string false "Company name, substring matching and case insensitive"
// @Success 200 {object} utilities.APIResponse "Companies"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) GetCompanies(c *gin.Context) {
	query := cc.DB.Model(&model.Company{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}

	var companies []model.Company
	if err := query.Order("name").Find(&companies).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to fetch companies: ", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, companies)
}

// GetCompanyByID fetches one company.
// @Summary Get company by ID
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Success 200 {object} utilities.APIResponse "The company with the specified ID"
// @Failure 404 {object} utilities.APIResponse "Company not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	if err := cc.DB.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Company not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve company: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, company)
}

// CreateCompany adds a new company.
// @Summary Create company based on given json structure
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Company body model.EditableCompanyInfo true "Input company information"
// @Success 201 {object} utilities.APIResponse "Successfully create company"
// @Failure 400 {object} utilities.APIResponse "Invalid company struct"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /companies [post]
func (cc *CompanyController) CreateCompany(c *gin.Context) {
	var info model.EditableCompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err.Error()))
		return
	}

	company := model.Company{EditableCompanyInfo: info}
	if err := cc.DB.Create(&company).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to create company: ", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusCreated, company)
}

// UpdateCompany edits an existing company.
// @Summary Edit company based on given json structure
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Param Company body model.EditableCompanyInfo true "Input company information"
// @Success 200 {object} utilities.APIResponse "Successfully update company"
// @Failure 400 {object} utilities.APIResponse "Invalid company struct"
// @Failure 404 {object} utilities.APIResponse "Company not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /companies/{id} [put]
func (cc *CompanyController) UpdateCompany(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	if err := cc.DB.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Company not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve company: %s", err.Error()))
		return
	}

	var info model.EditableCompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Failed to parse request body: %s", err.Error()))
		return
	}

	if err := cc.DB.Model(&company).Updates(model.Company{EditableCompanyInfo: info}).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to update company: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, company)
}

// DeleteCompany removes a company with no job postings left.
// @Summary Delete given company ID
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Success 200 {object} utilities.APIResponse "Successfully delete company"
// @Failure 400 {object} utilities.APIResponse "Company still has jobs"
// @Failure 404 {object} utilities.APIResponse "Company not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /companies/{id} [delete]
func (cc *CompanyController) DeleteCompany(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	if err := cc.DB.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Company not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve company: %s", err.Error()))
		return
	}

	var jobCount int64
	if err := cc.DB.Model(&model.Job{}).Where("company_id = ?", company.ID).
		Count(&jobCount).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to count jobs: ", err.Error()))
		return
	}
	if jobCount > 0 {
		utilities.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Company still has %d job postings, delete them first", jobCount))
		return
	}

	if err := cc.DB.Delete(&company).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to delete company: %s", err.Error()))
		return
	}

	utilities.Message(c, http.StatusOK, "Company deleted")
}
