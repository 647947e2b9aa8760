package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users, profiles, companies and jobs
var (
	TestAdminUser    m.User
	TestUserStudent1 m.User
	TestUserStudent2 m.User
	TestStudent1     m.StudentProfile
	TestStudent2     m.StudentProfile
	TestCompany1     m.Company
	TestCompany2     m.Company

	// Shared plain password of every seeded user
	TestSeedPassword = "SeedPass123!"

	// Seeded jobs: two open, one past its deadline, one deactivated
	TestJob1        m.Job
	TestJob2        m.Job
	TestJobExpired  m.Job
	TestJobInactive m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample students, an admin, companies and jobs if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		username string
		email    string
		role     string
	}{
		{"student_1", "student1@example.edu", m.RoleStudent},
		{"student_2", "student2@example.edu", m.RoleStudent},
		{"admin_user", "placement@example.edu", m.RoleAdmin},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			Username: s.username,
			Email:    &email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "student_1":
			TestUserStudent1 = u
		case "student_2":
			TestUserStudent2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	profiles := []m.StudentProfile{
		{
			UserID: TestUserStudent1.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				FirstName:      "Alice",
				LastName:       "Nguyen",
				Department:     "Computer Science",
				GraduationYear: 2026,
				CGPA:           8.4,
				Skills:         pq.StringArray{"go", "sql"},
			},
		},
		{
			UserID: TestUserStudent2.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				FirstName:      "Bob",
				LastName:       "Somsak",
				Department:     "Electronics",
				GraduationYear: 2025,
				CGPA:           7.1,
				Skills:         pq.StringArray{"c", "verilog"},
			},
		},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}
	TestStudent1 = profiles[0]
	TestStudent2 = profiles[1]

	sizeM, sizeL := "M", "L"
	companies := []m.Company{
		{
			EditableCompanyInfo: m.EditableCompanyInfo{
				Name:         "TechNova",
				Industry:     "Software",
				Size:         &sizeM,
				Website:      "https://technova.example.com",
				ContactEmail: "jobs@technova.example.com",
			},
		},
		{
			EditableCompanyInfo: m.EditableCompanyInfo{
				Name:         "DataForge",
				Industry:     "Consulting",
				Size:         &sizeL,
				Website:      "https://dataforge.example.com",
				ContactEmail: "hr@dataforge.example.com",
			},
		},
	}
	if err := db.Create(&companies).Error; err != nil {
		return err
	}
	TestCompany1 = companies[0]
	TestCompany2 = companies[1]

	open1 := time.Now().AddDate(0, 1, 0)
	open2 := time.Now().AddDate(0, 2, 0)
	gone := time.Now().AddDate(0, 0, -7)

	jobs := []m.Job{
		{
			CompanyID:  TestCompany1.ID,
			PostedByID: TestAdminUser.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Backend Engineer",
				Description:    "Go microservices and database layers.",
				Requirements:   pq.StringArray{"Go basics", "SQL familiarity"},
				Location:       "Bangalore",
				Type:           m.JobTypeFullTime,
				SalaryMin:      600000,
				SalaryMax:      900000,
				SalaryCurrency: "INR",
				Deadline:       &open1,
				TotalPositions: 3,
				MinCGPA:        7.0,
				Departments:    pq.StringArray{"Computer Science"},
			},
		},
		{
			CompanyID:  TestCompany2.ID,
			PostedByID: TestAdminUser.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Data Analyst Intern",
				Description:    "Data cleansing and dashboards.",
				Requirements:   pq.StringArray{"SQL", "basic statistics"},
				Location:       "Remote",
				Type:           m.JobTypeInternship,
				SalaryMin:      180000,
				SalaryMax:      240000,
				SalaryCurrency: "INR",
				Deadline:       &open2,
				TotalPositions: 2,
			},
		},
		{
			CompanyID:  TestCompany1.ID,
			PostedByID: TestAdminUser.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Frontend Developer",
				Description:    "Component library work.",
				Location:       "Pune",
				Type:           m.JobTypeFullTime,
				SalaryMin:      500000,
				SalaryMax:      700000,
				SalaryCurrency: "INR",
				Deadline:       &gone,
				TotalPositions: 1,
			},
		},
		{
			CompanyID:  TestCompany2.ID,
			PostedByID: TestAdminUser.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:          "QA Engineer",
				Description:    "Withdrawn posting.",
				Location:       "Chennai",
				Type:           m.JobTypeContract,
				SalaryMin:      400000,
				SalaryMax:      550000,
				SalaryCurrency: "INR",
				Deadline:       &open1,
				TotalPositions: 1,
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	// IsActive carries a DB-side default, so deactivation must be an update.
	if err := db.Model(&m.Job{}).Where("id = ?", jobs[3].ID).
		Update("is_active", false).Error; err != nil {
		return err
	}
	jobs[3].IsActive = false

	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJobExpired = jobs[2]
	TestJobInactive = jobs[3]

	return nil
}
