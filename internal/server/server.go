// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/asaskevich/EventBus"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"CampusPlacement-backend/internal/database"
)

// MyServer contain port which server are running on, database instance and
// the event bus shared with the controllers.
type MyServer struct {
	port int

	DB  *database.DBinstanceStruct
	Bus EventBus.Bus
}

// New construct new http.Server instance bound to the given database and bus.
func New(db *database.DBinstanceStruct, bus EventBus.Bus) *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8080
	}

	myServer := &MyServer{
		port: port,
		DB:   db,
		Bus:  bus,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", myServer.port),
		Handler:      myServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
