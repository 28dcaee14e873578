package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ManrajDhatt/Pet-Haven/mailer"
	"github.com/ManrajDhatt/Pet-Haven/storage"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db      *bun.DB
	JWTKey  []byte
	mail    mailer.Mailer
	uploads storage.Uploader
}

// New creates a Handler with the given database connection, JWT signing key
// and external collaborators.
func New(db *bun.DB, jwtKey []byte, mail mailer.Mailer, uploads storage.Uploader) *Handler {
	return &Handler{db: db, JWTKey: jwtKey, mail: mail, uploads: uploads}
}

// actor returns the authenticated user's id and admin flag set by the JWT middleware.
func actor(c echo.Context) (id int, admin bool) {
	id, _ = c.Get("user_id").(int)
	admin, _ = c.Get("is_admin").(bool)
	return id, admin
}

// idParam parses the :id route parameter.
func idParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// today returns the current calendar date as YYYY-MM-DD.
func today() string {
	return time.Now().Format("2006-01-02")
}

// eventOpen reports whether an event dated date (YYYY-MM-DD) has not yet
// passed. Date-only comparison, so same-day operations are still allowed.
func eventOpen(date, today string) bool {
	return date >= today
}
