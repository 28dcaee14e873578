package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	bundb "github.com/ManrajDhatt/Pet-Haven/db"
	"github.com/ManrajDhatt/Pet-Haven/mailer"
	"github.com/ManrajDhatt/Pet-Haven/models"
	"github.com/ManrajDhatt/Pet-Haven/storage"
)

// newTestDB opens an isolated in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bundb.CreateTables(context.Background(), db))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestHandler wires a Handler with noop mail and a static uploader.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return New(newTestDB(t), []byte("test-secret"), mailer.Noop{}, storage.Static{URL: "https://img.test/static.png"})
}

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(t *testing.T, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// newFormContext builds an echo context carrying form fields.
func newFormContext(t *testing.T, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// asActor stamps the context the way the JWT middleware would.
func asActor(c echo.Context, userID int, admin bool) {
	c.Set("user_id", userID)
	c.Set("is_admin", admin)
	c.Set("username", "test-actor")
}

func setID(c echo.Context, id int) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(id))
}

// httpStatus unwraps the status code of an echo error return.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

// --- seed helpers ---

func seedUser(t *testing.T, db *bun.DB, username, email string, admin bool) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "x", IsAdmin: admin}
	_, err := db.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)
	return u
}

func seedEvent(t *testing.T, db *bun.DB, title, date string, fee float64) *models.Event {
	t.Helper()
	e := &models.Event{
		Title:       title,
		Description: "desc",
		Date:        date,
		Location:    "City Park",
		Prizes:      "Trophy",
		Eligibility: "All pets",
		Fee:         fee,
		ImageURL:    models.DefaultEventImage,
	}
	_, err := db.NewInsert().Model(e).Exec(context.Background())
	require.NoError(t, err)
	return e
}

func seedRegistration(t *testing.T, db *bun.DB, user *models.User, event *models.Event, petName string) *models.Registration {
	t.Helper()
	r := &models.Registration{
		UserID:    user.ID,
		EventID:   event.ID,
		PetName:   petName,
		PetType:   "Dog",
		PetAge:    3,
		Timestamp: time.Now().UTC(),
	}
	_, err := db.NewInsert().Model(r).Exec(context.Background())
	require.NoError(t, err)
	return r
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 30).Format("2006-01-02")
}

func pastDate() string {
	return time.Now().AddDate(0, 0, -30).Format("2006-01-02")
}
