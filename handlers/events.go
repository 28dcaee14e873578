package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ManrajDhatt/Pet-Haven/mailer"
	"github.com/ManrajDhatt/Pet-Haven/models"
)

// ListEvents returns all events, or only upcoming ones with ?upcoming=true.
func (h *Handler) ListEvents(c echo.Context) error {
	var events []models.Event
	q := h.db.NewSelect().Model(&events).OrderExpr("e.date ASC, e.id ASC")

	if c.QueryParam("upcoming") == "true" {
		q = q.Where("e.date >= ?", today())
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, events)
}

// GetEvent returns a single event.
func (h *Handler) GetEvent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	event := &models.Event{}
	err = h.db.NewSelect().Model(event).Where("e.id = ?", id).Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, event)
}

// eventForm reads and validates the multipart event fields shared by create
// and update. A zero fee field falls back to the default entry fee.
func (h *Handler) eventForm(c echo.Context, event *models.Event) error {
	event.Title = strings.TrimSpace(c.FormValue("title"))
	event.Description = strings.TrimSpace(c.FormValue("description"))
	event.Date = strings.TrimSpace(c.FormValue("date"))
	event.Location = strings.TrimSpace(c.FormValue("location"))
	event.Prizes = strings.TrimSpace(c.FormValue("prizes"))
	event.Eligibility = strings.TrimSpace(c.FormValue("eligibility"))

	if event.Title == "" || event.Description == "" || event.Location == "" ||
		event.Prizes == "" || event.Eligibility == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title, description, date, location, prizes and eligibility are required")
	}
	if _, err := time.Parse("2006-01-02", event.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	event.Fee = models.DefaultEventFee
	if raw := strings.TrimSpace(c.FormValue("fee")); raw != "" {
		fee, err := strconv.ParseFloat(raw, 64)
		if err != nil || fee < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "fee must be a non-negative number")
		}
		event.Fee = fee
	}

	// Optional image – uploaded to object storage, only the URL is kept.
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	url, err := h.uploads.Upload(c.Request().Context(), file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	event.ImageURL = url
	return nil
}

// CreateEvent inserts a new event. Admin only.
func (h *Handler) CreateEvent(c echo.Context) error {
	event := &models.Event{ImageURL: models.DefaultEventImage}
	if err := h.eventForm(c, event); err != nil {
		return err
	}

	if _, err := h.db.NewInsert().Model(event).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent overwrites an event's fields. Admin only. With notify=true,
// every registrant gets an update email; mail failures never surface here.
func (h *Handler) UpdateEvent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	event := &models.Event{}
	err = h.db.NewSelect().Model(event).Where("e.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.eventForm(c, event); err != nil {
		return err
	}

	if _, err := h.db.NewUpdate().Model(event).WherePK().Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.FormValue("notify") == "true" {
		h.notifyRegistrants(c, event)
	}

	return c.JSON(http.StatusOK, event)
}

type registrantRow struct {
	Email    string `bun:"email"`
	Username string `bun:"username"`
}

// notifyRegistrants dispatches update emails to everyone registered for the
// event, detached from the request so the update itself never blocks on mail.
func (h *Handler) notifyRegistrants(c echo.Context, event *models.Event) {
	var rows []registrantRow
	err := h.db.NewSelect().
		TableExpr("registrations AS rg").
		ColumnExpr("u.email, u.username").
		Join("INNER JOIN users u ON u.id = rg.user_id").
		Where("rg.event_id = ?", event.ID).
		Scan(c.Request().Context(), &rows)
	if err != nil {
		zap.L().Error("loading registrants for update mail", zap.Int("event_id", event.ID), zap.Error(err))
		return
	}

	snapshot := *event
	for _, row := range rows {
		to, name := row.Email, row.Username
		mailer.Dispatch("event-update", func() error {
			return h.mail.SendUpdate(to, name, &snapshot)
		})
	}
}
