package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ManrajDhatt/Pet-Haven/mailer"
	"github.com/ManrajDhatt/Pet-Haven/models"
)

type petRequest struct {
	PetName string `json:"petName"`
	PetType string `json:"petType"`
	PetAge  int    `json:"petAge"`
}

func (p *petRequest) validate() error {
	p.PetName = strings.TrimSpace(p.PetName)
	p.PetType = strings.TrimSpace(p.PetType)
	if p.PetName == "" {
		return errors.New("pet name is required")
	}
	if p.PetType == "" {
		return errors.New("pet type is required")
	}
	if p.PetAge < 0 {
		return errors.New("pet age must not be negative")
	}
	return nil
}

// Register signs the caller's pet up for an event. Admins cannot register.
// The unique (user_id, event_id) constraint backstops the duplicate check,
// so two concurrent submissions cannot both create a row.
func (h *Handler) Register(c echo.Context) error {
	userID, admin := actor(c)
	if admin {
		return echo.NewHTTPError(http.StatusForbidden, "admins cannot register for events")
	}

	eventID, err := idParam(c)
	if err != nil {
		return err
	}

	var req petRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	event := &models.Event{}
	err = h.db.NewSelect().Model(event).Where("e.id = ?", eventID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	exists, err := h.db.NewSelect().Model((*models.Registration)(nil)).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if exists {
		return echo.NewHTTPError(http.StatusConflict, "you have already registered for this event")
	}

	reg := &models.Registration{
		UserID:    userID,
		EventID:   eventID,
		PetName:   req.PetName,
		PetType:   req.PetType,
		PetAge:    req.PetAge,
		Paid:      false,
		Timestamp: time.Now().UTC(),
	}
	if _, err := h.db.NewInsert().Model(reg).Exec(ctx); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "you have already registered for this event")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Confirmation mail is best effort; the registration stands either way.
	user := &models.User{}
	if err := h.db.NewSelect().Model(user).Where("u.id = ?", userID).Scan(ctx); err == nil {
		snapshot := *event
		pet := mailer.Pet{Name: reg.PetName, Type: reg.PetType, Age: reg.PetAge}
		mailer.Dispatch("registration-confirmation", func() error {
			return h.mail.SendConfirmation(user.Email, user.Username, &snapshot, pet)
		})
	}

	return c.JSON(http.StatusCreated, reg)
}

// myRegistrationRow joins a registration with its event for the caller's list.
type myRegistrationRow struct {
	ID         int     `bun:"id" json:"id"`
	EventID    int     `bun:"event_id" json:"eventID"`
	EventTitle string  `bun:"title" json:"eventTitle"`
	EventDate  string  `bun:"date" json:"eventDate"`
	Fee        float64 `bun:"fee" json:"fee"`
	PetName    string  `bun:"pet_name" json:"petName"`
	PetType    string  `bun:"pet_type" json:"petType"`
	PetAge     int     `bun:"pet_age" json:"petAge"`
	Paid       bool    `bun:"paid" json:"paid"`
	CanEdit    bool    `bun:"-" json:"canEdit"`
}

// MyRegistrations returns the caller's registrations with event details and
// an editability flag (date-only comparison, same-day still editable).
func (h *Handler) MyRegistrations(c echo.Context) error {
	userID, _ := actor(c)

	var rows []myRegistrationRow
	err := h.db.NewSelect().
		TableExpr("registrations AS rg").
		ColumnExpr("rg.id, rg.event_id, e.title, e.date, e.fee, rg.pet_name, rg.pet_type, rg.pet_age, rg.paid").
		Join("INNER JOIN events e ON e.id = rg.event_id").
		Where("rg.user_id = ?", userID).
		OrderExpr("rg.id ASC").
		Scan(c.Request().Context(), &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := today()
	for i := range rows {
		rows[i].CanEdit = eventOpen(rows[i].EventDate, now)
	}

	return c.JSON(http.StatusOK, rows)
}

// EditRegistration overwrites the pet fields of the caller's registration.
// Paid state and the original timestamp are preserved. Closed once the event
// date has passed.
func (h *Handler) EditRegistration(c echo.Context) error {
	userID, _ := actor(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req petRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	reg := &models.Registration{}
	err = h.db.NewSelect().Model(reg).Where("rg.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reg.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "you are not authorized to edit this registration")
	}

	event := &models.Event{}
	if err := h.db.NewSelect().Model(event).Where("e.id = ?", reg.EventID).Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !eventOpen(event.Date, today()) {
		return echo.NewHTTPError(http.StatusConflict, "cannot edit a registration for a past event")
	}

	reg.PetName = req.PetName
	reg.PetType = req.PetType
	reg.PetAge = req.PetAge

	_, err = h.db.NewUpdate().Model(reg).
		Column("pet_name", "pet_type", "pet_age").
		WherePK().
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, reg)
}

// Pay marks the caller's own registration as paid. One-way flag, no amount
// is recorded.
func (h *Handler) Pay(c echo.Context) error {
	userID, _ := actor(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	reg := &models.Registration{}
	err = h.db.NewSelect().Model(reg).Where("rg.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reg.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "you are not authorized to pay for this registration")
	}

	return h.markPaid(c, reg)
}

// VerifyPayment marks any registration as paid. Admin path, used to
// reconcile payments confirmed outside the system.
func (h *Handler) VerifyPayment(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	reg := &models.Registration{}
	err = h.db.NewSelect().Model(reg).Where("rg.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.markPaid(c, reg)
}

func (h *Handler) markPaid(c echo.Context, reg *models.Registration) error {
	reg.Paid = true
	_, err := h.db.NewUpdate().Model(reg).
		Column("paid").
		WherePK().
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reg)
}

// DeleteRegistration removes a registration and its result. Admin only.
func (h *Handler) DeleteRegistration(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.Registration)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "registration not found")
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.NewDelete().Model((*models.Result)(nil)).
		Where("registration_id = ?", id).
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := tx.NewDelete().Model((*models.Registration)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.NoContent(http.StatusOK)
}

// allRegistrationRow joins a registration with its user and event for the
// admin overview.
type allRegistrationRow struct {
	ID         int    `bun:"id" json:"id"`
	Username   string `bun:"username" json:"username"`
	Email      string `bun:"email" json:"email"`
	EventTitle string `bun:"title" json:"eventTitle"`
	EventDate  string `bun:"date" json:"eventDate"`
	PetName    string `bun:"pet_name" json:"petName"`
	PetType    string `bun:"pet_type" json:"petType"`
	PetAge     int    `bun:"pet_age" json:"petAge"`
	Paid       bool   `bun:"paid" json:"paid"`
}

// AllRegistrations returns every registration with user and event details.
// Admin only.
func (h *Handler) AllRegistrations(c echo.Context) error {
	var rows []allRegistrationRow
	err := h.db.NewSelect().
		TableExpr("registrations AS rg").
		ColumnExpr("rg.id, u.username, u.email, e.title, e.date, rg.pet_name, rg.pet_type, rg.pet_age, rg.paid").
		Join("INNER JOIN users u ON u.id = rg.user_id").
		Join("INNER JOIN events e ON e.id = rg.event_id").
		OrderExpr("rg.id ASC").
		Scan(c.Request().Context(), &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
