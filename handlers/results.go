package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// ResultInput is one registration's scoring entry in a bulk add/update call.
type ResultInput struct {
	RegistrationID int      `json:"registrationID"`
	Attended       bool     `json:"attended"`
	Position       *int     `json:"position,omitempty"`
	Points         *float64 `json:"points,omitempty"`
	Remarks        string   `json:"remarks"`
}

// deriveResult applies the scoring rules to one input:
// absentees get no position or points and a default remark unless one was
// supplied; attendees need a positive position when one is given at all.
func deriveResult(in ResultInput) (*models.Result, error) {
	res := &models.Result{
		RegistrationID: in.RegistrationID,
		Attended:       in.Attended,
	}

	if !in.Attended {
		res.Remarks = in.Remarks
		if res.Remarks == "" {
			res.Remarks = models.AbsenceRemarks
		}
		return res, nil
	}

	if in.Position != nil && *in.Position < 1 {
		return nil, errors.New("position must be a positive integer")
	}
	res.Position = in.Position
	res.Points = in.Points
	res.Remarks = in.Remarks
	return res, nil
}

// bindResultInputs reads the bulk scoring payload keyed by registration id.
func bindResultInputs(c echo.Context) (map[int]ResultInput, error) {
	var inputs []ResultInput
	if err := c.Bind(&inputs); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	byReg := make(map[int]ResultInput, len(inputs))
	for _, in := range inputs {
		if in.RegistrationID <= 0 {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "registrationID is required on every entry")
		}
		byReg[in.RegistrationID] = in
	}
	return byReg, nil
}

// eventRegistrations loads all registrations of an event, 404ing when the
// event itself does not exist.
func (h *Handler) eventRegistrations(c echo.Context, eventID int) ([]models.Registration, error) {
	ctx := c.Request().Context()

	exists, err := h.db.NewSelect().Model((*models.Event)(nil)).
		Where("id = ?", eventID).
		Exists(ctx)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return nil, echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	var regs []models.Registration
	err = h.db.NewSelect().Model(&regs).
		Where("rg.event_id = ?", eventID).
		OrderExpr("rg.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return regs, nil
}

// AddResults records a result for every registration of the event. Admin
// only. Registrations that already carry a result are left untouched, so a
// repeated add never duplicates or overwrites rows – overwriting is the
// update path's job.
func (h *Handler) AddResults(c echo.Context) error {
	eventID, err := idParam(c)
	if err != nil {
		return err
	}

	regs, err := h.eventRegistrations(c, eventID)
	if err != nil {
		return err
	}

	byReg, err := bindResultInputs(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
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

	for _, reg := range regs {
		in, ok := byReg[reg.ID]
		if !ok {
			// No entry submitted means the pet did not show up.
			in = ResultInput{RegistrationID: reg.ID}
		}
		in.RegistrationID = reg.ID

		res, err := deriveResult(in)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if _, err := tx.NewInsert().Model(res).
			On("CONFLICT (registration_id) DO NOTHING").
			Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.NoContent(http.StatusCreated)
}

// UpdateResults overwrites existing results for the event. Admin only. When
// the event has no results yet the caller is steered to the add path instead.
func (h *Handler) UpdateResults(c echo.Context) error {
	eventID, err := idParam(c)
	if err != nil {
		return err
	}

	regs, err := h.eventRegistrations(c, eventID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	count, err := h.db.NewSelect().
		TableExpr("results AS r").
		Join("INNER JOIN registrations rg ON rg.id = r.registration_id").
		Where("rg.event_id = ?", eventID).
		Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return echo.NewHTTPError(http.StatusConflict, "no results found, please add results first")
	}

	byReg, err := bindResultInputs(c)
	if err != nil {
		return err
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

	for _, reg := range regs {
		in, ok := byReg[reg.ID]
		if !ok {
			continue
		}
		in.RegistrationID = reg.ID

		res, err := deriveResult(in)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if _, err := tx.NewUpdate().Model(res).
			Column("attended", "position", "points", "remarks").
			Where("registration_id = ?", reg.ID).
			Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.NoContent(http.StatusOK)
}

// eventResultRow is a flat scan target for the event results join.
type eventResultRow struct {
	ID       int      `bun:"id" json:"id"`
	Username string   `bun:"username" json:"username"`
	PetName  string   `bun:"pet_name" json:"petName"`
	PetType  string   `bun:"pet_type" json:"petType"`
	Attended bool     `bun:"attended" json:"attended"`
	Position *int     `bun:"position" json:"position,omitempty"`
	Points   *float64 `bun:"points" json:"points,omitempty"`
	Remarks  string   `bun:"remarks" json:"remarks"`
}

// EventResults returns all results for an event joined with registration and
// account data, in insertion order. Ranking is the caller's concern.
func (h *Handler) EventResults(c echo.Context) error {
	eventID, err := idParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.Event)(nil)).
		Where("id = ?", eventID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	var rows []eventResultRow
	err = h.db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("r.id, u.username, rg.pet_name, rg.pet_type, r.attended, r.position, r.points, r.remarks").
		Join("INNER JOIN registrations rg ON rg.id = r.registration_id").
		Join("INNER JOIN users u ON u.id = rg.user_id").
		Where("rg.event_id = ?", eventID).
		OrderExpr("r.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}

// myResultRow joins one of the caller's results with its event.
type myResultRow struct {
	EventTitle string   `bun:"title" json:"eventTitle"`
	EventDate  string   `bun:"date" json:"eventDate"`
	Attended   bool     `bun:"attended" json:"attended"`
	Position   *int     `bun:"position" json:"position,omitempty"`
	Points     *float64 `bun:"points" json:"points,omitempty"`
	Remarks    string   `bun:"remarks" json:"remarks"`
}

// MyResults returns the caller's scored outcomes across all events.
func (h *Handler) MyResults(c echo.Context) error {
	userID, _ := actor(c)

	var rows []myResultRow
	err := h.db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("e.title, e.date, r.attended, r.position, r.points, r.remarks").
		Join("INNER JOIN registrations rg ON rg.id = r.registration_id").
		Join("INNER JOIN events e ON e.id = rg.event_id").
		Where("rg.user_id = ?", userID).
		OrderExpr("r.id ASC").
		Scan(c.Request().Context(), &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
