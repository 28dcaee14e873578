package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

func registerBody() petRequest {
	return petRequest{PetName: "Buddy", PetType: "Dog", PetAge: 3}
}

func TestRegister_CreatesUnpaidRegistration(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)

	c, _ := newJSONContext(t, http.MethodPost, "/api/events/1/register", registerBody())
	asActor(c, user.ID, false)
	setID(c, event.ID)
	require.NoError(t, h.Register(c))

	reg := &models.Registration{}
	require.NoError(t, h.db.NewSelect().Model(reg).Where("user_id = ?", user.ID).Scan(context.Background()))
	assert.Equal(t, event.ID, reg.EventID)
	assert.Equal(t, "Buddy", reg.PetName)
	assert.False(t, reg.Paid, "new registrations start unpaid")
	assert.False(t, reg.Timestamp.IsZero())
}

func TestRegister_SecondAttemptConflicts(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)

	c, _ := newJSONContext(t, http.MethodPost, "/api/events/1/register", registerBody())
	asActor(c, user.ID, false)
	setID(c, event.ID)
	require.NoError(t, h.Register(c))

	c, _ = newJSONContext(t, http.MethodPost, "/api/events/1/register", registerBody())
	asActor(c, user.ID, false)
	setID(c, event.ID)
	err := h.Register(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	count, err2 := h.db.NewSelect().Model((*models.Registration)(nil)).Count(context.Background())
	require.NoError(t, err2)
	assert.Equal(t, 1, count, "retrying must not create a second row")
}

func TestRegister_AdminForbidden(t *testing.T) {
	h := newTestHandler(t)
	admin := seedUser(t, h.db, "admin", "admin@test.io", true)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)

	c, _ := newJSONContext(t, http.MethodPost, "/api/events/1/register", registerBody())
	asActor(c, admin.ID, true)
	setID(c, event.ID)

	err := h.Register(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestRegister_UnknownEvent(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/events/99/register", registerBody())
	asActor(c, user.ID, false)
	setID(c, 99)

	err := h.Register(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestRegister_ValidatesPetFields(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)

	bad := []petRequest{
		{PetName: "", PetType: "Dog", PetAge: 3},
		{PetName: "Buddy", PetType: "", PetAge: 3},
		{PetName: "Buddy", PetType: "Dog", PetAge: -1},
	}
	for _, body := range bad {
		c, _ := newJSONContext(t, http.MethodPost, "/api/events/1/register", body)
		asActor(c, user.ID, false)
		setID(c, event.ID)
		err := h.Register(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	}
}

func TestPay_OwnerFlipsPaid(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)
	reg := seedRegistration(t, h.db, user, event, "Buddy")

	c, _ := newJSONContext(t, http.MethodPost, "/api/registrations/1/pay", nil)
	asActor(c, user.ID, false)
	setID(c, reg.ID)
	require.NoError(t, h.Pay(c))

	got := &models.Registration{}
	require.NoError(t, h.db.NewSelect().Model(got).Where("rg.id = ?", reg.ID).Scan(context.Background()))
	assert.True(t, got.Paid)
}

func TestPay_NonOwnerForbidden(t *testing.T) {
	h := newTestHandler(t)
	owner := seedUser(t, h.db, "alice", "alice@test.io", false)
	other := seedUser(t, h.db, "bob", "bob@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)
	reg := seedRegistration(t, h.db, owner, event, "Buddy")

	c, _ := newJSONContext(t, http.MethodPost, "/api/registrations/1/pay", nil)
	asActor(c, other.ID, false)
	setID(c, reg.ID)

	err := h.Pay(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestVerifyPayment_SetsPaidRegardlessOfOwner(t *testing.T) {
	h := newTestHandler(t)
	owner := seedUser(t, h.db, "alice", "alice@test.io", false)
	admin := seedUser(t, h.db, "admin", "admin@test.io", true)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)
	reg := seedRegistration(t, h.db, owner, event, "Buddy")

	c, _ := newJSONContext(t, http.MethodPost, "/api/registrations/1/verify", nil)
	asActor(c, admin.ID, true)
	setID(c, reg.ID)
	require.NoError(t, h.VerifyPayment(c))

	got := &models.Registration{}
	require.NoError(t, h.db.NewSelect().Model(got).Where("rg.id = ?", reg.ID).Scan(context.Background()))
	assert.True(t, got.Paid)
}

func TestEditRegistration_OwnerUpdatesPetFields(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)
	reg := seedRegistration(t, h.db, user, event, "Buddy")

	body := petRequest{PetName: "Rex", PetType: "Cat", PetAge: 5}
	c, _ := newJSONContext(t, http.MethodPut, "/api/registrations/1", body)
	asActor(c, user.ID, false)
	setID(c, reg.ID)
	require.NoError(t, h.EditRegistration(c))

	got := &models.Registration{}
	require.NoError(t, h.db.NewSelect().Model(got).Where("rg.id = ?", reg.ID).Scan(context.Background()))
	assert.Equal(t, "Rex", got.PetName)
	assert.Equal(t, "Cat", got.PetType)
	assert.Equal(t, 5, got.PetAge)
	assert.False(t, got.Paid, "edit preserves payment state")
}

func TestEditRegistration_NonOwnerForbidden(t *testing.T) {
	h := newTestHandler(t)
	owner := seedUser(t, h.db, "alice", "alice@test.io", false)
	other := seedUser(t, h.db, "bob", "bob@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", futureDate(), 500)
	reg := seedRegistration(t, h.db, owner, event, "Buddy")

	body := petRequest{PetName: "Rex", PetType: "Cat", PetAge: 5}
	c, _ := newJSONContext(t, http.MethodPut, "/api/registrations/1", body)
	asActor(c, other.ID, false)
	setID(c, reg.ID)

	err := h.EditRegistration(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestEditRegistration_ClosedAfterEventDate(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", pastDate(), 500)
	reg := seedRegistration(t, h.db, user, event, "Buddy")

	body := petRequest{PetName: "Rex", PetType: "Cat", PetAge: 5}
	c, _ := newJSONContext(t, http.MethodPut, "/api/registrations/1", body)
	asActor(c, user.ID, false)
	setID(c, reg.ID)

	err := h.EditRegistration(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestDeleteRegistration_CascadesToResult(t *testing.T) {
	h := newTestHandler(t)
	user := seedUser(t, h.db, "alice", "alice@test.io", false)
	event := seedEvent(t, h.db, "Spring Fling", pastDate(), 500)
	reg := seedRegistration(t, h.db, user, event, "Buddy")

	res := &models.Result{RegistrationID: reg.ID, Attended: true}
	_, err := h.db.NewInsert().Model(res).Exec(context.Background())
	require.NoError(t, err)

	c, _ := newJSONContext(t, http.MethodDelete, "/api/registrations/1", nil)
	asActor(c, 99, true)
	setID(c, reg.ID)
	require.NoError(t, h.DeleteRegistration(c))

	regCount, err := h.db.NewSelect().Model((*models.Registration)(nil)).Count(context.Background())
	require.NoError(t, err)
	resCount, err := h.db.NewSelect().Model((*models.Result)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, regCount)
	assert.Zero(t, resCount, "deleting a registration removes its result")
}

func TestEventOpen_DateOnlyComparison(t *testing.T) {
	assert.True(t, eventOpen("2026-06-15", "2026-06-15"), "same-day edits are still allowed")
	assert.True(t, eventOpen("2026-06-16", "2026-06-15"))
	assert.False(t, eventOpen("2026-06-14", "2026-06-15"))
}
