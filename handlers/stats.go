package handlers

import (
	"math"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// statRegistration is the slice of registration data statistics need.
type statRegistration struct {
	ID      int `bun:"id"`
	UserID  int `bun:"user_id"`
	EventID int `bun:"event_id"`
}

// statResult is one result row joined back to its event and owner.
type statResult struct {
	ID       int      `bun:"id"`
	EventID  int      `bun:"event_id"`
	Username string   `bun:"username"`
	Attended bool     `bun:"attended"`
	Position *int     `bun:"position"`
	Points   *float64 `bun:"points"`
}

// Winner is one of an event's top-three placements.
type Winner struct {
	Username string `json:"username"`
	Position int    `json:"position"`
}

// EventStats summarises one event's ledgers. Fees are participants times
// fee; unpaid registrations are not subtracted.
type EventStats struct {
	EventID            int      `json:"eventID"`
	EventTitle         string   `json:"eventTitle"`
	TotalParticipants  int      `json:"totalParticipants"`
	TotalFeesCollected float64  `json:"totalFeesCollected"`
	Winners            []Winner `json:"winners"`
	AvgPoints          float64  `json:"avgPoints"`
	MaxPoints          float64  `json:"maxPoints"`
	MinPoints          float64  `json:"minPoints"`
}

// ActiveUser is one of the top accounts by registration count.
type ActiveUser struct {
	Username      string `json:"username"`
	Registrations int    `json:"registrations"`
}

// Statistics is the full aggregate view. Global totals are true grand
// totals over all ledgers, not per-event leftovers.
type Statistics struct {
	TotalUsers         int          `json:"totalUsers"`
	TotalEvents        int          `json:"totalEvents"`
	TotalRegistrations int          `json:"totalRegistrations"`
	AttendanceRate     float64      `json:"attendanceRate"`
	MostActiveUsers    []ActiveUser `json:"mostActiveUsers"`
	Events             []EventStats `json:"events"`
}

// Statistics aggregates the ledgers into per-event and global summaries.
// Admin only. Read-only: the handler scans flat rows and computes in Go.
func (h *Handler) Statistics(c echo.Context) error {
	ctx := c.Request().Context()

	var events []models.Event
	if err := h.db.NewSelect().Model(&events).OrderExpr("e.id ASC").Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var regs []statRegistration
	err := h.db.NewSelect().
		TableExpr("registrations AS rg").
		ColumnExpr("rg.id, rg.user_id, rg.event_id").
		Scan(ctx, &regs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var results []statResult
	err = h.db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("r.id, rg.event_id, u.username, r.attended, r.position, r.points").
		Join("INNER JOIN registrations rg ON rg.id = r.registration_id").
		Join("INNER JOIN users u ON u.id = rg.user_id").
		Scan(ctx, &results)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalUsers, err := h.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	usernames := make(map[int]string)
	var userRows []struct {
		ID       int    `bun:"id"`
		Username string `bun:"username"`
	}
	err = h.db.NewSelect().
		TableExpr("users").
		ColumnExpr("id, username").
		Scan(ctx, &userRows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, u := range userRows {
		usernames[u.ID] = u.Username
	}

	return c.JSON(http.StatusOK, computeStatistics(events, regs, results, totalUsers, usernames))
}

// computeStatistics folds the scanned ledgers into the aggregate view.
func computeStatistics(events []models.Event, regs []statRegistration, results []statResult, totalUsers int, usernames map[int]string) *Statistics {
	stats := &Statistics{
		TotalUsers:         totalUsers,
		TotalEvents:        len(events),
		TotalRegistrations: len(regs),
		MostActiveUsers:    mostActiveUsers(regs, usernames),
		AttendanceRate:     attendanceRate(results),
		Events:             make([]EventStats, 0, len(events)),
	}

	regsByEvent := make(map[int]int)
	for _, r := range regs {
		regsByEvent[r.EventID]++
	}
	resultsByEvent := make(map[int][]statResult)
	for _, r := range results {
		resultsByEvent[r.EventID] = append(resultsByEvent[r.EventID], r)
	}

	for _, event := range events {
		participants := regsByEvent[event.ID]
		es := EventStats{
			EventID:            event.ID,
			EventTitle:         event.Title,
			TotalParticipants:  participants,
			TotalFeesCollected: float64(participants) * event.Fee,
			Winners:            topWinners(resultsByEvent[event.ID], 3),
		}
		es.AvgPoints, es.MaxPoints, es.MinPoints = pointsAggregate(resultsByEvent[event.ID])
		stats.Events = append(stats.Events, es)
	}

	return stats
}

// topWinners returns up to limit placed results ordered by position
// ascending, ties broken by result id so the order is deterministic.
func topWinners(results []statResult, limit int) []Winner {
	placed := make([]statResult, 0, len(results))
	for _, r := range results {
		if r.Position != nil {
			placed = append(placed, r)
		}
	}
	sort.Slice(placed, func(i, j int) bool {
		if *placed[i].Position != *placed[j].Position {
			return *placed[i].Position < *placed[j].Position
		}
		return placed[i].ID < placed[j].ID
	})

	if len(placed) > limit {
		placed = placed[:limit]
	}
	winners := make([]Winner, 0, len(placed))
	for _, r := range placed {
		winners = append(winners, Winner{Username: r.Username, Position: *r.Position})
	}
	return winners
}

// pointsAggregate averages scored points, skipping absentees' nil points.
// All three aggregates default to zero when nothing was scored.
func pointsAggregate(results []statResult) (avg, max, min float64) {
	count := 0
	var sum float64
	for _, r := range results {
		if r.Points == nil {
			continue
		}
		p := *r.Points
		if count == 0 {
			max, min = p, p
		} else {
			if p > max {
				max = p
			}
			if p < min {
				min = p
			}
		}
		sum += p
		count++
	}
	if count == 0 {
		return 0, 0, 0
	}
	return round2(sum / float64(count)), max, min
}

// attendanceRate is the attended percentage over all results, 0 when none.
func attendanceRate(results []statResult) float64 {
	if len(results) == 0 {
		return 0
	}
	attended := 0
	for _, r := range results {
		if r.Attended {
			attended++
		}
	}
	return round2(float64(attended) / float64(len(results)) * 100)
}

// mostActiveUsers ranks accounts by registration count descending, top 5,
// ties broken by account id ascending.
func mostActiveUsers(regs []statRegistration, usernames map[int]string) []ActiveUser {
	counts := make(map[int]int)
	for _, r := range regs {
		counts[r.UserID]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > 5 {
		ids = ids[:5]
	}
	out := make([]ActiveUser, 0, len(ids))
	for _, id := range ids {
		out = append(out, ActiveUser{Username: usernames[id], Registrations: counts[id]})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
