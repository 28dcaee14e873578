// cmd/migrate/main.go
// Imports data from the legacy Pet Haven MySQL database into the local
// PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/pethaven?parseTime=true" \
//	DB_PASS="pgpass" JWT_SECRET=x ADMIN_PASSWORD=x \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/ManrajDhatt/Pet-Haven/config"
	bundb "github.com/ManrajDhatt/Pet-Haven/db"
	"github.com/ManrajDhatt/Pet-Haven/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/pethaven?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"events", func() (int, error) { return migrateEvents(ctx, myDB, pgDB) }},
		{"registrations", func() (int, error) { return migrateRegistrations(ctx, myDB, pgDB) }},
		{"results", func() (int, error) { return migrateResults(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func flush[T any](ctx context.Context, pgDB *bun.DB, batch *[]T, total *int) error {
	if err := bulkInsert(ctx, pgDB, *batch); err != nil {
		return err
	}
	*total += len(*batch)
	*batch = (*batch)[:0]
	return nil
}

// --- per-table migrations ---

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, email, password, is_admin FROM user")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.User
	total := 0
	for rows.Next() {
		var r models.User
		if err := rows.Scan(&r.ID, &r.Username, &r.Email, &r.Password, &r.IsAdmin); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := flush(ctx, pgDB, &batch, &total); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := flush(ctx, pgDB, &batch, &total); err != nil {
		return total, err
	}
	return total, nil
}

func migrateEvents(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, title, description, date, location, prizes, eligibility, fee, image_filename FROM event")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Event
	total := 0
	for rows.Next() {
		var r models.Event
		var fee sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Date, &r.Location,
			&r.Prizes, &r.Eligibility, &fee, &r.ImageURL); err != nil {
			return total, err
		}
		r.Fee = models.DefaultEventFee
		if f := nullFloat(fee); f != nil {
			r.Fee = *f
		}
		if r.ImageURL == "" {
			r.ImageURL = models.DefaultEventImage
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := flush(ctx, pgDB, &batch, &total); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := flush(ctx, pgDB, &batch, &total); err != nil {
		return total, err
	}
	return total, nil
}

func migrateRegistrations(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, user_id, event_id, pet_name, pet_type, pet_age, paid, timestamp FROM registration")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Registration
	total := 0
	for rows.Next() {
		var r models.Registration
		var ts sql.NullTime
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.PetName, &r.PetType,
			&r.PetAge, &r.Paid, &ts); err != nil {
			return total, err
		}
		if ts.Valid {
			r.Timestamp = ts.Time
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := flush(ctx, pgDB, &batch, &total); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := flush(ctx, pgDB, &batch, &total); err != nil {
		return total, err
	}
	return total, nil
}

func migrateResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, registration_id, attended, position, points, remarks FROM result")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Result
	total := 0
	for rows.Next() {
		var r models.Result
		var pos sql.NullInt64
		var pts sql.NullFloat64
		var remarks sql.NullString
		if err := rows.Scan(&r.ID, &r.RegistrationID, &r.Attended, &pos, &pts, &remarks); err != nil {
			return total, err
		}
		r.Position = nullInt(pos)
		r.Points = nullFloat(pts)
		if remarks.Valid {
			r.Remarks = remarks.String
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := flush(ctx, pgDB, &batch, &total); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := flush(ctx, pgDB, &batch, &total); err != nil {
		return total, err
	}
	return total, nil
}

// resetSequences bumps each serial sequence past the imported ids so new
// inserts don't collide.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	for _, table := range []string{"users", "events", "registrations", "results"} {
		stmt := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE(MAX(id), 1)) FROM " + table
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			log.Printf("reset sequence %s: %v", table, err)
		}
	}
}
