package plan

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/plan"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a MembershipPlan by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.MembershipPlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price_cents, duration_days
		 FROM membership_plan WHERE id = ?`, id)
	entity, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.MembershipPlan{}, fmt.Errorf("membership plan not found: %w", err)
	}
	return entity, err
}

// GetByName retrieves a MembershipPlan by name.
// PRE: name is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.MembershipPlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price_cents, duration_days
		 FROM membership_plan WHERE name = ?`, name)
	entity, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.MembershipPlan{}, fmt.Errorf("membership plan not found: %w", err)
	}
	return entity, err
}

// Save persists a MembershipPlan to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.MembershipPlan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_plan (id, name, description, price_cents, duration_days)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description,
		   price_cents=excluded.price_cents, duration_days=excluded.duration_days`,
		p.ID, p.Name, p.Description, p.PriceCents, p.DurationDays)
	return err
}

// Delete removes a MembershipPlan from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM membership_plan WHERE id = ?`, id)
	return err
}

// List retrieves all MembershipPlans, cheapest first.
// PRE: none
// POST: Returns all plans ordered by price ascending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.MembershipPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price_cents, duration_days
		 FROM membership_plan ORDER BY price_cents ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.MembershipPlan
	for rows.Next() {
		entity, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of plans.
// PRE: none
// POST: Returns total plan count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM membership_plan").Scan(&count)
	return count, err
}

// scanPlan extracts a MembershipPlan from a row scanner function.
func scanPlan(scan func(dest ...interface{}) error) (domain.MembershipPlan, error) {
	var entity domain.MembershipPlan
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&entity.PriceCents,
		&entity.DurationDays,
	)
	if err != nil {
		return domain.MembershipPlan{}, err
	}
	return entity, nil
}
