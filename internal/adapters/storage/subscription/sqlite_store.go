package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/subscription"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a UserSubscription by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.UserSubscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, start_date, end_date, is_active
		 FROM user_subscription WHERE id = ?`, id)
	entity, err := scanSubscription(row.Scan)
	if err == sql.ErrNoRows {
		return domain.UserSubscription{}, fmt.Errorf("subscription not found: %w", err)
	}
	return entity, err
}

// GetByUserID retrieves the subscription held by a user.
// PRE: userID is non-empty
// POST: Returns the entity or sql.ErrNoRows-wrapped error when the user
// has never subscribed
func (s *SQLiteStore) GetByUserID(ctx context.Context, userID string) (domain.UserSubscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, start_date, end_date, is_active
		 FROM user_subscription WHERE user_id = ?`, userID)
	entity, err := scanSubscription(row.Scan)
	if err == sql.ErrNoRows {
		return domain.UserSubscription{}, fmt.Errorf("subscription not found: %w", err)
	}
	return entity, err
}

// Save persists a UserSubscription to the database. Conflicts on either the
// row id or the user_id update the existing row, so re-subscribing never
// creates a second row for the same user.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, sub domain.UserSubscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_subscription (id, user_id, plan_id, start_date, end_date, is_active)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   plan_id=excluded.plan_id, start_date=excluded.start_date,
		   end_date=excluded.end_date, is_active=excluded.is_active`,
		sub.ID, sub.UserID, nullStr(sub.PlanID),
		sub.StartDate.Format(dateLayout), sub.EndDate.Format(dateLayout),
		boolToInt(sub.IsActive))
	return err
}

// Delete removes a UserSubscription from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_subscription WHERE id = ?`, id)
	return err
}

// ClearPlan detaches all subscriptions from a removed plan. The rows survive
// with no plan reference, mirroring how the plan catalogue can shrink without
// cancelling anyone's term.
// PRE: planID is non-empty
// POST: No subscription references planID
func (s *SQLiteStore) ClearPlan(ctx context.Context, planID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_subscription SET plan_id = NULL WHERE plan_id = ?`, planID)
	return err
}

// Count returns the total number of subscriptions.
// PRE: none
// POST: Returns total subscription count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_subscription").Scan(&count)
	return count, err
}

// scanSubscription extracts a UserSubscription from a row scanner function.
func scanSubscription(scan func(dest ...interface{}) error) (domain.UserSubscription, error) {
	var entity domain.UserSubscription
	var planID sql.NullString
	var startDate, endDate string
	var isActive int
	err := scan(
		&entity.ID,
		&entity.UserID,
		&planID,
		&startDate,
		&endDate,
		&isActive,
	)
	if err != nil {
		return domain.UserSubscription{}, err
	}
	if planID.Valid {
		entity.PlanID = planID.String
	}
	entity.StartDate, _ = parseDate(startDate)
	entity.EndDate, _ = parseDate(endDate)
	entity.IsActive = isActive != 0
	return entity, nil
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		dateLayout,
		time.RFC3339,
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date: %s", s)
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
