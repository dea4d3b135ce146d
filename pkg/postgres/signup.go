package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// Append inserts a signup row. The identity column keeps insertion order
// for List, so concurrent appends never clobber one another.
func (d *DB) Append(ctx context.Context, category model.Category, date string, operatorName string, extra map[string]string) (*model.Signup, error) {
	if extra == nil {
		extra = map[string]string{}
	}
	info, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("failed to encode additional info: %w", err)
	}

	record := model.Signup{
		ID:           uuid.NewString(),
		OperatorName: operatorName,
		// timestamptz keeps microseconds, so truncate up front to make
		// the stored value identical to the returned one
		SignupTime: d.now().Truncate(time.Microsecond),
		Extra:      extra,
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO signup (id, category, work_date, operator_name, signup_time, additional_info)
		VALUES ($1, $2, $3::date, $4, $5, $6::jsonb)
	`, record.ID, string(category), date, record.OperatorName, record.SignupTime, string(info))
	if err != nil {
		return nil, fmt.Errorf("failed to insert signup: %w", err)
	}

	return &record, nil
}

// List returns the partition's signups in insertion order.
func (d *DB) List(ctx context.Context, category model.Category, date string) ([]model.Signup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, operator_name, signup_time, additional_info
		FROM signup
		WHERE category = $1 AND work_date = $2::date
		ORDER BY seq
	`, string(category), date)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	signups := []model.Signup{}
	for rows.Next() {
		var s model.Signup
		var signupTime time.Time
		var info []byte
		if err := rows.Scan(&s.ID, &s.OperatorName, &signupTime, &info); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		s.SignupTime = signupTime.In(d.loc)
		if err := json.Unmarshal(info, &s.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode additional info: %w", err)
		}
		signups = append(signups, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signups: %w", err)
	}

	return signups, nil
}
