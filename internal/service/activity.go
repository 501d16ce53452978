package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arthurssouza42/fit/internal/model"
)

type ActivityInput struct {
	Date        model.Date
	Description string
	DurationMin int
	CreatedAt   time.Time
}

func AddActivity(db *sql.DB, in ActivityInput) (model.Activity, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return model.Activity{}, invalid("activity description", "is required")
	}
	if in.DurationMin <= 0 {
		return model.Activity{}, invalid("duration", "must be > 0 minutes")
	}
	date, err := model.ParseDate(string(in.Date))
	if err != nil {
		return model.Activity{}, invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", in.Date)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	res, err := db.Exec(`
INSERT INTO activities(activity_date, description, duration_min, created_at)
VALUES(?, ?, ?, ?)
`, string(date), in.Description, in.DurationMin, in.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return model.Activity{}, fmt.Errorf("add activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Activity{}, fmt.Errorf("resolve activity id: %w", err)
	}
	return model.Activity{
		ID:          id,
		Date:        date,
		Description: in.Description,
		DurationMin: in.DurationMin,
		CreatedAt:   in.CreatedAt,
	}, nil
}

// ListActivities returns the activities of date in the order they were
// added. An empty date lists every activity.
func ListActivities(db *sql.DB, date model.Date) ([]model.Activity, error) {
	query := `SELECT id, activity_date, description, duration_min, created_at FROM activities`
	args := make([]any, 0, 1)
	if date != "" {
		d, err := model.ParseDate(string(date))
		if err != nil {
			return nil, invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", date)
		}
		query += ` WHERE activity_date = ?`
		args = append(args, string(d))
	}
	query += ` ORDER BY activity_date ASC, id ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	items := make([]model.Activity, 0)
	for rows.Next() {
		var (
			item       model.Activity
			date       string
			createdRaw string
		)
		if err := rows.Scan(&item.ID, &date, &item.Description, &item.DurationMin, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		item.Date = model.Date(date)
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return items, nil
}

func DeleteActivity(db *sql.DB, id int64) error {
	if id <= 0 {
		return invalid("activity id", "must be > 0")
	}
	res, err := db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{What: "activity", Ref: fmt.Sprint(id)}
	}
	return nil
}

// TotalMinutes sums the duration of activities.
func TotalMinutes(activities []model.Activity) int {
	total := 0
	for _, a := range activities {
		total += a.DurationMin
	}
	return total
}
