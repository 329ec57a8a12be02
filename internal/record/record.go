// internal/record/record.go
//
// Row models and their mappers.
//
// Context
// -------
// Every page query returns flat rows from exactly one table.  This package
// owns the Go shape of those rows and the functions that convert one
// scanned row into one record:
//
//   - Link    – `links` table, promotional items on the home and about pages.
//   - Slider  – `slider` table, one slide selected by `code2`.
//   - Entity  – `entities` table, demo rows for the seeded in-memory database.
//
// Mappers scan columns positionally, so the argument order in each Map*
// function must match the SELECT list in internal/store/statement.go.
// Update both together.
//
// Notes
// -----
//   - `db` tags mirror column names; the seeder uses them for NamedExec.
//   - No column is nullable.  A NULL surfaces as *RowDecodeError rather
//     than a zero value.
//   - Oxford commas, two spaces after periods.
package record

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Link mirrors one row in the `links` table.  Active is an integer flag the
// templates interpret (0 hidden, 1 shown, anything else highlighted).
type Link struct {
	ID          int64  `db:"id"`
	Code        string `db:"code"`
	ImagePath   string `db:"image"`
	Title       string `db:"title"`
	Active      int64  `db:"active"`
	Description string `db:"description"`
	TargetLink  string `db:"link"`
	Height      string `db:"height"`
	Width       string `db:"width"`
}

// Slider mirrors one row in the `slider` table.
type Slider struct {
	ID         int64  `db:"id"`
	Code       string `db:"code"`
	Code2      string `db:"code2"`
	ImagePath  string `db:"image"`
	Title      string `db:"title"`
	Caption    string `db:"caption"`
	TargetLink string `db:"link"`
	BodyText   string `db:"text"`
}

// Entity mirrors one row in the `entities` table.
type Entity struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

// Mapper converts the current row of rows into one record.  It must not
// call rows.Next.
type Mapper[T any] func(rows *sqlx.Rows) (T, error)

// RowDecodeError reports a column that could not be converted into its
// record field.
type RowDecodeError struct {
	Shape string
	Err   error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("decode %s row: %v", e.Shape, e.Err)
}

func (e *RowDecodeError) Unwrap() error { return e.Err }

// MapLink scans id, code, image, title, description, link, active, height,
// width.
func MapLink(rows *sqlx.Rows) (Link, error) {
	var l Link
	err := rows.Scan(
		&l.ID,
		&l.Code,
		&l.ImagePath,
		&l.Title,
		&l.Description,
		&l.TargetLink,
		&l.Active,
		&l.Height,
		&l.Width,
	)
	if err != nil {
		return Link{}, &RowDecodeError{Shape: "link", Err: err}
	}
	return l, nil
}

// MapSlider scans id, code, code2, image, title, caption, link, text.
func MapSlider(rows *sqlx.Rows) (Slider, error) {
	var s Slider
	err := rows.Scan(
		&s.ID,
		&s.Code,
		&s.Code2,
		&s.ImagePath,
		&s.Title,
		&s.Caption,
		&s.TargetLink,
		&s.BodyText,
	)
	if err != nil {
		return Slider{}, &RowDecodeError{Shape: "slider", Err: err}
	}
	return s, nil
}

// MapEntity scans id, name, email.
func MapEntity(rows *sqlx.Rows) (Entity, error) {
	var e Entity
	if err := rows.Scan(&e.ID, &e.Name, &e.Email); err != nil {
		return Entity{}, &RowDecodeError{Shape: "entity", Err: err}
	}
	return e, nil
}
