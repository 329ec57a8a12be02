// internal/database/schema.go
//
// Site schema and demo seed.
//
// Context
// -------
// The site reads three flat tables.  There are no migrations and no schema
// versions; Migrate only creates what is missing so `vetrina seed` and the
// in-memory demo mode can start from nothing.
//
//	links     (id, code, image, title, description, link, active, height, width)
//	slider    (id, code, code2, image, title, caption, link, text)
//	entities  (id, name, email)
//
// Seed inserts the demo rows only into empty tables, so running it twice is
// harmless.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lacasailpaese/vetrina/internal/record"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
	    id          INTEGER      PRIMARY KEY,
	    code        VARCHAR(64)  NOT NULL,
	    image       VARCHAR(255) NOT NULL,
	    title       VARCHAR(255) NOT NULL,
	    description TEXT         NOT NULL,
	    link        VARCHAR(255) NOT NULL,
	    active      INTEGER      NOT NULL DEFAULT 0,
	    height      VARCHAR(16)  NOT NULL,
	    width       VARCHAR(16)  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS slider (
	    id      INTEGER      PRIMARY KEY,
	    code    VARCHAR(64)  NOT NULL,
	    code2   VARCHAR(64)  NOT NULL,
	    image   VARCHAR(255) NOT NULL,
	    title   VARCHAR(255) NOT NULL,
	    caption VARCHAR(255) NOT NULL,
	    link    VARCHAR(255) NOT NULL,
	    text    TEXT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entities (
	    id    INTEGER      PRIMARY KEY,
	    name  VARCHAR(255) NOT NULL,
	    email VARCHAR(255) NOT NULL
	)`,
}

// Demo rows.  Exported so tests can assert against the same values.
var (
	DemoLinks = []record.Link{
		{ID: 1, Code: "camere", ImagePath: "img/camere.jpg", Title: "Le Camere", Active: 1,
			Description: "Sei camere con vista sulle colline.", TargetLink: "/about",
			Height: "240", Width: "320"},
		{ID: 2, Code: "cucina", ImagePath: "img/cucina.jpg", Title: "La Cucina", Active: 1,
			Description: "Piatti della tradizione, ogni sera.", TargetLink: "/lacasailpaese",
			Height: "240", Width: "320"},
	}

	DemoSlides = []record.Slider{
		{ID: 1, Code: "home", Code2: "lasala", ImagePath: "img/sala.jpg", Title: "La Sala",
			Caption: "Il cuore della casa", TargetLink: "/about", BodyText: "Un camino acceso e tavoli in legno."},
		{ID: 2, Code: "home", Code2: "giardino", ImagePath: "img/giardino.jpg", Title: "Il Giardino",
			Caption: "Verde e quiete", TargetLink: "/about", BodyText: "Ulivi, lavanda, e un pergolato."},
	}

	DemoEntities = []record.Entity{
		{ID: 1, Name: "Mario Rossi", Email: "mario@example.com"},
		{ID: 2, Name: "Lucia Bianchi", Email: "lucia@example.com"},
	}
)

// Migrate creates the site tables when absent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed fills empty tables with the demo rows.
func Seed(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		table  string
		insert string
		rows   any
	}{
		{"links", `INSERT INTO links (id, code, image, title, description, link, active, height, width)
		           VALUES (:id, :code, :image, :title, :description, :link, :active, :height, :width)`, DemoLinks},
		{"slider", `INSERT INTO slider (id, code, code2, image, title, caption, link, text)
		            VALUES (:id, :code, :code2, :image, :title, :caption, :link, :text)`, DemoSlides},
		{"entities", `INSERT INTO entities (id, name, email)
		              VALUES (:id, :name, :email)`, DemoEntities},
	}

	for _, s := range steps {
		var n int
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+s.table); err != nil {
			return fmt.Errorf("seed %s: %w", s.table, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.NamedExecContext(ctx, s.insert, s.rows); err != nil {
			return fmt.Errorf("seed %s: %w", s.table, err)
		}
	}
	return nil
}
