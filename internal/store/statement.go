// internal/store/statement.go
//
// The fixed set of read-only statements the site runs.
//
// Column lists match the positional mappers in internal/record; update both
// together.  Every statement orders by primary key so pages list rows in a
// stable order regardless of engine.
package store

// Statement is a named SELECT known at compile time.  Named parameters use
// sqlx syntax (`:code2`).
type Statement struct {
	Name string
	SQL  string
}

var (
	// LinksAll feeds the home and about pages.
	LinksAll = Statement{
		Name: "links_all",
		SQL: `SELECT id, code, image, title, description, link, active, height, width
		      FROM   links
		      ORDER  BY id`,
	}

	// SliderByCode2 selects the slides for one page key.
	SliderByCode2 = Statement{
		Name: "slider_by_code2",
		SQL: `SELECT id, code, code2, image, title, caption, link, text
		      FROM   slider
		      WHERE  code2 = :code2
		      ORDER  BY id`,
	}

	// EntitiesAll lists the demo entities.
	EntitiesAll = Statement{
		Name: "entities_all",
		SQL: `SELECT id, name, email
		      FROM   entities
		      ORDER  BY id`,
	}
)
