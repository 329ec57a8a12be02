package page

import (
	"github.com/lacasailpaese/vetrina/internal/record"
	"github.com/lacasailpaese/vetrina/internal/store"
)

// Greeting values shown on the home page.
const (
	HomeUser = "Mario"
	HomeDate = "21 Dicembre 2025"
)

// Catalogue returns every routed page.  sliderCode selects the slides shown
// on /lacasailpaese.
func Catalogue(sliderCode string) []Page {
	links := Rows(store.LinksAll, nil, record.MapLink)

	return []Page{
		{
			Name:     "index",
			Path:     "/",
			Template: "index",
			Vars: map[string]any{
				"nome_utente": HomeUser,
				"data":        HomeDate,
			},
			Data: map[string]Loader{"links": links},
		},
		{
			Name:     "about",
			Path:     "/about",
			Template: "about",
			Data:     map[string]Loader{"links": links},
		},
		{
			Name:     "slider",
			Path:     "/lacasailpaese",
			Template: "slider",
			Data: map[string]Loader{
				"slides": Rows(store.SliderByCode2, map[string]any{"code2": sliderCode}, record.MapSlider),
			},
		},
		{
			Name:     "demo",
			Path:     "/demo",
			Template: "demo",
			Data: map[string]Loader{
				"entities": Rows(store.EntitiesAll, nil, record.MapEntity),
			},
		},
	}
}
