package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"macrotrack.app/internal/nutrition"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

// debugSampleSize caps the number of foods dumped on the debug page.
const debugSampleSize = 50

type debugData struct {
	Title string
	Pre   string
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		webUI.Logger.Error("failed to render debug page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type debugStats struct {
	Catalog interface{}
	Tables  map[string]int
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "stats":
		stats := debugStats{Catalog: webUI.Catalog.Stats()}
		if webUI.DB != nil {
			counts, err := webUI.DB.TableCounts(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			stats.Tables = counts
		}
		data = stats
		title = "Nutrition Table - Statistics"
	case "foods":
		records := webUI.Catalog.Records()
		data = records[:min(len(records), debugSampleSize)]
		title = "Nutrition Table - Foods"
	case "high_protein":
		ranked, err := webUI.Catalog.HighProtein(nutrition.Query{
			MinProteinRatio: nutrition.DefaultMinProteinRatio,
			SortBy:          nutrition.SortByProteinToCalories,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = ranked[:min(len(ranked), debugSampleSize)]
		title = "Nutrition Table - High Protein Foods"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stats, foods, high_protein.",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, title, data)
}
