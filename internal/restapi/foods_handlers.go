package restapi

import (
	"net/http"

	"macrotrack.app/internal/catalog"
	"macrotrack.app/internal/models"
	"macrotrack.app/internal/nutrition"
	"macrotrack.app/internal/utils"
)

func (api *RestAPI) highProteinHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	searchTerm, err := utils.ValidateAndSanitizeQuery(params.Get("search_term"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"search_term": {err.Error()}})
		return
	}

	q, err := nutrition.ParseQuery(params.Get("min_protein_ratio"), params.Get("sort_by"), searchTerm)
	if err != nil {
		api.invalidParameterResponse(w, r, err)
		return
	}

	ranked, err := api.Catalog.HighProtein(q)
	if err != nil {
		api.invalidParameterResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewHighProteinData(q, ranked)))
}

func (api *RestAPI) foodSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	term, err := utils.ValidateAndSanitizeQuery(params.Get("q"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"q": {err.Error()}})
		return
	}

	limit, fieldErrors := utils.ParseIntParam(params, "limit", catalog.DefaultSuggestionLimit, nil)
	if limit < 1 || limit > catalog.MaxSuggestionLimit {
		fieldErrors["limit"] = append(fieldErrors["limit"], "limit must be between 1 and 50")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	suggestions := api.Catalog.Suggest(term, limit+1)
	limitExceeded := len(suggestions) > limit
	if limitExceeded {
		suggestions = suggestions[:limit]
	}

	api.sendResponse(w, r, models.NewListResponse(suggestions, limitExceeded))
}
