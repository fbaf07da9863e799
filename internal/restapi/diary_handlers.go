package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"macrotrack.app/fooddb"
	"macrotrack.app/internal/logging"
	"macrotrack.app/internal/models"
	"macrotrack.app/internal/nutrition"
	"macrotrack.app/internal/utils"
)

type createEntryRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	// Per100g overrides the catalog lookup by name.
	Per100g *nutrition.Macros `json:"per100g"`
}

func (api *RestAPI) summaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	date, fieldErrors := utils.ParseDateParam(r.URL.Query(), "date", api.now(), nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	user, err := api.DB.GetUser(ctx, userID)
	if errors.Is(err, fooddb.ErrNotFound) {
		api.unauthorizedResponse(w, r, "account no longer exists")
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entries, err := api.DB.ListFoodEntries(ctx, userID, date)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewDaySummary(date, user.Goals, entries)))
}

func (api *RestAPI) listEntriesHandler(w http.ResponseWriter, r *http.Request) {
	date, fieldErrors := utils.ParseDateParam(r.URL.Query(), "date", api.now(), nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	entries, err := api.DB.ListFoodEntries(r.Context(), userIDFromContext(r.Context()), date)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(entries, false))
}

func (api *RestAPI) createEntryHandler(w http.ResponseWriter, r *http.Request) {
	var input createEntryRequest
	if err := readJSON(w, r, &input); err != nil {
		api.badRequestBody(w, r, err)
		return
	}

	fieldErrors := make(map[string][]string)

	input.Name = utils.SanitizeInput(input.Name)
	if err := utils.ValidateFoodName(input.Name); err != nil {
		fieldErrors["name"] = append(fieldErrors["name"], err.Error())
	}
	if input.Date == "" {
		input.Date = api.now().UTC().Format(utils.DateLayout)
	} else if err := utils.ValidateDate(input.Date); err != nil {
		fieldErrors["date"] = append(fieldErrors["date"], err.Error())
	}

	var per100g nutrition.Macros
	switch {
	case input.Per100g != nil:
		per100g = *input.Per100g
	case input.Name != "":
		food, ok := api.Catalog.FindFood(input.Name)
		if !ok {
			fieldErrors["name"] = append(fieldErrors["name"], "food not found in the nutrition table, provide per100g values")
		} else if food.HasMissingValue() {
			fieldErrors["name"] = append(fieldErrors["name"], "nutrition table has no complete values for this food, provide per100g values")
		} else {
			per100g = nutrition.Macros{Calories: food.Calories, Protein: food.Protein}
		}
	}

	var eaten nutrition.Macros
	if len(fieldErrors) == 0 {
		var err error
		eaten, err = nutrition.ScalePer100g(per100g, input.Amount)
		switch {
		case errors.Is(err, nutrition.ErrInvalidPortion):
			fieldErrors["amount"] = append(fieldErrors["amount"], err.Error())
		case err != nil:
			fieldErrors["per100g"] = append(fieldErrors["per100g"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	entry, err := api.DB.CreateFoodEntry(r.Context(), fooddb.FoodEntry{
		UserID: userIDFromContext(r.Context()),
		Date:   input.Date,
		Name:   input.Name,
		Amount: input.Amount,
		Macros: eaten,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	logging.LogOperation(logging.FromContext(r.Context()), "food_entry_created",
		slog.String("entry_id", entry.ID),
		slog.String("date", entry.Date))

	api.sendCreated(w, r, map[string]interface{}{"entry": entry})
}

func (api *RestAPI) deleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	err := api.DB.DeleteFoodEntry(r.Context(), userIDFromContext(r.Context()), id)
	if errors.Is(err, fooddb.ErrNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendNoContent(w)
}

func (api *RestAPI) getGoalsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := api.DB.GetUser(r.Context(), userIDFromContext(r.Context()))
	if errors.Is(err, fooddb.ErrNotFound) {
		api.unauthorizedResponse(w, r, "account no longer exists")
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(user.Goals))
}

func (api *RestAPI) updateGoalsHandler(w http.ResponseWriter, r *http.Request) {
	var goals nutrition.Goals
	if err := readJSON(w, r, &goals); err != nil {
		api.badRequestBody(w, r, err)
		return
	}

	if fieldErrors := goals.Validate(); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	err := api.DB.UpdateGoals(r.Context(), userIDFromContext(r.Context()), goals)
	if errors.Is(err, fooddb.ErrNotFound) {
		api.unauthorizedResponse(w, r, "account no longer exists")
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(goals))
}
