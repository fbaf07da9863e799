package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listNames collects the key field of every item in a list response.
func listNames(t *testing.T, resp testResponse, key string) []string {
	t.Helper()

	list, ok := resp.Data(t)["list"].([]interface{})
	require.True(t, ok, "body: %s", resp.Body)

	names := make([]string, len(list))
	for i, item := range list {
		food, ok := item.(map[string]interface{})
		require.True(t, ok)
		names[i], _ = food[key].(string)
	}
	return names
}

func TestHighProteinHandler(t *testing.T) {
	api := createTestApi(t)
	token := registerTestUser(t, api, "alice")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"defaults keep table order", "", []string{"Chicken breast", "Tuna in water", "Egg white"}},
		{"sorted by ratio", "&sort_by=protein_to_calories", []string{"Tuna in water", "Egg white", "Chicken breast"}},
		{"sorted by name", "&sort_by=name", []string{"Chicken breast", "Egg white", "Tuna in water"}},
		{"higher threshold", "&min_protein_ratio=0.2&sort_by=name", []string{"Egg white", "Tuna in water"}},
		{"zero threshold includes low protein foods", "&min_protein_ratio=0", []string{"Chicken breast", "Rice, boiled", "Tuna in water", "Cheddar", "Egg white"}},
		{"search term", "&search_term=EGG", []string{"Egg white"}},
		{"no matches", "&search_term=pizza", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callAPI(t, api, http.MethodGet, "/api/high-protein.json?key=TEST"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
			assert.Equal(t, tt.want, listNames(t, resp, "Name"))
		})
	}
}

func TestHighProteinHandler_RecordShape(t *testing.T) {
	api := createTestApi(t)
	token := registerTestUser(t, api, "alice")

	resp := callAPI(t, api, http.MethodGet, "/api/high-protein.json?key=TEST&search_term=tuna&min_protein_ratio=0.15", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	data := resp.Data(t)
	assert.Equal(t, 0.15, data["minProteinRatio"])
	assert.Equal(t, "", data["sortBy"])
	assert.Equal(t, "tuna", data["searchTerm"])

	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)

	tuna, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Tuna in water", tuna["Name"])
	assert.Equal(t, 115.92, tuna["Calories"])
	assert.Equal(t, 26.0, tuna["Protein"])
	assert.Equal(t, 0.22, tuna["Protein_to_Calories"])
}

func TestHighProteinHandler_InvalidParameters(t *testing.T) {
	api := createTestApi(t)
	token := registerTestUser(t, api, "alice")

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"non-numeric ratio", "&min_protein_ratio=high", "min_protein_ratio"},
		{"negative ratio", "&min_protein_ratio=-0.5", "min_protein_ratio"},
		{"unknown sort", "&sort_by=calories", "sort_by"},
		{"dangerous search", "&search_term=%3Cscript%3E", "search_term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callAPI(t, api, http.MethodGet, "/api/high-protein.json?key=TEST"+tt.query, token, nil)
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Contains(t, resp.FieldErrors(t), tt.field)
		})
	}
}

func TestHighProteinHandler_RequiresUser(t *testing.T) {
	api := createTestApi(t)

	resp := callAPI(t, api, http.MethodGet, "/api/high-protein.json?key=TEST", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestFoodSuggestionsHandler(t *testing.T) {
	api := createTestApi(t)
	token := registerTestUser(t, api, "alice")

	resp := callAPI(t, api, http.MethodGet, "/api/food-suggestions.json?key=TEST&q=chkn", token, nil)
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	assert.Equal(t, []string{"Chicken breast"}, listNames(t, resp, "name"))
	assert.Equal(t, false, resp.Data(t)["limitExceeded"])

	resp = callAPI(t, api, http.MethodGet, "/api/food-suggestions.json?key=TEST&q=e&limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, listNames(t, resp, "name"), 2)
	assert.Equal(t, true, resp.Data(t)["limitExceeded"])

	resp = callAPI(t, api, http.MethodGet, "/api/food-suggestions.json?key=TEST", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, listNames(t, resp, "name"), "an empty query suggests nothing")
}

func TestFoodSuggestionsHandler_InvalidLimit(t *testing.T) {
	api := createTestApi(t)
	token := registerTestUser(t, api, "alice")

	for _, limit := range []string{"0", "51", "ten"} {
		resp := callAPI(t, api, http.MethodGet, "/api/food-suggestions.json?key=TEST&q=egg&limit="+limit, token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Status, limit)
		assert.Contains(t, resp.FieldErrors(t), "limit")
	}
}
