package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams returns the named path parameter with a trailing ".json" removed.
func ExtractIDFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	return strings.TrimSuffix(params.ByName(paramName), ".json")
}
