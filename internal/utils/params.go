package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseIntParam reads key from params, returning defaultValue when it is absent. An
// unparsable value is recorded in fieldErrors.
func ParseIntParam(params url.Values, key string, defaultValue int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return defaultValue, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return defaultValue, fieldErrors
	}
	return n, fieldErrors
}

// ParseDateParam returns the YYYY-MM-DD value of key, defaulting to the UTC date of now.
func ParseDateParam(params url.Values, key string, now time.Time, fieldErrors map[string][]string) (string, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return now.UTC().Format(DateLayout), fieldErrors
	}

	if err := ValidateDate(val); err != nil {
		fieldErrors[key] = append(fieldErrors[key], err.Error())
		return "", fieldErrors
	}
	return val, fieldErrors
}
