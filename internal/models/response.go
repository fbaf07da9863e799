package models

import (
	"net/http"
	"time"
)

// ResponseVersion is reported in every envelope.
const ResponseVersion = 1

// ResponseModel is the envelope around every successful response and most errors.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the current time in Unix milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     ResponseVersion,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

// NewEntryResponse wraps a single object as {"entry": ...}.
func NewEntryResponse(entry interface{}) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"entry": entry,
	})
}

// NewListResponse wraps a collection as {"list": ..., "limitExceeded": ...}.
func NewListResponse(list interface{}, limitExceeded bool) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"list":          list,
		"limitExceeded": limitExceeded,
	})
}

// NewErrorResponse is an envelope without data.
func NewErrorResponse(code int, text string) ResponseModel {
	return NewResponse(code, nil, text)
}
