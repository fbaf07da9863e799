package models

import "time"

type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

// CurrentTimeData is the payload of the current time endpoint.
type CurrentTimeData struct {
	Entry CurrentTimeModel `json:"entry"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixMilli(),
		},
	}
}
