package ui

import (
	"time"

	"codeberg.org/nording/hrvctl/internal/model"
)

// Frame is one outbound update pushed to every connected client.
type Frame struct {
	Type      string        `json:"type"`
	Field     string        `json:"field"`
	Value     any           `json:"value,omitempty"`
	Series    []model.Point `json:"series,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Command is one inbound client request. Only the user-control entry
// points are reachable this way; clients never mutate the model
// directly.
type Command struct {
	Type      string  `json:"type"`
	Address   string  `json:"address,omitempty"`
	Path      string  `json:"path,omitempty"`
	Overwrite bool    `json:"overwrite,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Text      string  `json:"text,omitempty"`
}

// Controls is the narrow surface a presentation adapter may drive.
type Controls interface {
	SetPacerRate(rate float64) float64
	SetHRVTarget(target int) int
	Scan() error
	Connect(address string) error
	Disconnect() error
	StartRecording(path string, overwrite bool) error
	StopRecording() error
	Annotate(text string)
}

func updateFrame(u model.Update) Frame {
	f := Frame{
		Type:      "update",
		Field:     string(u.Field),
		Timestamp: u.Time,
	}
	if u.Value.Kind() == model.KindSeries {
		f.Series = u.Value.Points()
	} else {
		f.Value = u.Value.Scalar()
	}

	return f
}
