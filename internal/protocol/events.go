package protocol

import (
	"encoding/json"
	"fmt"
)

type EventType string

const (
	EventSourceTranscriptUpdate EventType = "source_transcript_update"
	EventTargetTranscriptUpdate EventType = "target_transcript_update"
	EventEndOfSourceTranscript  EventType = "end_of_source_transcript"
	EventEndOfTargetTranscript  EventType = "end_of_target_transcript"
	EventEndOfStream            EventType = "end_of_stream"
	EventError                  EventType = "error"
)

// Segment is one transcript fragment with its time range in seconds.
type Segment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type Event struct {
	Type      EventType `json:"type"`
	Language  string    `json:"language,omitempty"`
	Concluded []Segment `json:"concluded,omitempty"`
	Tentative []Segment `json:"tentative,omitempty"`
	Code      int       `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}
	switch ev.Type {
	case EventSourceTranscriptUpdate, EventEndOfSourceTranscript, EventEndOfStream, EventError:
	case EventTargetTranscriptUpdate, EventEndOfTargetTranscript:
		if ev.Language == "" {
			return nil, fmt.Errorf("event %q is missing a language", ev.Type)
		}
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}

type endOfSourceFrame struct {
	Type string `json:"type"`
}

// EndOfSourceFrame is the control frame telling the service no more audio
// follows and transcription should be finalized.
func EndOfSourceFrame() []byte {
	b, _ := json.Marshal(endOfSourceFrame{Type: "end_of_source"})
	return b
}
