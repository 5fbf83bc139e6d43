package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecode_SourceTranscriptUpdate(t *testing.T) {
	raw := `{"type":"source_transcript_update","concluded":[{"text":"Hello","start_time":0.1,"end_time":0.8}],"tentative":[{"text":"wor","start_time":0.9,"end_time":1.1}]}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Type != EventSourceTranscriptUpdate {
		t.Fatalf("unexpected type: %s", ev.Type)
	}
	if len(ev.Concluded) != 1 || ev.Concluded[0].Text != "Hello" {
		t.Fatalf("unexpected concluded segments: %+v", ev.Concluded)
	}
	if len(ev.Tentative) != 1 || ev.Tentative[0].Text != "wor" {
		t.Fatalf("unexpected tentative segments: %+v", ev.Tentative)
	}
	if ev.Concluded[0].StartTime != 0.1 || ev.Concluded[0].EndTime != 0.8 {
		t.Fatalf("unexpected segment times: %+v", ev.Concluded[0])
	}
}

func TestDecode_TargetTranscriptUpdateRequiresLanguage(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"target_transcript_update"}`)); err == nil {
		t.Fatal("expected error for missing language")
	}
	ev, err := Decode([]byte(`{"type":"target_transcript_update","language":"ja","concluded":[{"text":"こんにちは"}]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Language != "ja" {
		t.Fatalf("unexpected language: %s", ev.Language)
	}
}

func TestDecode_EndOfTargetTranscriptRequiresLanguage(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"end_of_target_transcript"}`)); err == nil {
		t.Fatal("expected error for missing language")
	}
}

func TestDecode_ErrorEvent(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"error","code":4001,"message":"quota exceeded"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Code != 4001 || ev.Message != "quota exceeded" {
		t.Fatalf("unexpected error payload: %+v", ev)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"wat"}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestEndOfSourceFrame(t *testing.T) {
	var frame struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(EndOfSourceFrame(), &frame); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	if frame.Type != "end_of_source" {
		t.Fatalf("unexpected frame type: %s", frame.Type)
	}
}
