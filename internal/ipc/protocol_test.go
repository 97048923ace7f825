package ipc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"MOVE_WINDOW","payload":{"id":2,"x":10,"y":20}}` + "\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Command != CommandMoveWindow {
		t.Fatalf("command = %q, want MOVE_WINDOW", req.Command)
	}
	var p MovePayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if p.ID != 2 || p.X != 10 || p.Y != 20 {
		t.Fatalf("payload = %+v", p)
	}
}

func TestParseRequestRejectsGarbage(t *testing.T) {
	if _, err := ParseRequest([]byte("not json\n")); err == nil {
		t.Fatal("ParseRequest accepted garbage")
	}
}

func TestResponseMarshal(t *testing.T) {
	resp, err := NewOKResponse(CreateWindowData{ID: 7})
	if err != nil {
		t.Fatalf("NewOKResponse failed: %v", err)
	}
	data, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Response
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Status != "OK" {
		t.Fatalf("status = %q, want OK", got.Status)
	}
	var created CreateWindowData
	if err := json.Unmarshal(got.Data, &created); err != nil {
		t.Fatalf("data decode failed: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("id = %d, want 7", created.ID)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("unknown window")
	if resp.Status != "ERROR" || resp.Error != "unknown window" {
		t.Fatalf("response = %+v", resp)
	}
}
