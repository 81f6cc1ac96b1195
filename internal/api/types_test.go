package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeUnmarshalAcceptedLayouts(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want time.Time
	}{
		"rfc3339":         {raw: `"2025-03-19T23:59:59Z"`, want: time.Date(2025, 3, 19, 23, 59, 59, 0, time.UTC)},
		"no zone":         {raw: `"2025-03-19T23:59:59"`, want: time.Date(2025, 3, 19, 23, 59, 59, 0, time.UTC)},
		"space separated": {raw: `"2025-03-19 23:59:59"`, want: time.Date(2025, 3, 19, 23, 59, 59, 0, time.UTC)},
		"date only":       {raw: `"2025-03-19"`, want: time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var d DateTime
			if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
				t.Fatalf("unmarshal %s returned error: %v", tc.raw, err)
			}
			if !d.Time.Equal(tc.want) {
				t.Errorf("got %v, want %v", d.Time, tc.want)
			}
		})
	}
}

func TestDateTimeUnmarshalRejectsGarbage(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &d); err == nil {
		t.Fatal("expected error for unrecognized datetime")
	}
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Fatal("expected error for non-string datetime")
	}
}

// The assistant emits deadlines as "2006-01-02 15:04:05", so the task
// request bodies must decode that form, not just RFC 3339.
func TestTaskRequestsDecodeAssistantDeadlines(t *testing.T) {
	var create TaskCreateRequest
	payload := []byte(`{"title":"report","description":"quarterly","deadline":"2025-03-19 23:59:59"}`)
	if err := json.Unmarshal(payload, &create); err != nil {
		t.Fatalf("create request rejected assistant deadline: %v", err)
	}
	if create.Deadline == nil || create.Deadline.Day() != 19 {
		t.Errorf("deadline not captured: %+v", create.Deadline)
	}

	var update TaskUpdateRequest
	if err := json.Unmarshal([]byte(`{"deadline":"2025-03-19"}`), &update); err != nil {
		t.Fatalf("update request rejected date-only deadline: %v", err)
	}
	if update.Deadline == nil {
		t.Error("deadline not captured on update")
	}
}

func TestDateTimeMarshalRoundTrip(t *testing.T) {
	d := DateTime{Time: time.Date(2025, 3, 19, 23, 59, 59, 0, time.UTC)}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal returned error: %v", err)
	}
	if string(out) != `"2025-03-19T23:59:59Z"` {
		t.Errorf("got %s", out)
	}
}
