package realtime

import "testing"

func TestDecodeClientFrame(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "join_room",
			data: `{"type":"join_room","event_id":"e1","nickname":"Alice"}`,
		},
		{
			name: "join_room without nickname",
			data: `{"type":"join_room","event_id":"e1"}`,
		},
		{
			name:    "join_room missing event_id",
			data:    `{"type":"join_room"}`,
			wantErr: true,
		},
		{
			name: "send_message",
			data: `{"type":"send_message","event_id":"e1","nickname":"Alice","content":"hi"}`,
		},
		{
			name:    "send_message missing content",
			data:    `{"type":"send_message","event_id":"e1","nickname":"Alice"}`,
			wantErr: true,
		},
		{
			name:    "send_message blank content",
			data:    `{"type":"send_message","event_id":"e1","content":"   "}`,
			wantErr: true,
		},
		{
			name:    "unknown type",
			data:    `{"type":"leave_room","event_id":"e1"}`,
			wantErr: true,
		},
		{
			name:    "missing type",
			data:    `{"event_id":"e1"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			data:    `{"type":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := DecodeClientFrame([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got frame %+v", frame)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if frame.EventID != "e1" {
				t.Errorf("unexpected event id %q", frame.EventID)
			}
		})
	}
}
