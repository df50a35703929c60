package ocr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"healthchat/model"
	"healthchat/ocr/testutil"
)

func TestOpenAIRecognizer(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantText string
		wantErr  bool
		wantKind model.ErrorKind
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"fever 39C"}}]}`,
			wantText: "fever 39C",
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini","choices":[]}`,
			wantErr:  true,
			wantKind: model.KindDecode,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"slow down","type":"rate_limit_error","code":"rate_limit_exceeded"}}`,
			wantErr:  true,
			wantKind: model.KindStatus,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"internal","type":"server_error"}}`,
			wantErr:  true,
			wantKind: model.KindStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			rec, err := NewOpenAIRecognizer(srv.URL+"/v1", "test-key", "")
			if err != nil {
				t.Fatal(err)
			}
			text, err := rec.ExtractText(context.Background(), testutil.TestImage("note.png"))

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ExtractText: %v", err)
				}
				if text != tt.wantText {
					t.Errorf("text = %q, want %q", text, tt.wantText)
				}
				return
			}

			var re *model.RecognitionError
			if !errors.As(err, &re) {
				t.Fatalf("expected RecognitionError, got %v", err)
			}
			if re.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", re.Kind, tt.wantKind)
			}
			if re.Engine != "openai" {
				t.Errorf("engine = %q", re.Engine)
			}
		})
	}
}
