package ocr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"healthchat/model"
	"healthchat/ocr/testutil"
)

func TestTesseractExtractText(t *testing.T) {
	var gotName string
	var gotArgs []string
	var gotStdin []byte

	rec := NewTesseractRecognizer("", "")
	rec.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	rec.run = func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
		gotName, gotArgs, gotStdin = name, args, stdin
		return []byte("fever\n"), nil
	}

	img := testutil.TestImage("note.png")
	text, err := rec.ExtractText(context.Background(), img)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "fever\n" {
		t.Errorf("text = %q", text)
	}
	if gotName != "/usr/bin/tesseract" {
		t.Errorf("binary = %q", gotName)
	}
	want := []string{"stdin", "stdout", "-l", "eng"}
	if fmt.Sprint(gotArgs) != fmt.Sprint(want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
	if string(gotStdin) != string(img.Data) {
		t.Error("image bytes not passed on stdin")
	}
}

func TestTesseractErrors(t *testing.T) {
	tests := []struct {
		name     string
		lookErr  error
		runErr   error
		ctx      func() (context.Context, context.CancelFunc)
		wantKind model.ErrorKind
	}{
		{
			name:     "binary missing",
			lookErr:  errors.New("executable file not found"),
			wantKind: model.KindUnavailable,
		},
		{
			name:     "unreadable image",
			runErr:   fmt.Errorf("%w: exit status 1: Error in pixReadStream", errProcessFailed),
			wantKind: model.KindDecode,
		},
		{
			name:     "pipe broken",
			runErr:   errors.New("write |1: broken pipe"),
			wantKind: model.KindNetwork,
		},
		{
			name:   "deadline",
			runErr: fmt.Errorf("%w: signal: killed", errProcessFailed),
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithTimeout(context.Background(), 0)
				return ctx, cancel
			},
			wantKind: model.KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewTesseractRecognizer("tesseract", "eng")
			rec.lookPath = func(name string) (string, error) { return name, tt.lookErr }
			rec.run = func(context.Context, string, []string, []byte) ([]byte, error) {
				return nil, tt.runErr
			}

			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			_, err := rec.ExtractText(ctx, testutil.TestImage("x.png"))
			var re *model.RecognitionError
			if !errors.As(err, &re) {
				t.Fatalf("expected RecognitionError, got %v", err)
			}
			if re.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", re.Kind, tt.wantKind)
			}
			if re.Engine != "tesseract" {
				t.Errorf("engine = %q", re.Engine)
			}
		})
	}
}
