package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"healthchat/config"
	appmodel "healthchat/model"
	"healthchat/ocr/testutil"
)

func newTestView(t *testing.T, throttle bool) (AppView, *appmodel.Model) {
	t.Helper()

	cfg := config.Default()
	cfg.Chat.InputThrottle = throttle

	m := appmodel.NewModel(
		appmodel.NewSession(),
		&testutil.MockRecognizer{Text: "rash on left arm"},
		&testutil.MockAnalyzer{Description: "Looks like contact dermatitis."},
		appmodel.DefaultOptions(),
	)

	a := NewAppView(cfg, m)
	updated, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppView), m
}

func pressEnter(t *testing.T, a AppView) (AppView, tea.Cmd) {
	t.Helper()
	updated, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(AppView), cmd
}

func TestSubmitAppendsTurn(t *testing.T) {
	a, m := newTestView(t, false)
	a.textarea.SetValue("I have a migraine")

	a, cmd := pressEnter(t, a)

	if cmd == nil {
		t.Fatal("expected a command for the new turn")
	}
	msgs := m.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "I have a migraine" {
		t.Errorf("user text = %q", msgs[0].Text)
	}
	if msgs[1].Status != appmodel.StatusPending {
		t.Errorf("assistant status = %v, want pending", msgs[1].Status)
	}
	if a.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", a.textarea.Value())
	}
}

func TestSubmitGating(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		image    bool
		wantMsgs int
		wantText string
	}{
		{name: "empty", input: "", wantMsgs: 0},
		{name: "whitespace only", input: "   \n ", wantMsgs: 0},
		{name: "image only", input: "", image: true, wantMsgs: 2, wantText: ""},
		{name: "whitespace with image", input: "  ", image: true, wantMsgs: 2, wantText: ""},
		{name: "text", input: "fever since monday", wantMsgs: 2, wantText: "fever since monday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newTestView(t, false)
			a.textarea.SetValue(tt.input)
			if tt.image {
				m.AttachImage(testutil.TestImage("note.png"))
			}

			pressEnter(t, a)

			msgs := m.Snapshot()
			if len(msgs) != tt.wantMsgs {
				t.Fatalf("expected %d messages, got %d", tt.wantMsgs, len(msgs))
			}
			if tt.wantMsgs == 0 {
				return
			}
			if msgs[0].Text != tt.wantText {
				t.Errorf("user text = %q, want %q", msgs[0].Text, tt.wantText)
			}
			if tt.image && (msgs[0].Image == nil || msgs[0].Image.Name != "note.png") {
				t.Errorf("image not attached to user message: %+v", msgs[0].Image)
			}
		})
	}
}

func TestInputThrottle(t *testing.T) {
	tests := []struct {
		name     string
		throttle bool
		wantMsgs int
	}{
		{name: "throttled", throttle: true, wantMsgs: 2},
		{name: "unthrottled", throttle: false, wantMsgs: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newTestView(t, tt.throttle)

			a.textarea.SetValue("first")
			a, _ = pressEnter(t, a)
			a.textarea.SetValue("second")
			pressEnter(t, a)

			if got := len(m.Snapshot()); got != tt.wantMsgs {
				t.Errorf("expected %d messages, got %d", tt.wantMsgs, got)
			}
		})
	}
}

func TestImageNotReusedByNextSend(t *testing.T) {
	a, m := newTestView(t, false)
	m.AttachImage(testutil.TestImage("rash.png"))

	a, _ = pressEnter(t, a)
	if strings.Contains(a.View(), "rash.png (") {
		t.Error("attachment line still shown after the image was sent")
	}

	a.textarea.SetValue("also I have a fever")
	pressEnter(t, a)

	msgs := m.Snapshot()
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Image == nil {
		t.Error("first turn lost its image")
	}
	if msgs[2].Image != nil {
		t.Errorf("second turn reused image %q", msgs[2].Image.Name)
	}
	if msgs[2].Text != "also I have a fever" {
		t.Errorf("second user text = %q", msgs[2].Text)
	}
}

func TestDetachImageKey(t *testing.T) {
	a, m := newTestView(t, false)
	m.AttachImage(testutil.TestImage("scan.jpg"))

	updated, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("A"), Alt: true})
	_ = updated.(AppView)

	if m.PendingImage() != nil {
		t.Error("expected pending image to be detached")
	}
}

func TestImageLoadedMsg(t *testing.T) {
	a, m := newTestView(t, false)

	updated, _ := a.Update(imageLoadedMsg{Path: "/tmp/x.txt", Err: errors.New("file is not a supported image")})
	a = updated.(AppView)
	if !a.showAcknowledgeModal || a.acknowledgeModalType != ModalTypeError {
		t.Error("expected an error modal for a failed load")
	}
	if m.PendingImage() != nil {
		t.Error("failed load must not attach anything")
	}

	img := testutil.TestImage("ok.png")
	updated, _ = a.Update(imageLoadedMsg{Path: "/tmp/ok.png", Image: img})
	if m.PendingImage() != img {
		t.Error("expected image to be attached")
	}
}

func TestMarkdownRenderedMsg(t *testing.T) {
	a, _ := newTestView(t, false)
	a.renderRequested[7] = true

	updated, _ := a.Update(markdownRenderedMsg{ID: 7, Width: a.width - 1, Rendered: "stale"})
	a = updated.(AppView)
	if _, ok := a.rendered[7]; ok {
		t.Error("render for another width must be ignored")
	}

	updated, _ = a.Update(markdownRenderedMsg{ID: 8, Width: a.width, Rendered: "unrequested"})
	a = updated.(AppView)
	if _, ok := a.rendered[8]; ok {
		t.Error("render that was never requested must be ignored")
	}

	updated, _ = a.Update(markdownRenderedMsg{ID: 7, Width: a.width, Rendered: "fresh"})
	a = updated.(AppView)
	if a.rendered[7] != "fresh" {
		t.Errorf("rendered = %q, want fresh", a.rendered[7])
	}
}

func TestClearResetsView(t *testing.T) {
	a, m := newTestView(t, false)
	a.textarea.SetValue("cough")
	a, _ = pressEnter(t, a)
	a.rendered[2] = "x"
	a.renderRequested[2] = true

	updated, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l"), Alt: true})
	a = updated.(AppView)

	if len(m.Snapshot()) != 0 {
		t.Error("expected history to be cleared")
	}
	if len(a.rendered) != 0 || len(a.renderRequested) != 0 {
		t.Error("expected render cache to be cleared")
	}
}

func TestStatusNoteExpiry(t *testing.T) {
	a, _ := newTestView(t, false)

	updated, _ := a.Update(clipboardMsg{What: "last reply"})
	a = updated.(AppView)
	if a.statusNote != "Copied last reply" {
		t.Fatalf("statusNote = %q", a.statusNote)
	}

	updated, _ = a.Update(statusNoteExpiredMsg{note: "something older"})
	a = updated.(AppView)
	if a.statusNote == "" {
		t.Error("an older expiry must not clear a newer note")
	}

	updated, _ = a.Update(statusNoteExpiredMsg{note: "Copied last reply"})
	a = updated.(AppView)
	if a.statusNote != "" {
		t.Errorf("statusNote = %q, want empty", a.statusNote)
	}
}

func TestViewShowsAttachment(t *testing.T) {
	a, m := newTestView(t, false)
	m.AttachImage(testutil.TestImage("lab-results.png"))

	if !strings.Contains(a.View(), "lab-results.png") {
		t.Error("expected attachment name in the view")
	}
}
