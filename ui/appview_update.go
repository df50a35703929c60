package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"healthchat/config"
	appmodel "healthchat/model"
)

const (
	// title, blank line, attachment line, textarea and status bar
	chromeHeight   = 7
	flashInterval  = 300 * time.Millisecond
	flashCount     = 6
	statusNoteLife = 3 * time.Second
)

type statusNoteExpiredMsg struct {
	note string
}

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		widthChanged := a.width != msg.Width
		a.width = msg.Width
		a.height = msg.Height

		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-chromeHeight, 1)
		a.textarea.SetWidth(a.width)
		a.messageSearchInput.Width = min(a.width-12, 80)
		a.imagePicker.Picker.Height = max(min(a.height-14, 20), 3)

		a.ready = true
		if widthChanged {
			a.resetRenders()
		}
		a.updateViewportContent(true)
		return a, a.requestRenders()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.hasPendingReply() {
			a.updateViewportContent(a.viewport.AtBottom())
		}
		return a, cmd

	case appmodel.RecognitionDoneMsg, appmodel.AnalysisDoneMsg, appmodel.RevealTickMsg:
		follow := a.viewport.AtBottom()
		cmd := a.dataModel.Update(msg)
		a.updateViewportContent(follow)
		a.syncInputFocus()
		return a, tea.Batch(cmd, a.requestRenders())

	case markdownRenderedMsg:
		if msg.Width != a.width {
			// stale render from before a resize; requestRenders already queued a new one
			return a, nil
		}
		if !a.renderRequested[msg.ID] {
			return a, nil
		}
		a.rendered[msg.ID] = msg.Rendered
		a.updateViewportContent(a.highlightedMessageIdx < 0 && a.viewport.AtBottom())
		return a, nil

	case imageLoadedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] failed to load image %s: %v", msg.Path, msg.Err)
			}
			a.showAcknowledge("Cannot Attach Image", msg.Err.Error(), ModalTypeError)
			return a, nil
		}
		a.dataModel.AttachImage(msg.Image)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] attached %s (%s, %d bytes)", msg.Image.Name, msg.Image.MIMEType, len(msg.Image.Data))
		}
		return a, nil

	case highlightFlashMsg:
		if a.highlightFlashCount > 0 && a.highlightFlashCount < flashCount {
			a.highlightFlashCount++
			a.updateViewportContent(false)
			return a, flashTick()
		}
		a.highlightedMessageIdx = -1
		a.highlightFlashCount = 0
		a.updateViewportContent(false)
		return a, nil

	case clipboardMsg:
		if msg.Err != nil {
			a.statusNote = "Copy failed: " + msg.Err.Error()
		} else {
			a.statusNote = "Copied " + msg.What
		}
		return a, expireStatusNote(a.statusNote)

	case statusNoteExpiredMsg:
		if a.statusNote == msg.note {
			a.statusNote = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// filepicker reads directories asynchronously and needs its own messages
	if a.imagePicker.Active {
		var cmd tea.Cmd
		a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) hasPendingReply() bool {
	for _, msg := range a.dataModel.Snapshot() {
		if msg.Author == appmodel.AuthorAssistant && msg.Status == appmodel.StatusPending {
			return true
		}
	}
	return false
}

// syncInputFocus blurs the input while sending is locked.
func (a *AppView) syncInputFocus() {
	if a.inputLocked() {
		a.textarea.Blur()
	} else if !a.textarea.Focused() {
		a.textarea.Focus()
	}
}

func flashTick() tea.Cmd {
	return tea.Tick(flashInterval, func(time.Time) tea.Msg {
		return highlightFlashMsg{}
	})
}

func expireStatusNote(note string) tea.Cmd {
	return tea.Tick(statusNoteLife, func(time.Time) tea.Msg {
		return statusNoteExpiredMsg{note: note}
	})
}
