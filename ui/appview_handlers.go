package ui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"healthchat/config"
	appmodel "healthchat/model"
)

// handleKey routes a key press to the topmost layer that is showing.
func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.cfg.Keybindings

	if msg.String() == "ctrl+c" || msg.String() == kb.GetActionKey("quit") {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] quit requested (%s), busy=%v", msg.String(), a.dataModel.Busy())
		}
		return a, tea.Quit
	}

	switch {
	case a.showAcknowledgeModal:
		return a.handleAcknowledgeModal(msg)
	case a.showHelp:
		if msg.String() == "esc" || msg.String() == kb.GetActionKey("help") {
			a.showHelp = false
		}
		return a, nil
	case a.imagePicker.Active:
		return a.handleImagePicker(msg)
	case a.showMessageSearch:
		return a.handleMessageSearch(msg)
	}

	switch msg.String() {
	case kb.GetActionKey("help"):
		a.showHelp = true
		return a, nil

	case kb.GetActionKey("attach_image"):
		a.imagePicker.Activate()
		return a, a.imagePicker.Picker.Init()

	case kb.GetActionKey("detach_image"):
		a.dataModel.DetachImage()
		return a, nil

	case kb.GetActionKey("clear_conversation"):
		a.dataModel.Clear()
		a.resetRenders()
		a.highlightedMessageIdx = -1
		a.highlightFlashCount = 0
		a.updateViewportContent(true)
		a.syncInputFocus()
		return a, nil

	case kb.GetActionKey("search_messages"):
		a.showMessageSearch = true
		a.messageSearchInput.SetValue("")
		a.messageSearchResults = nil
		a.selectedSearchIdx = 0
		a.messageSearchScrollIdx = 0
		return a, a.messageSearchInput.Focus()

	case kb.GetActionKey("scroll_down"):
		a.viewport.LineDown(1)
		return a, nil
	case kb.GetActionKey("scroll_up"):
		a.viewport.LineUp(1)
		return a, nil
	case kb.GetActionKey("half_page_down"):
		a.viewport.HalfPageDown()
		return a, nil
	case kb.GetActionKey("half_page_up"):
		a.viewport.HalfPageUp()
		return a, nil
	case kb.GetActionKey("scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil
	case kb.GetActionKey("scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	case "pgdown":
		a.viewport.PageDown()
		return a, nil
	case "pgup":
		a.viewport.PageUp()
		return a, nil

	case kb.GetActionKey("yank_last_response"):
		text, ok := lastReply(a.dataModel.Snapshot())
		if !ok {
			return a, func() tea.Msg {
				return clipboardMsg{What: "reply", Err: errors.New("no reply yet")}
			}
		}
		return a, copyToClipboard("last reply", text)

	case kb.GetActionKey("yank_conversation"):
		return a, copyToClipboard("conversation", conversationText(a.dataModel.Snapshot()))

	case "enter":
		return a.submit()
	}

	if a.inputLocked() {
		return a, nil
	}
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit sends the input box and any attached image as a new turn.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	if a.inputLocked() {
		return a, nil
	}

	img := a.dataModel.PendingImage()
	text := a.textarea.Value()
	if strings.TrimSpace(text) == "" {
		if img == nil {
			return a, nil
		}
		text = ""
	}

	id, cmd, err := a.dataModel.SubmitTurn(text, img)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] submit rejected: %v", err)
		}
		return a, nil
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] submitted turn %d (image=%v)", id, img != nil)
	}

	a.textarea.Reset()
	a.highlightedMessageIdx = -1
	a.updateViewportContent(true)
	a.syncInputFocus()
	return a, cmd
}

func (a AppView) handleAcknowledgeModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.showAcknowledgeModal = false
		a.acknowledgeModalTitle = ""
		a.acknowledgeModalMsg = ""
	}
	return a, nil
}

func (a AppView) handleImagePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		a.imagePicker.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)

	if ok, path := a.imagePicker.Picker.DidSelectFile(msg); ok {
		a.imagePicker.Reset()
		return a, loadImageCmd(path)
	}
	if ok, path := a.imagePicker.Picker.DidSelectDisabledFile(msg); ok {
		a.imagePicker.Reset()
		a.showAcknowledge("Unsupported File", path+" is not an image the client can attach.", ModalTypeWarning)
		return a, nil
	}

	return a, cmd
}

func (a AppView) handleMessageSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.cfg.Keybindings

	switch msg.String() {
	case "esc":
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		return a, nil

	case kb.GetActionKey("search_down"):
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
			if visible := searchVisibleResults(a.height); a.selectedSearchIdx >= a.messageSearchScrollIdx+visible {
				a.messageSearchScrollIdx = a.selectedSearchIdx - visible + 1
			}
		}
		return a, nil

	case kb.GetActionKey("search_up"):
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			if a.selectedSearchIdx < a.messageSearchScrollIdx {
				a.messageSearchScrollIdx = a.selectedSearchIdx
			}
		}
		return a, nil

	case "enter":
		if len(a.messageSearchResults) == 0 {
			return a, nil
		}
		match := a.messageSearchResults[a.selectedSearchIdx]
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		return a, a.jumpToMessage(match.Index)
	}

	var cmd tea.Cmd
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)
	a.messageSearchResults = searchMessages(a.dataModel.Snapshot(), a.messageSearchInput.Value())
	a.selectedSearchIdx = 0
	a.messageSearchScrollIdx = 0
	return a, cmd
}

// jumpToMessage centers message idx in the viewport and flashes a marker next to it.
func (a *AppView) jumpToMessage(idx int) tea.Cmd {
	a.highlightedMessageIdx = idx
	a.highlightFlashCount = 1
	a.updateViewportContent(false)

	if idx < 0 || idx >= len(a.messageOffsets) {
		return nil
	}
	offset := a.messageOffsets[idx] - a.viewport.Height/3
	maxOffset := a.viewport.TotalLineCount() - a.viewport.Height
	offset = min(offset, maxOffset)
	a.viewport.SetYOffset(max(offset, 0))

	return flashTick()
}

func searchVisibleResults(height int) int {
	return max((height-16)/3, 1)
}

func loadImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := appmodel.LoadImage(path)
		return imageLoadedMsg{Path: path, Image: img, Err: err}
	}
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}
