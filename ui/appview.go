package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"healthchat/config"
	appmodel "healthchat/model"
)

const inputPlaceholder = "Describe your symptoms or ask a question... (Enter to send)"

type AppView struct {
	dataModel *appmodel.Model
	cfg       *config.Config

	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	width  int
	height int
	ready  bool

	showHelp bool

	imagePicker FilePickerState

	showMessageSearch      bool
	messageSearchInput     textinput.Model
	messageSearchResults   []MessageMatch
	selectedSearchIdx      int
	messageSearchScrollIdx int

	highlightedMessageIdx int
	highlightFlashCount   int

	// Markdown renders of completed replies, keyed by message identity.
	rendered        map[appmodel.MessageID]string
	renderRequested map[appmodel.MessageID]bool
	// First viewport line of each message, for jumping to search results.
	messageOffsets []int

	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	statusNote string
}

func NewAppView(cfg *config.Config, dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends; Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.CharLimit = 100

	return AppView{
		dataModel:      dataModel,
		cfg:            cfg,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		imagePicker: NewFilePickerState(FilePickerConfig{
			Title:        "Attach Image",
			AllowedTypes: ImageExtensions,
		}),
		messageSearchInput:    searchInput,
		highlightedMessageIdx: -1,
		rendered:              make(map[appmodel.MessageID]string),
		renderRequested:       make(map[appmodel.MessageID]bool),
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.loadingSpinner.Tick)
}

// inputLocked reports whether sending is currently disabled.
func (a AppView) inputLocked() bool {
	return a.cfg.Chat.InputThrottle && a.dataModel.Busy()
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading healthchat..."
	}

	// Layers, top first: acknowledge, help, image picker, search
	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(a.acknowledgeModalTitle, a.acknowledgeModalMsg, a.acknowledgeModalType, a.width, a.height)
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.imagePicker.Active {
		return RenderFilePickerModal(a.imagePicker, a.width, a.height)
	}
	if a.showMessageSearch {
		return renderMessageSearch(a, a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.messageSearchScrollIdx, a.width, a.height)
	}

	title := AssistantStyle.Render("healthchat") +
		TitleStyle.Render(fmt.Sprintf(" - OCR: %s", a.cfg.OCR.Engine)) +
		DimStyle.Render(fmt.Sprintf(" | session %s", shortID(a.dataModel.SessionID())))
	if a.dataModel.Busy() {
		title += " " + a.loadingSpinner.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.renderAttachmentLine(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

func (a AppView) renderAttachmentLine() string {
	img := a.dataModel.PendingImage()
	if img == nil {
		return ""
	}
	name := runewidth.Truncate(img.Name, 40, "...")
	return AttachmentStyle.Render(fmt.Sprintf("📎 %s (%s)", name, humanSize(len(img.Data)))) +
		DimStyle.Render(fmt.Sprintf("  %s to remove", a.cfg.Keybindings.DisplayActionKey("detach_image")))
}

func (a AppView) renderStatusBar() string {
	kb := a.cfg.Keybindings
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	parts := []string{
		kb.DisplayActionKey("quit") + " " + descStyle.Render("Quit"),
		kb.DisplayActionKey("attach_image") + " " + descStyle.Render("Image"),
		kb.DisplayActionKey("search_messages") + " " + descStyle.Render("Search"),
		kb.DisplayActionKey("clear_conversation") + " " + descStyle.Render("Clear"),
		kb.DisplayActionKey("yank_last_response") + " " + descStyle.Render("Copy"),
		kb.DisplayActionKey("help") + " " + descStyle.Render("Help"),
	}
	if a.inputLocked() {
		parts = append([]string{SelectedStyle.Render("Waiting for reply...")}, parts...)
	} else {
		parts = append([]string{"Enter " + descStyle.Render("Send")}, parts...)
	}

	bar := ""
	for i, p := range parts {
		if i > 0 {
			bar += "  "
		}
		bar += p
	}
	if a.statusNote != "" {
		bar += "  " + HighlightStyle.Render(a.statusNote)
	}
	return StatusStyle.Render(bar)
}

func (a *AppView) showAcknowledge(title, msg string, modalType ModalType) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = modalType
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
