package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"healthchat/config"
	appmodel "healthchat/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s\x1b]+)`)
)

const streamingCursor = "▋"

func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.dataModel.Snapshot()
	a.messageOffsets = a.messageOffsets[:0]

	if len(messages) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Describe a symptom or attach an image of a note."))
		return
	}

	var content strings.Builder
	lines := 0
	for i, msg := range messages {
		a.messageOffsets = append(a.messageOffsets, lines)

		highlightPrefix := ""
		if i == a.highlightedMessageIdx && a.highlightFlashCount%2 == 1 {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}

		block := a.renderMessage(msg, highlightPrefix)
		content.WriteString(block)
		lines += strings.Count(block, "\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a AppView) renderMessage(msg appmodel.Message, highlightPrefix string) string {
	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	if msg.Author == appmodel.AuthorUser {
		body := wordWrap(msg.Text, a.width-6)
		if msg.Image != nil {
			chip := AttachmentStyle.Render("📎 " + msg.Image.Name)
			if body == "" {
				body = chip
			} else {
				body += "\n" + chip
			}
		}
		return formatUserMessage(highlightPrefix, timestamp, UserStyle.Render("You"), body)
	}

	var body string
	switch msg.Status {
	case appmodel.StatusPending:
		body = fmt.Sprintf("%s %s", a.loadingSpinner.View(), msg.Text)
	case appmodel.StatusStreaming:
		body = wordWrap(msg.Text, a.width-4) + streamingCursor
	case appmodel.StatusFailed:
		body = FailedStyle.Render(msg.Text)
	default:
		if rendered, ok := a.rendered[msg.ID]; ok {
			body = rendered
		} else {
			body = wordWrap(msg.Text, a.width-4)
		}
	}

	return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, AssistantStyle.Render("Assistant"), strings.TrimRight(body, "\n"))
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// requestRenders starts a markdown render for every completed reply that has
// none yet.
func (a *AppView) requestRenders() tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range a.dataModel.Snapshot() {
		if msg.Author != appmodel.AuthorAssistant || msg.Status != appmodel.StatusComplete {
			continue
		}
		if a.renderRequested[msg.ID] {
			continue
		}
		a.renderRequested[msg.ID] = true
		cmds = append(cmds, renderMarkdownAsync(msg.ID, msg.Text, a.width))
	}
	return tea.Batch(cmds...)
}

// resetRenders drops cached renders, e.g. after a resize or a clear.
func (a *AppView) resetRenders() {
	a.rendered = make(map[appmodel.MessageID]string)
	a.renderRequested = make(map[appmodel.MessageID]bool)
}

func renderMarkdownAsync(id appmodel.MessageID, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] markdown for message %d (%d chars) rendered in %v", id, len(content), time.Since(start))
		}
		return markdownRenderedMsg{ID: id, Width: width, Rendered: rendered}
	}
}

// renderMarkdown renders content for a terminal width columns wide. Plain
// URLs stay plain text so terminals can detect them.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = urlRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	return strings.TrimRight(rendered, "\n")
}

// conversationText formats the history for the clipboard.
func conversationText(messages []appmodel.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		role := "You"
		if msg.Author == appmodel.AuthorAssistant {
			role = "Assistant"
		}
		text := msg.Text
		if msg.Image != nil {
			text = strings.TrimSpace(text + "\n[image: " + msg.Image.Name + "]")
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), role, text))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// lastReply returns the text of the most recent completed reply.
func lastReply(messages []appmodel.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Author == appmodel.AuthorAssistant && msg.Status == appmodel.StatusComplete {
			return msg.Text, true
		}
	}
	return "", false
}
