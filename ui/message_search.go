package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	appmodel "healthchat/model"
)

const searchPreviewWidth = 80

// MessageMatch is one search hit in the current conversation.
type MessageMatch struct {
	Index     int
	ID        appmodel.MessageID
	Author    appmodel.Author
	Timestamp time.Time
	Preview   string
}

// searchMessages fuzzy-matches query against the text and attachment name of
// every message, best match first.
func searchMessages(messages []appmodel.Message, query string) []MessageMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	targets := make([]string, len(messages))
	for i, msg := range messages {
		target := msg.Text
		if msg.Image != nil {
			target += " " + msg.Image.Name
		}
		targets[i] = target
	}

	var results []MessageMatch
	for _, match := range fuzzy.Find(query, targets) {
		msg := messages[match.Index]
		results = append(results, MessageMatch{
			Index:     match.Index,
			ID:        msg.ID,
			Author:    msg.Author,
			Timestamp: msg.Timestamp,
			Preview:   preview(targets[match.Index], searchPreviewWidth),
		})
	}
	return results
}

// preview flattens text to one line no wider than width cells.
func preview(text string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if runewidth.StringWidth(flat) <= width {
		return flat
	}
	return runewidth.Truncate(flat, width, "...")
}

func renderMessageSearch(a AppView, searchInput textinput.Model, results []MessageMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search Conversation")

	var resultsView strings.Builder
	switch {
	case len(results) == 0 && searchInput.Value() == "":
		resultsView.WriteString(DimStyle.Render("Type to search messages..."))
	case len(results) == 0:
		resultsView.WriteString(DimStyle.Render("No matches found"))
	default:
		// border, padding, title, input, counter, footer and the blank lines between them
		fixedOverhead := 12
		scrollIndicatorSpace := 4
		linesPerResult := 3

		maxVisible := (height - fixedOverhead - scrollIndicatorSpace) / linesPerResult
		if maxVisible < 1 {
			maxVisible = 1
		}

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisible
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView.WriteString(fmt.Sprintf("Found %d matches:\n\n", len(results)))
		if startIdx > 0 {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↑ %d more above", startIdx)) + "\n\n")
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle, roleName := UserStyle, "You"
			if match.Author == appmodel.AuthorAssistant {
				roleStyle, roleName = AssistantStyle, "Assistant"
			}

			line := fmt.Sprintf("%s [%s]\n  %s",
				roleStyle.Render(roleName),
				match.Timestamp.Format("3:04 PM"),
				match.Preview,
			)
			if i == selectedIdx {
				line = SelectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			resultsView.WriteString(line + "\n\n")
		}

		if endIdx < len(results) {
			resultsView.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx)))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchInput.View(),
		"",
		resultsView.String(),
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
