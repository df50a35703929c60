package ui

import (
	appmodel "healthchat/model"
)

type markdownRenderedMsg struct {
	ID       appmodel.MessageID
	Width    int
	Rendered string
}

type imageLoadedMsg struct {
	Path  string
	Image *appmodel.Image
	Err   error
}

type highlightFlashMsg struct{}

type clipboardMsg struct {
	What string
	Err  error
}
