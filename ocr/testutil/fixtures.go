package testutil

import "healthchat/model"

// PNGHeader is the signature content sniffing recognizes as image/png.
const PNGHeader = "\x89PNG\r\n\x1a\n"

// PNGBytes returns a minimal byte slice that sniffs as a PNG.
func PNGBytes() []byte {
	return append([]byte(PNGHeader), make([]byte, 24)...)
}

// TestImage returns a PNG attachment with the given name.
func TestImage(name string) *model.Image {
	return &model.Image{Name: name, Data: PNGBytes(), MIMEType: "image/png"}
}

// TextOnlyBytes is content that must be rejected as an image.
func TextOnlyBytes() []byte {
	return []byte("patient reports fever and chills")
}
