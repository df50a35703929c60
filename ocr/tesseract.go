package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"healthchat/config"
	"healthchat/model"
)

// errProcessFailed marks a tesseract run that exited non-zero.
var errProcessFailed = errors.New("tesseract exited with an error")

// runFunc runs name with args, feeding stdin, and returns stdout.
type runFunc func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

// TesseractRecognizer shells out to the tesseract CLI.
type TesseractRecognizer struct {
	binary   string
	language string
	run      runFunc
	lookPath func(string) (string, error)
}

func NewTesseractRecognizer(binary, language string) *TesseractRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &TesseractRecognizer{
		binary:   binary,
		language: language,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func (t *TesseractRecognizer) Name() string {
	return string(EngineTesseract)
}

// ExtractText runs `tesseract stdin stdout -l <language>`.
func (t *TesseractRecognizer) ExtractText(ctx context.Context, img *model.Image) (string, error) {
	path, err := t.lookPath(t.binary)
	if err != nil {
		return "", &model.RecognitionError{
			Kind:   model.KindUnavailable,
			Engine: t.Name(),
			Err:    fmt.Errorf("%s not found in PATH: %w", t.binary, err),
		}
	}

	args := []string{"stdin", "stdout", "-l", t.language}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[OCR] %s %s (%d bytes, %s)", path, strings.Join(args, " "), len(img.Data), img.MIMEType)
	}

	out, err := t.run(ctx, path, args, img.Data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", recognitionError(t.Name(), 0, fmt.Errorf("%w: %v", ctxErr, err))
		}
		if errors.Is(err, errProcessFailed) {
			// tesseract ran but could not read the image
			return "", &model.RecognitionError{Kind: model.KindDecode, Engine: t.Name(), Err: err}
		}
		return "", recognitionError(t.Name(), 0, err)
	}
	return string(out), nil
}

func runCommand(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w: %s", errProcessFailed, err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
