package media

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"smart-notes-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeCaption  Mode = "caption"
	ModeOCR      Mode = "ocr"
	ModeDocument Mode = "document"
)

// ParseMode accepts the mode names case-insensitively. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeCaption, ModeOCR, ModeDocument:
		return m, nil
	default:
		return "", fmt.Errorf("unknown image mode %q", s)
	}
}

const (
	KeyCaption  = "caption"
	KeyOCR      = "ocr_text"
	KeyDocument = "document_text"
)

const (
	// MinDocumentTextLength is the length document text must exceed to win.
	MinDocumentTextLength = 10
	// MinOCRTextLength is the length OCR text must exceed to win.
	MinOCRTextLength = 5
)

// ImageReader produces text from an image: a caption, OCR output or a
// document transcription depending on the model behind it.
type ImageReader interface {
	ReadImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

type ImageAdapter struct {
	captioner ImageReader
	ocr       ImageReader
	document  ImageReader
	log       logger.ILogger
}

// NewImageAdapter accepts nil readers; their candidates report the model as
// not available.
func NewImageAdapter(captioner, ocr, document ImageReader, log logger.ILogger) *ImageAdapter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ImageAdapter{captioner: captioner, ocr: ocr, document: document, log: log}
}

func (a *ImageAdapter) Extract(ctx context.Context, input any, mode Mode) Result {
	ctx, span := otel.Tracer("media").Start(ctx, "media.ImageAdapter.Extract")
	defer span.End()

	if mode == "" {
		mode = ModeAuto
	}
	span.SetAttributes(attribute.String("mode", string(mode)))

	data, mime, err := decodeImage(input)
	if err != nil {
		a.log.Warn("ImageAdapter", "Invalid image input", map[string]interface{}{"error": err.Error()})
		return Result{Candidates: map[string]string{}, Selected: InvalidImageData, Error: InvalidImageData}
	}

	res := Result{Candidates: map[string]string{}}
	if mode == ModeAuto || mode == ModeCaption {
		res.Candidates[KeyCaption] = a.read(ctx, a.captioner, data, mime, "Caption", CaptionUnavailable, "")
	}
	if mode == ModeAuto || mode == ModeOCR {
		res.Candidates[KeyOCR] = a.read(ctx, a.ocr, data, mime, "OCR", OCRUnavailable, noOCRText)
	}
	if mode == ModeAuto || mode == ModeDocument {
		res.Candidates[KeyDocument] = a.read(ctx, a.document, data, mime, "Document extraction", DocumentUnavailable, noDocumentText)
	}

	res.Selected = selectImageText(res.Candidates, mode)
	span.SetAttributes(attribute.Bool("text.found", res.OK()))
	return res
}

func (a *ImageAdapter) read(ctx context.Context, r ImageReader, data []byte, mime, name, unavailable, empty string) (text string) {
	if r == nil {
		return unavailable
	}
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("ImageAdapter", name+" panicked", map[string]interface{}{"error": fmt.Sprint(rec)})
			text = fmt.Sprintf("%s error: %v", name, rec)
		}
	}()

	out, err := r.ReadImage(ctx, data, mime)
	if err != nil {
		a.log.Warn("ImageAdapter", name+" failed", map[string]interface{}{"error": err.Error()})
		return fmt.Sprintf("%s error: %v", name, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		if empty == "" {
			return fmt.Sprintf("%s error: empty output", name)
		}
		return empty
	}
	return out
}

// selectImageText prefers document text, then OCR text, then the caption.
func selectImageText(c map[string]string, mode Mode) string {
	switch mode {
	case ModeCaption:
		return firstUsable(c[KeyCaption], NoImageText)
	case ModeOCR:
		return firstUsable(c[KeyOCR], NoImageText)
	case ModeDocument:
		return firstUsable(c[KeyDocument], NoImageText)
	}

	if doc := c[KeyDocument]; Usable(doc) && utf8.RuneCountInString(doc) > MinDocumentTextLength {
		return doc
	}
	if ocr := c[KeyOCR]; Usable(ocr) && utf8.RuneCountInString(ocr) > MinOCRTextLength {
		return ocr
	}
	return firstUsable(c[KeyCaption], NoImageText)
}

func firstUsable(text, otherwise string) string {
	if Usable(text) {
		return text
	}
	return otherwise
}
