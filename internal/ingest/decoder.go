package ingest

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"talentscout/internal/errors"
	"talentscout/internal/types"
)

var (
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe        = regexp.MustCompile(`<[^>]+>`)
)

// Decoder converts uploaded document bytes into plain UTF-8 text. Image
// content has no decoder here; callers holding OCR output pass it through
// as text instead.
type Decoder struct {
	logger *errors.Logger
}

func NewDecoder(logger *errors.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode extracts text from data according to contentType. The returned
// string may be empty; emptiness is judged downstream where trimming rules
// apply.
func (d *Decoder) Decode(data []byte, contentType types.ContentType) (string, error) {
	switch contentType {
	case types.ContentTypeText:
		return string(data), nil
	case types.ContentTypePDF:
		return d.decodePDF(data)
	case types.ContentTypeDocx:
		return d.decodeDocx(data)
	case types.ContentTypeImage:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedContent,
			"Image documents require pre-extracted text", nil)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedContent,
			fmt.Sprintf("Unsupported content type: %s", contentType), nil)
	}
}

func (d *Decoder) decodePDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeNoExtractableText,
			"Failed to parse PDF document", err)
	}

	var text strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			d.logger.Warn("Skipping unreadable PDF page",
				"page", i,
				"error", err.Error())
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	d.logger.Debug("Decoded PDF document",
		"pages", pages,
		"text_length", text.Len())
	return text.String(), nil
}

func (d *Decoder) decodeDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeNoExtractableText,
			"Failed to parse DOCX document", err)
	}
	defer doc.Close()

	text := FlattenDocxContent(doc.Editable().GetContent())
	d.logger.Debug("Decoded DOCX document", "text_length", len(text))
	return text, nil
}

// FlattenDocxContent strips the WordprocessingML markup from a document
// body, keeping paragraph boundaries as newlines.
func FlattenDocxContent(content string) string {
	flattened := docxParagraphRe.ReplaceAllString(content, "\n")
	flattened = xmlTagRe.ReplaceAllString(flattened, "")
	return strings.TrimSpace(html.UnescapeString(flattened))
}

// DetectContentType maps a filename and declared MIME type to a content
// type. An explicit declared type wins over the extension.
func DetectContentType(filename, declared string) types.ContentType {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "text/plain", "text":
		return types.ContentTypeText
	case "application/pdf", "pdf":
		return types.ContentTypePDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx":
		return types.ContentTypeDocx
	case "image/png", "image/jpeg", "image":
		return types.ContentTypeImage
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return types.ContentTypePDF
	case ".docx":
		return types.ContentTypeDocx
	case ".png", ".jpg", ".jpeg":
		return types.ContentTypeImage
	default:
		return types.ContentTypeText
	}
}
