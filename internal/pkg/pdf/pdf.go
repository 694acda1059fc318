package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamilyUTF8 = "DejaVuSans"
	fontFamilyCore = "Helvetica"
	bullet         = "•"
)

// Renderer рисует простой документ: заголовок и маркированный список.
// Для кириллицы нужен TTF шрифт (FontPath), иначе используется core шрифт с cp1252.
type Renderer struct {
	FontPath    string
	Compression bool
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{FontPath: fontPath, Compression: true}
}

// RenderList writes an A4 document with a title and one bullet per item.
func (r *Renderer) RenderList(w io.Writer, title string, items []string, emptyText string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(r.Compression)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.SetTitle(title, true)

	family := fontFamilyCore
	translate := func(s string) string { return s }
	if r.FontPath != "" {
		doc.AddUTF8Font(fontFamilyUTF8, "", r.FontPath)
		family = fontFamilyUTF8
	} else {
		translate = doc.UnicodeTranslatorFromDescriptor("")
	}

	doc.AddPage()
	doc.SetFont(family, "", 16)
	doc.MultiCell(0, 10, translate(title), "", "L", false)
	doc.Ln(4)

	doc.SetFont(family, "", 12)
	if len(items) == 0 {
		doc.MultiCell(0, 8, translate(emptyText), "", "L", false)
	}
	for _, item := range items {
		doc.MultiCell(0, 8, translate(bullet+" "+item), "", "L", false)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
