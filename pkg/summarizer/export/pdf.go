package export

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// A4 portrait layout in points for the Courier report.
const (
	pageHeight   = 842
	pageMargin   = 50
	fontSize     = 10
	lineHeight   = 13
	linesPerPage = (pageHeight - 2*pageMargin) / lineHeight
	maxLineRunes = 85
)

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfText struct {
	Value string  `json:"value"`
	Pos   [2]int  `json:"pos"`
	Font  pdfFont `json:"font"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfLayout struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

// renderPDF lays report out as monospaced lines on A4 pages.
func renderPDF(report string) ([]byte, error) {
	lines := wrap(report, maxLineRunes)

	layout := pdfLayout{
		Paper:  "A4P",
		Origin: "LowerLeft",
		Pages:  make(map[string]pdfPage),
	}
	for i := 0; i == 0 || i < len(lines); i += linesPerPage {
		end := min(i+linesPerPage, len(lines))
		var page pdfPage
		for j, line := range lines[i:end] {
			if line == "" {
				continue
			}
			page.Content.Text = append(page.Content.Text, pdfText{
				Value: line,
				Pos:   [2]int{pageMargin, pageHeight - pageMargin - j*lineHeight},
				Font:  pdfFont{Name: "Courier", Size: fontSize},
			})
		}
		layout.Pages[strconv.Itoa(i/linesPerPage+1)] = page
	}

	spec, err := json.Marshal(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(spec), &out, model.NewDefaultConfiguration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// wrap splits text into lines of at most width runes. Runes outside
// Latin-1 have no glyph in the standard PDF fonts and become '?'.
func wrap(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line := []rune(latin1(raw))
		for len(line) > width {
			lines = append(lines, string(line[:width]))
			line = line[width:]
		}
		lines = append(lines, string(line))
	}
	return lines
}

func latin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString("    ")
		case r < 0x20 || r == utf8.RuneError:
		case r <= 0xFF:
			b.WriteRune(r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
