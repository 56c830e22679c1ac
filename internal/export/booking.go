package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
)

// A4 portrait in points, with a 20mm margin.
const (
	pageHeight = 842.0
	marginLeft = 57.0
	marginTop  = 57.0
	pageBottom = pageHeight - marginTop
	wrapWidth  = 90
)

// Line is one positioned run of text. Y grows downwards from the page top.
type Line struct {
	Page int
	Y    float64
	Size int
	Text string
}

// BookingFilename is the download name for a booking PDF.
func BookingFilename(b models.Booking) string {
	return "Booking_" + b.ID + ".pdf"
}

type layout struct {
	lines []Line
	page  int
	y     float64
}

func (l *layout) gap(dy float64) { l.y += dy }

func (l *layout) text(size int, s string, advance float64) {
	if l.y+advance > pageBottom {
		l.page++
		l.y = marginTop
	}
	l.y += advance
	l.lines = append(l.lines, Line{Page: l.page, Y: l.y, Size: size, Text: s})
}

// BookingLayout places the booking summary on one or more pages. The slip
// image itself is not part of the layout; RenderBooking appends it as a page.
func BookingLayout(b models.Booking, slip Slip) []Line {
	l := &layout{page: 1, y: marginTop - 10}

	l.text(18, "Booking Details", 10)
	l.text(12, "Booking ID: "+b.ID, 10)
	l.text(12, "Status: "+b.Status, 8)
	l.text(12, "Created At: "+displayDate(b.CreatedAt), 8)
	l.gap(20)

	l.text(14, "Customer Details", 0)
	l.gap(10)
	l.text(12, "Name: "+b.Name, 8)
	l.text(12, "Email: "+b.Email, 8)
	l.text(12, "Phone: "+b.Phone, 8)
	l.gap(20)

	l.text(14, "Package Details", 0)
	l.gap(10)
	l.text(12, "Package: "+b.PackageName, 8)
	l.text(12, fmt.Sprintf("Travel Dates: %s - %s", displayDate(b.DateFrom), displayDate(b.DateTo)), 8)
	l.text(12, "Travelers Count: "+strconv.Itoa(b.TravelersCount), 8)

	if b.SpecialRequests != "" {
		l.gap(10)
		l.text(12, "Special Requests:", 0)
		for _, line := range wrap(b.SpecialRequests, wrapWidth) {
			l.text(12, line, 8)
		}
	}
	l.gap(20)

	if !slip.Present() {
		return l.lines
	}
	l.text(14, "Payment Slip", 10)
	l.gap(10)
	switch {
	case slip.Err != nil:
		l.text(12, SlipFailureText, 0)
	case slip.Text != "":
		for _, line := range strings.Split(slip.Text, "\n") {
			for _, w := range wrap(line, wrapWidth) {
				l.text(10, w, 7)
			}
		}
	default:
		l.text(12, "Attached on the following page.", 0)
	}
	return l.lines
}

func displayDate(s string) string {
	t, ok := listing.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// wrap breaks s into lines of at most width runes, splitting on spaces.
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// pdfcpu's JSON content model, limited to what the booking layout needs.
type (
	pdfDoc struct {
		Paper  string             `json:"paper"`
		Origin string             `json:"origin"`
		Pages  map[string]pdfPage `json:"pages"`
	}
	pdfPage struct {
		Content pdfContent `json:"content"`
	}
	pdfContent struct {
		Text []pdfTextItem `json:"text"`
	}
	pdfTextItem struct {
		Value string     `json:"value"`
		Pos   [2]float64 `json:"pos"`
		Font  pdfFont    `json:"font"`
	}
	pdfFont struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
)

// contentJSON converts laid-out lines into pdfcpu create input.
func contentJSON(lines []Line) ([]byte, error) {
	doc := pdfDoc{Paper: "A4P", Origin: "UpperLeft", Pages: map[string]pdfPage{}}
	for _, ln := range lines {
		key := strconv.Itoa(ln.Page)
		p := doc.Pages[key]
		p.Content.Text = append(p.Content.Text, pdfTextItem{
			Value: ln.Text,
			Pos:   [2]float64{marginLeft, ln.Y},
			Font:  pdfFont{Name: "Helvetica", Size: ln.Size},
		})
		doc.Pages[key] = p
	}
	return json.Marshal(doc)
}

// RenderBooking writes the booking PDF to w. An image slip is appended as its
// own page; if that fails the document is rewritten with the failure line.
func RenderBooking(w io.Writer, b models.Booking, slip Slip) error {
	conf := model.NewDefaultConfiguration()

	base, err := renderLines(BookingLayout(b, slip), conf)
	if err != nil {
		return err
	}
	if len(slip.JPEG) == 0 || slip.Err != nil {
		_, err := w.Write(base)
		return err
	}

	var out bytes.Buffer
	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImages(bytes.NewReader(base), &out, []io.Reader{bytes.NewReader(slip.JPEG)}, imp, conf); err != nil {
		slip.Err = err
		fallback, ferr := renderLines(BookingLayout(b, slip), conf)
		if ferr != nil {
			return ferr
		}
		_, err = w.Write(fallback)
		return err
	}
	_, err = w.Write(out.Bytes())
	return err
}

func renderLines(lines []Line, conf *model.Configuration) ([]byte, error) {
	content, err := contentJSON(lines)
	if err != nil {
		return nil, fmt.Errorf("encoding pdf layout: %w", err)
	}
	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(content), &buf, conf); err != nil {
		return nil, fmt.Errorf("rendering booking pdf: %w", err)
	}
	return buf.Bytes(), nil
}
