// Package export renders admin data as downloadable files: subscriber lists
// as CSV or XLSX and single bookings as PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/paradisepeak/ppadmin/internal/models"
)

// SubscriberHeader is the first row of every subscriber export.
var SubscriberHeader = []string{"Email", "Status"}

// SubscriberRows returns one Email, Status row per subscriber.
func SubscriberRows(subs []models.Subscriber) [][]string {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{s.Email, s.Status()})
	}
	return rows
}

// WriteSubscribersCSV writes the header and one row per subscriber.
func WriteSubscribersCSV(w io.Writer, subs []models.Subscriber) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SubscriberHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(SubscriberRows(subs)); err != nil {
		return fmt.Errorf("writing subscribers csv: %w", err)
	}
	return nil
}

// SubscriberSheet is the worksheet name used in the XLSX export.
const SubscriberSheet = "Subscribers"

// WriteSubscribersXLSX writes the same table as WriteSubscribersCSV as a workbook.
func WriteSubscribersXLSX(w io.Writer, subs []models.Subscriber) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SubscriberSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	rows := append([][]string{SubscriberHeader}, SubscriberRows(subs)...)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SubscriberSheet, cell, v); err != nil {
				return fmt.Errorf("setting %s: %w", cell, err)
			}
		}
	}
	if err := f.SetColWidth(SubscriberSheet, "A", "A", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(SubscriberSheet, "B", "B", 16); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing subscribers xlsx: %w", err)
	}
	return nil
}
