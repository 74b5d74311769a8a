// Package export renders the booking list as an xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"time"

	"agendamento/pkg/model"
	"agendamento/pkg/sanitizer"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Agendamentos"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	displayDate = "02/01/2006"
)

var ErrNothingToExport = errors.New("no bookings to export")

type column struct {
	header string
	width  float64
	value  func(b *model.Booking) string
}

var columns = []column{
	{header: "Programa", width: 15, value: func(b *model.Booking) string { return string(b.Program) }},
	{header: "Nome", width: 40, value: func(b *model.Booking) string { return b.Name }},
	{header: "CPF", width: 20, value: func(b *model.Booking) string { return sanitizer.FormatCPF(b.CPF) }},
	{header: "Telefone Celular", width: 20, value: func(b *model.Booking) string { return sanitizer.FormatPhone(b.Phone) }},
	{header: "Data do agendamento", width: 20, value: func(b *model.Booking) string { return FormatDate(b.Date) }},
	{header: "Horário do agendamento", width: 20, value: func(b *model.Booking) string { return b.Time }},
}

// FormatDate renders YYYY-MM-DD as DD/MM/YYYY. Other input is returned unchanged.
func FormatDate(date string) string {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(displayDate)
}

// Filename is the download name for an export taken on the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("agendamentos_%s.xlsx", now.Format(model.DateLayout))
}

// Workbook writes one header row and one row per booking, in the given order.
// Every cell is written as text so CPFs and phones keep their formatting.
func Workbook(bookings []*model.Booking) ([]byte, error) {
	if len(bookings) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, b := range bookings {
		if b == nil {
			continue
		}
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = col.value(b)
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
