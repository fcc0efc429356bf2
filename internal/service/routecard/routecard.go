package routecard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"route-api/internal/storage"
)

const sheet = "Route card"

var headers = []string{"Order", "Process", "Workstation ID", "Cycle time, min/pc", "Setup time, min", "Technical values"}

type Source interface {
	GetRouteCard(ctx context.Context, id int64) (*storage.Route, []storage.Process, error)
}

type Service struct {
	src Source
	now func() time.Time
}

func New(src Source) *Service {
	return &Service{src: src, now: time.Now}
}

// File is a rendered workbook together with its download name.
type File struct {
	Name string
	Data []byte
}

func (s *Service) Generate(ctx context.Context, routeID int64) (*File, error) {
	const op = "service.routecard.Generate"

	route, steps, err := s.src.GetRouteCard(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}

	f.SetCellValue(sheet, "A1", route.Name)
	if route.Description != nil {
		f.SetCellValue(sheet, "B1", *route.Description)
	}

	const headerRow = 3
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, headerRow), name)
	}
	f.SetCellStyle(sheet, cellName(1, headerRow), cellName(len(headers), headerRow), headerStyle)

	// route.ProcessSequence and steps are index-aligned
	for i, p := range steps {
		row := headerRow + 1 + i
		f.SetCellValue(sheet, cellName(1, row), route.ProcessSequence[i].ProcessOrder)
		f.SetCellValue(sheet, cellName(2, row), p.Name)
		f.SetCellValue(sheet, cellName(3, row), p.WorkstationID)
		f.SetCellValue(sheet, cellName(4, row), p.ProcessTime)
		f.SetCellValue(sheet, cellName(5, row), p.SetupTime)
		f.SetCellValue(sheet, cellName(6, row), technicalValues(p.TechnicalValues))
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
	})
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "E", 18)
	f.SetColWidth(sheet, "F", "F", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	return &File{
		Name: fmt.Sprintf("Route_%d_%s.xlsx", route.ID, s.now().Format("2006-01-02_150405")),
		Data: buf.Bytes(),
	}, nil
}

func technicalValues(values []storage.ProcessTechnical) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v.Value == nil {
			parts = append(parts, v.Name)
			continue
		}
		parts = append(parts, v.Name+": "+*v.Value)
	}
	return strings.Join(parts, "; ")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
