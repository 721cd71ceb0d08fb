package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/s3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Payroll"

// Export is a rendered payroll workbook. When an uploader is configured the
// workbook is stored and URL is set; otherwise Data carries the file.
type Export struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
	Data        []byte `json:"-"`
}

var exportColumns = []struct {
	title string
	width float64
}{
	{"Employee", 28},
	{"Type", 16},
	{"Base salary", 14},
	{"Sessions", 10},
	{"Sessions amount", 16},
	{"Bonuses", 12},
	{"IGSS", 12},
	{"Other deductions", 16},
	{"Total pay", 14},
	{"Paid at", 20},
}

func (s *payrollService) Export(ctx context.Context, periodID uuid.UUID) (Export, error) {
	period, err := s.GetPeriod(ctx, periodID)
	if err != nil {
		return Export{}, err
	}
	recs, err := s.store.ListPeriodRecords(ctx, periodID)
	if err != nil {
		return Export{}, fmt.Errorf("list records: %w", err)
	}

	buf, err := renderWorkbook(period, recs)
	if err != nil {
		return Export{}, fmt.Errorf("render workbook: %w", err)
	}

	out := Export{
		FileName:    fmt.Sprintf("payroll_%s_%s.xlsx", period.PeriodStart, period.PeriodEnd),
		ContentType: xlsxContentType,
	}
	if s.uploader == nil {
		out.Data = buf.Bytes()
		return out, nil
	}

	key := fmt.Sprintf("payroll/%s/%s.xlsx", period.ID, uuid.Must(uuid.NewV7()))
	err = s.uploader.Put(ctx, s3.Object{
		Key:         key,
		ContentType: xlsxContentType,
		FileName:    out.FileName,
		Body:        buf.Bytes(),
		Metadata:    map[string]string{"period-id": period.ID.String(), "period-status": string(period.Status)},
	})
	if err != nil {
		return Export{}, err
	}
	url, err := s.uploader.URL(ctx, key)
	if err != nil {
		return Export{}, err
	}
	out.URL = url
	return out, nil
}

func renderWorkbook(period model.PayrollPeriod, recs []model.PayrollRecordView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Payroll %s to %s (%s)", period.PeriodStart, period.PeriodEnd, period.Status)
	_ = f.SetCellValue(sheetName, "A1", title)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	const headerRow = 3
	for i, c := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, c.width)
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheetName, cell, c.title)
	}
	_ = f.SetCellStyle(sheetName, "A3", fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	var sum model.Amounts
	row := headerRow + 1
	for _, r := range recs {
		paid := ""
		if r.PaidAt != nil {
			paid = r.PaidAt.Format("2006-01-02 15:04")
		}
		values := []any{
			r.EmployeeName,
			r.EmployeeType,
			money(r.BaseSalary),
			r.SessionsCount,
			money(r.SessionsAmount),
			money(r.Bonuses),
			money(r.IGSSDeduction),
			money(r.OtherDeductions),
			money(r.TotalPay),
			paid,
		}
		if err := writeRow(f, row, values); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("C%d", row), fmt.Sprintf("I%d", row), moneyStyle)

		sum.BaseSalary = sum.BaseSalary.Add(r.BaseSalary)
		sum.SessionsCount += r.SessionsCount
		sum.SessionsAmount = sum.SessionsAmount.Add(r.SessionsAmount)
		sum.Bonuses = sum.Bonuses.Add(r.Bonuses)
		sum.IGSSDeduction = sum.IGSSDeduction.Add(r.IGSSDeduction)
		sum.OtherDeductions = sum.OtherDeductions.Add(r.OtherDeductions)
		sum.TotalPay = sum.TotalPay.Add(r.TotalPay)
		row++
	}

	totals := []any{
		"Total", "",
		money(sum.BaseSalary), sum.SessionsCount, money(sum.SessionsAmount), money(sum.Bonuses),
		money(sum.IGSSDeduction), money(sum.OtherDeductions), money(sum.TotalPay), "",
	}
	if err := writeRow(f, row, totals); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), totalStyle)

	return f.WriteToBuffer()
}

func writeRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
