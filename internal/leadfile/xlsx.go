package leadfile

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ExportSheet names the sheet scored leads are written to.
const ExportSheet = "Scored Leads"

// ReadXLSX reads leads from the first sheet of an XLSX workbook.
func ReadXLSX(path string) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "leadfile: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("leadfile: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return fromRows(rows)
}

// WriteXLSX saves scored leads to a workbook at path. Scores are written as
// numbers.
func WriteXLSX(path string, leads []model.ScoredLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(ExportSheet)
	if err != nil {
		return eris.Wrap(err, "leadfile: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}

	for i, l := range leads {
		row := sheet.AddRow()
		b := l.ScoreBreakdown
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(deref(l.LeadID))
		row.AddCell().SetString(l.CompanyName)
		row.AddCell().SetString(deref(l.Domain))
		row.AddCell().SetInt(l.FitScore)
		for _, v := range []float64{l.Confidence, b.IndustryMatch, b.SizeMatch, b.LocationMatch, b.KeywordMatch, b.SignalMatch} {
			row.AddCell().SetFloat(v)
		}
		row.AddCell().SetString(exportRow(i+1, l)[len(exportHeader)-1])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "leadfile: save xlsx")
	}
	return nil
}
