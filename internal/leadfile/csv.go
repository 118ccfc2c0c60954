package leadfile

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// DecodeCSV reads leads from CSV with a header row.
func DecodeCSV(r io.Reader) ([]model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "leadfile: read csv")
	}
	return fromRows(rows)
}

// WriteCSV writes scored leads in rank order.
func WriteCSV(w io.Writer, leads []model.ScoredLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return eris.Wrap(err, "leadfile: write csv header")
	}
	for i, l := range leads {
		if err := cw.Write(exportRow(i+1, l)); err != nil {
			return eris.Wrap(err, "leadfile: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "leadfile: flush csv")
}
