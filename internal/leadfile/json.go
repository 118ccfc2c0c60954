package leadfile

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// DecodeJSON reads leads from a JSON array or an object with a "leads"
// array.
func DecodeJSON(r io.Reader) ([]model.Lead, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "leadfile: read json")
	}

	var leads []model.Lead
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Leads []model.Lead `json:"leads"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, eris.Wrap(err, "leadfile: decode json")
		}
		leads = wrapped.Leads
	} else if err := json.Unmarshal(trimmed, &leads); err != nil {
		return nil, eris.Wrap(err, "leadfile: decode json")
	}

	if leads == nil {
		leads = []model.Lead{}
	}
	for i, l := range leads {
		if l.CompanyName == "" {
			return nil, eris.Errorf("leadfile: lead %d: %s is required", i, ColCompanyName)
		}
	}
	return leads, nil
}
