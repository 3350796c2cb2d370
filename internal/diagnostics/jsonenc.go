package diagnostics

import "encoding/json"

// ToJSON renders a Report deterministically. encoding/json already emits
// struct fields in declaration order (not map order), which is enough
// determinism for Report since it carries no maps; compact controls
// indentation the way the teacher's errors.Encoded.ToJSON did.
func (r *Report) ToJSON(compact bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeAll renders a batch of reports as a JSON array, one call per
// phase flush.
func EncodeAll(reports []*Report, compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(reports)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
