package mapper

import (
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/domain"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

// Map parses the model's raw reply into the service response schema.
// Replies wrapped in markdown code fences are unwrapped first. A reply that
// is not a JSON object fails with MappingError; no partial result is ever
// returned.
func Map(raw string) (*domain.ExtractionResult, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, errors.Mapping(stderrors.New("empty model reply"))
	}

	var reply map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, errors.Mapping(err)
	}

	result := &domain.ExtractionResult{
		Patient: domain.Patient{
			Name:         getString(reply, "patient_name"),
			Title:        getString(reply, "patient_title"),
			Age:          getString(reply, "patient_age"),
			AgePeriod:    getString(reply, "patient_age_period"),
			Sex:          getString(reply, "patient_sex"),
			Contact:      getString(reply, "patient_contact"),
			Address:      getString(reply, "patient_address"),
			Date:         getString(reply, "date"),
			ReferrerName: getString(reply, "referrer_name"),
			ReferrerType: getString(reply, "referrer_type"),
			Remark:       getString(reply, "remark"),
			UHID:         getString(reply, "id"),
		},
		PrescribedTests: []string{},
	}

	tests, err := getTests(reply, "prescribed_tests")
	if err != nil {
		return nil, err
	}
	result.PrescribedTests = tests

	return result, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, which vision
// models add even when told to answer with bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// getString reads a string field, tolerating numbers the model emits for
// ages and IDs.
func getString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		b, _ := json.Marshal(v)
		return string(b)
	default:
		return ""
	}
}

// getTests reads the ordered prescribed-test list. Entries may be plain
// strings or objects carrying a test_name/name field.
func getTests(m map[string]interface{}, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return []string{}, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Mapping(stderrors.New("prescribed_tests is not a list"))
	}

	tests := make([]string, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			if v != "" {
				tests = append(tests, v)
			}
		case map[string]interface{}:
			name := getString(v, "test_name")
			if name == "" {
				name = getString(v, "name")
			}
			if name == "" {
				return nil, errors.Mapping(stderrors.New("prescribed test entry has no name"))
			}
			tests = append(tests, name)
		default:
			return nil, errors.Mapping(stderrors.New("prescribed test entry has unexpected shape"))
		}
	}
	return tests, nil
}
