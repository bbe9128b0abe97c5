package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

const fullReply = `{
	"patient_name": "Anita Sharma",
	"patient_title": "Mrs",
	"patient_age": "42",
	"patient_age_period": "years",
	"patient_sex": "F",
	"patient_contact": "9876543210",
	"patient_address": "12 Lake Road, Chennai",
	"date": "2024-11-13",
	"referrer_name": "Dr. Kumar",
	"referrer_type": "doctor",
	"remark": "fasting sample",
	"id": "UH-1029",
	"prescribed_tests": ["CBC", "Lipid Profile", "HbA1c"]
}`

func TestMap_FullReply(t *testing.T) {
	result, err := Map(fullReply)
	require.NoError(t, err)

	assert.Equal(t, "Anita Sharma", result.Patient.Name)
	assert.Equal(t, "Mrs", result.Patient.Title)
	assert.Equal(t, "42", result.Patient.Age)
	assert.Equal(t, "years", result.Patient.AgePeriod)
	assert.Equal(t, "F", result.Patient.Sex)
	assert.Equal(t, "9876543210", result.Patient.Contact)
	assert.Equal(t, "12 Lake Road, Chennai", result.Patient.Address)
	assert.Equal(t, "2024-11-13", result.Patient.Date)
	assert.Equal(t, "Dr. Kumar", result.Patient.ReferrerName)
	assert.Equal(t, "doctor", result.Patient.ReferrerType)
	assert.Equal(t, "fasting sample", result.Patient.Remark)
	assert.Equal(t, "UH-1029", result.Patient.UHID)
	assert.Equal(t, []string{"CBC", "Lipid Profile", "HbA1c"}, result.PrescribedTests)
}

func TestMap_CodeFencedReply(t *testing.T) {
	fenced := "```json\n" + fullReply + "\n```"

	result, err := Map(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Anita Sharma", result.Patient.Name)
	assert.Len(t, result.PrescribedTests, 3)
}

func TestMap_NumericFieldsTolerated(t *testing.T) {
	result, err := Map(`{"patient_name": "X", "patient_age": 42, "id": 1029, "prescribed_tests": []}`)
	require.NoError(t, err)

	assert.Equal(t, "42", result.Patient.Age)
	assert.Equal(t, "1029", result.Patient.UHID)
}

func TestMap_TestObjectsWithNames(t *testing.T) {
	result, err := Map(`{"prescribed_tests": [{"test_name": "CBC"}, {"name": "ESR"}, "TSH"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"CBC", "ESR", "TSH"}, result.PrescribedTests)
}

func TestMap_MissingTestsYieldsEmptyList(t *testing.T) {
	result, err := Map(`{"patient_name": "X"}`)
	require.NoError(t, err)
	assert.NotNil(t, result.PrescribedTests)
	assert.Empty(t, result.PrescribedTests)
}

func TestMap_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty reply", ""},
		{"whitespace only", "   \n  "},
		{"plain prose", "The patient is Anita Sharma and needs a CBC."},
		{"truncated JSON", `{"patient_name": "Anita`},
		{"top-level array", `["CBC"]`},
		{"tests not a list", `{"prescribed_tests": "CBC"}`},
		{"test entry without a name", `{"prescribed_tests": [{"code": "T01"}]}`},
		{"test entry wrong shape", `{"prescribed_tests": [42]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Map(tt.raw)
			assert.Nil(t, result, "no partial results on mapping failure")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMapping))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
