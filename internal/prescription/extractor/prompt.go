package extractor

// systemPrompt mirrors the instruction the extraction model is tuned for:
// read a doctor's/hospital's/lab's prescription and answer in JSON.
const systemPrompt = "You are a helpful assistant that responds in JSON format. " +
	"Help me to get the patient's data and prescribed pathological lab tests " +
	"extracted from the prescription given by a doctor, hospital, or lab."

// defaultPrompt is the fixed instruction sent with every image. A different
// template can be loaded from a file via openai.prompt_path.
const defaultPrompt = `Extract the following from this prescription image and answer with a single JSON object, nothing else:
{
  "patient_name": "",
  "patient_title": "",
  "patient_age": "",
  "patient_age_period": "",
  "patient_sex": "",
  "patient_contact": "",
  "patient_address": "",
  "date": "",
  "referrer_name": "",
  "referrer_type": "",
  "remark": "",
  "id": "",
  "prescribed_tests": []
}
Rules:
- "patient_age_period" is the unit the age is given in (years, months, days).
- "referrer_name" is the prescribing doctor, hospital or lab; "referrer_type" is one of doctor, hospital, lab.
- "id" is the UHID or other patient identifier printed on the prescription.
- "prescribed_tests" lists the prescribed pathological lab test names in the order they appear.
- Use an empty string for anything that is not present. Do not invent values.`
