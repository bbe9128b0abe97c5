package domain

// UploadedImage is a prescription image received in a request.
// It lives only for the duration of that request.
type UploadedImage struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Patient holds the patient and referrer attributes read off a prescription
type Patient struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Age          string `json:"age"`
	AgePeriod    string `json:"age_period"`
	Sex          string `json:"sex"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	Date         string `json:"date"`
	ReferrerName string `json:"referrer_name"`
	ReferrerType string `json:"referrer_type"`
	Remark       string `json:"remark"`
	UHID         string `json:"uhid"`
}

// ExtractionResult is the structured data extracted from one prescription image
type ExtractionResult struct {
	Patient         Patient  `json:"patient"`
	PrescribedTests []string `json:"prescribed_tests"`
}

// EncodeResponse is the body returned by the encode endpoint
type EncodeResponse struct {
	EncodedImage string `json:"encoded_image"`
}

// ExtractURLRequest is the body accepted by the URL extraction endpoint
type ExtractURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}
