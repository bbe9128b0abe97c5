package imaging

import "encoding/base64"

// EncodeBase64 converts image bytes into a transport-safe base64 string
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DataURL builds the data URL form multimodal chat APIs accept as image_url
func DataURL(format string, data []byte) string {
	if format == "jpg" {
		format = "jpeg"
	}
	return "data:image/" + format + ";base64," + EncodeBase64(data)
}
