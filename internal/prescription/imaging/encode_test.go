package imaging

import (
	"encoding/base64"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBase64_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original := make([]byte, 4096)
	rng.Read(original)

	encoded := EncodeBase64(original)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded, "round-trip must reproduce the original bytes exactly")
}

func TestEncodeBase64_Empty(t *testing.T) {
	assert.Equal(t, "", EncodeBase64(nil))
}

func TestDataURL(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF}

	assert.Equal(t, "data:image/jpeg;base64,"+EncodeBase64(data), DataURL("jpeg", data))
	assert.Equal(t, "data:image/png;base64,"+EncodeBase64(data), DataURL("png", data))
	// jpg is normalized to the registered MIME subtype
	assert.Equal(t, "data:image/jpeg;base64,"+EncodeBase64(data), DataURL("jpg", data))
}
