package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUPILink(t *testing.T) {
	link := BuildUPILink(1397.5, "SUS-A1B2C3", "susvada@okaxis", "")

	require.True(t, strings.HasPrefix(link, "upi://pay?"))
	parsed, err := url.Parse(link)
	require.NoError(t, err)

	params := parsed.Query()
	assert.Equal(t, "susvada@okaxis", params.Get("pa"))
	assert.Equal(t, DefaultMerchantName, params.Get("pn"))
	assert.Equal(t, "1397.50", params.Get("am"))
	assert.Equal(t, "SUS-A1B2C3", params.Get("tr"))
	assert.Equal(t, "INR", params.Get("cu"))
	assert.Equal(t, "Order SUS-A1B2C3", params.Get("tn"))
}

func TestBuildUPILinkCustomMerchantName(t *testing.T) {
	link := BuildUPILink(100, "SUS-X", "shop@upi", "Susvada Exports")
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Susvada Exports", parsed.Query().Get("pn"))
}

func TestUPIQRDataURL(t *testing.T) {
	qr, err := UPIQRDataURL("upi://pay?pa=susvada@okaxis&am=100.00")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
	assert.Greater(t, len(qr), 100)
}

func TestIsMobileDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  bool
	}{
		{
			name:      "Android phone",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36",
			expected:  true,
		},
		{
			name:      "iPhone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
			expected:  true,
		},
		{
			name:      "Desktop Chrome",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0",
			expected:  false,
		},
		{
			name:      "Empty user agent",
			userAgent: "",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMobileDevice(tt.userAgent))
		})
	}
}
