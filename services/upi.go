package services

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultMerchantName appears as the payee name in UPI payment apps
const DefaultMerchantName = "Susvada"

// BuildUPILink constructs a upi://pay deep link for a payment amount and
// order reference
func BuildUPILink(amount float64, orderCode, vpa, merchantName string) string {
	if merchantName == "" {
		merchantName = DefaultMerchantName
	}
	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", merchantName)
	params.Set("am", fmt.Sprintf("%.2f", amount))
	params.Set("tr", orderCode)
	params.Set("cu", "INR")
	params.Set("tn", "Order "+orderCode)
	return "upi://pay?" + params.Encode()
}

// UPIQRDataURL renders a UPI link as a PNG QR code and returns it as a
// base64 data URL suitable for an <img> tag
func UPIQRDataURL(upiLink string) (string, error) {
	png, err := qrcode.Encode(upiLink, qrcode.Medium, 300)
	if err != nil {
		return "", fmt.Errorf("encode QR: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

var mobileUserAgent = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|mobile`)

// IsMobileDevice reports whether a User-Agent looks like a phone or
// tablet, where the UPI deep link can open a payment app directly
func IsMobileDevice(userAgent string) bool {
	return userAgent != "" && mobileUserAgent.MatchString(userAgent)
}
