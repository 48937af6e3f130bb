package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a product name into a URL-safe slug
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// NewOrderCode generates a human-readable unique order code such as
// SUS-9F1C2B3A
func NewOrderCode() string {
	id := uuid.New().String()
	return "SUS-" + strings.ToUpper(strings.SplitN(id, "-", 2)[0])
}

// Ambiguous characters (0/O, 1/l/I) are excluded.
const tempPasswordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateTempPassword returns a random temporary password of length n
func GenerateTempPassword(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(tempPasswordChars[idx.Int64()])
	}
	return sb.String(), nil
}
