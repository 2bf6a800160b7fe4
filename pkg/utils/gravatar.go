package utils

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// Gravatar returns the avatar URL for email: 200px, pg rated, "mystery
// man" fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{"s": {"200"}, "r": {"pg"}, "d": {"mm"}}
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
