package helper

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	badKeyChars   = regexp.MustCompile(`[^\w\-_.]`)
	manyUnderscor = regexp.MustCompile(`_+`)
)

// SanitizeCacheKey strips characters that memcached/redis tooling chokes on
// and hashes over-long keys down to a safe length.
func SanitizeCacheKey(key string) string {
	if key == "" {
		return "empty_key"
	}

	clean := badKeyChars.ReplaceAllString(key, "_")
	clean = manyUnderscor.ReplaceAllString(clean, "_")

	if len(clean) > 200 {
		sum := md5.Sum([]byte(clean))
		clean = clean[:190] + "_" + hex.EncodeToString(sum[:])[:8]
	}

	clean = strings.Trim(clean, "_")
	if clean == "" {
		return "default_key"
	}
	return clean
}

// MakeCacheKey joins parts into one sanitized cache key.
func MakeCacheKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return SanitizeCacheKey(strings.Join(kept, "_"))
}
