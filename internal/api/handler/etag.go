package handler

import (
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
)

// userETag derives a strong entity tag from the user's stored document
func userETag(u *model.User) (string, error) {
	doc, err := codec.Users.Encode(u)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(doc)
	return `"` + hex.EncodeToString(sum[:16]) + `"`, nil
}

// etagMatches reports whether the If-None-Match header names etag
func etagMatches(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
