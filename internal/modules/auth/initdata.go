// Package auth authenticates Telegram WebApp users.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/barstock/internal/httpx"
)

// Authentication failures. All of them map to 401.
var (
	ErrMissingCredentials = fmt.Errorf("%w: missing initData", httpx.ErrUnauthorized)
	ErrMalformedInput     = fmt.Errorf("%w: malformed initData", httpx.ErrUnauthorized)
	ErrInvalidSignature   = fmt.Errorf("%w: bad initData signature", httpx.ErrUnauthorized)
	ErrExpired            = fmt.Errorf("%w: initData expired", httpx.ErrUnauthorized)
)

// Identity is the Telegram user proven by a valid initData payload.
type Identity struct {
	ID       int64
	Name     string
	AuthDate time.Time
}

type webAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// VerifyInitData checks the Telegram WebApp signature of initData against
// botToken and extracts the user it was issued for.
func VerifyInitData(initData, botToken string) (*Identity, error) {
	if initData == "" {
		return nil, ErrMissingCredentials
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: no hash", ErrMalformedInput)
	}
	calc := sign(values, botToken)
	if !hmac.Equal([]byte(calc), []byte(strings.ToLower(hash))) {
		return nil, ErrInvalidSignature
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, fmt.Errorf("%w: no user", ErrMalformedInput)
	}
	var u webAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrMalformedInput, err)
	}
	if u.ID <= 0 {
		return nil, fmt.Errorf("%w: user id", ErrMalformedInput)
	}

	id := &Identity{ID: u.ID, Name: displayName(u)}
	if ts, err := strconv.ParseInt(values.Get("auth_date"), 10, 64); err == nil && ts > 0 {
		id.AuthDate = time.Unix(ts, 0)
	}
	return id, nil
}

func displayName(u webAppUser) string {
	name := strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
	if name == "" {
		name = u.Username
	}
	return name
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// sign computes the hex signature over every field except hash.
func sign(fields url.Values, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields.Get(k))
	}
	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(pairs, "\n"))))
}

// SignInitData returns fields encoded as initData and signed with botToken.
// Used by tests and local tooling.
func SignInitData(fields url.Values, botToken string) string {
	signed := url.Values{}
	for k := range fields {
		if k != "hash" {
			signed.Set(k, fields.Get(k))
		}
	}
	signed.Set("hash", sign(signed, botToken))
	return signed.Encode()
}
