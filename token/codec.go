package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
)

// Header is pinned: every token this system issues is an HS256 compact token.
const Header = `{"alg":"HS256","typ":"JWT"}`

var b64 = base64.RawURLEncoding

// Decoded is the structural result of taking a compact token apart. It carries
// no expiry semantics; claim validation belongs to the Service.
type Decoded struct {
	Header         map[string]interface{}
	Payload        json.RawMessage
	SignatureValid bool
}

// Encode builds header.payload.signature with an HMAC-SHA256 signature over
// the first two segments, all base64url without padding.
func Encode(header, payload []byte, secret string) (string, error) {
	if secret == "" {
		return "", apperrors.New(apperrors.Configuration, "jwt secret is not configured")
	}
	signingInput := b64.EncodeToString(header) + "." + b64.EncodeToString(payload)
	return signingInput + "." + sign(signingInput, secret), nil
}

// Decode splits a compact token, parses the header and payload JSON and checks
// the signature against secret. A token that does not split into exactly three
// non-empty segments, or whose segments are not valid base64url JSON, is
// malformed.
func Decode(tok, secret string) (Decoded, error) {
	var decoded Decoded

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return decoded, apperrors.New(apperrors.TokenMalformed, "token must have 3 segments")
	}
	for _, part := range parts {
		if part == "" {
			return decoded, apperrors.New(apperrors.TokenMalformed, "token segment is empty")
		}
	}

	headerBytes, err := b64.DecodeString(parts[0])
	if err != nil {
		return decoded, apperrors.Wrap(apperrors.TokenMalformed, "token header is not base64url", err)
	}
	payloadBytes, err := b64.DecodeString(parts[1])
	if err != nil {
		return decoded, apperrors.Wrap(apperrors.TokenMalformed, "token payload is not base64url", err)
	}

	if err := json.Unmarshal(headerBytes, &decoded.Header); err != nil {
		return decoded, apperrors.Wrap(apperrors.TokenMalformed, "token header is not valid JSON", err)
	}
	if !json.Valid(payloadBytes) {
		return decoded, apperrors.New(apperrors.TokenMalformed, "token payload is not valid JSON")
	}
	decoded.Payload = payloadBytes

	signingInput := parts[0] + "." + parts[1]
	decoded.SignatureValid = hmac.Equal([]byte(sign(signingInput, secret)), []byte(parts[2]))

	return decoded, nil
}

func sign(signingInput, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	return b64.EncodeToString(mac.Sum(nil))
}
