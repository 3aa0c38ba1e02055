package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte(`{"userName":"alice","role":"USER"}`)

	tok, err := Encode([]byte(Header), payload, "secret")
	require.NoError(t, err)
	require.Len(t, strings.Split(tok, "."), 3)
	require.NotContains(t, tok, "=")

	decoded, err := Decode(tok, "secret")
	require.NoError(t, err)
	require.True(t, decoded.SignatureValid)
	require.JSONEq(t, string(payload), string(decoded.Payload))
	require.Equal(t, "HS256", decoded.Header["alg"])
	require.Equal(t, "JWT", decoded.Header["typ"])
}

func TestDecodeWrongSecret(t *testing.T) {
	tok, err := Encode([]byte(Header), []byte(`{"userName":"alice"}`), "secret")
	require.NoError(t, err)

	decoded, err := Decode(tok, "other-secret")
	require.NoError(t, err)
	require.False(t, decoded.SignatureValid)
}

func TestDecodeTamperedPayload(t *testing.T) {
	tok, err := Encode([]byte(Header), []byte(`{"userName":"alice"}`), "secret")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	parts[1] = b64.EncodeToString([]byte(`{"userName":"mallory"}`))
	tampered := strings.Join(parts, ".")

	decoded, err := Decode(tampered, "secret")
	require.NoError(t, err)
	require.False(t, decoded.SignatureValid)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"no separators":    "justonechunk",
		"two segments":     "aGVhZGVy.cGF5bG9hZA",
		"four segments":    "YQ.YQ.YQ.YQ",
		"empty segment":    "YQ..YQ",
		"invalid base64":   "!!!.e30.c2ln",
		"payload not json": b64.EncodeToString([]byte(Header)) + "." + b64.EncodeToString([]byte("not json")) + ".c2ln",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(tok, "secret")
			require.Error(t, err)
			require.True(t, apperrors.Is(err, apperrors.TokenMalformed))
		})
	}
}

func TestEncodeRequiresSecret(t *testing.T) {
	_, err := Encode([]byte(Header), []byte(`{}`), "")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.Configuration))
}
