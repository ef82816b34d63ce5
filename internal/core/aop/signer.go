// Package aop implements the signed call protocol of the 1688 open platform
// gateway (the "AOP" parameter convention: _aop_timestamp, _aop_signature).
package aop

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	// ParamAccessToken carries the buyer authorization token.
	ParamAccessToken = "access_token"
	// ParamTimestamp carries the request time in Unix milliseconds.
	ParamTimestamp = "_aop_timestamp"
	// ParamSignature carries the request signature. It is never part of the signed message.
	ParamSignature = "_aop_signature"
)

// Sign returns the uppercase hex HMAC-SHA1 of the signing message for a call.
//
// The signing message is path followed by key+value for every parameter,
// in byte order of the keys, with no separators. ParamSignature is skipped
// if present so a request can be re-signed in place.
func Sign(path string, params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ParamSignature {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
