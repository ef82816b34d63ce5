package aop

import (
	"bytes"
	"encoding/json"
)

// Response is the loosely typed envelope returned by gateway APIs.
//
// The platform is inconsistent between APIs and versions: success arrives as
// a JSON boolean or as the string "true", and the pay URL may sit at the top
// level or under result.url. Response keeps the raw shapes so callers decide
// how to interpret them.
type Response struct {
	// Success is the decoded "success" field: a bool, a string, or nil.
	Success any
	// ErrorMsg is the platform's business error text.
	ErrorMsg string
	// Error is a transport level failure description, or the platform's
	// "error" field when present.
	Error string
	// PayURL is the top-level "payUrl" field.
	PayURL string
	// Result is the raw "result" member, untouched.
	Result json.RawMessage

	// Cause is the transport or decode error that produced a synthetic failure.
	Cause error `json:"-"`
}

// failure builds the synthetic response used when no usable payload was received.
func failure(err error) *Response {
	return &Response{
		Success: false,
		Error:   err.Error(),
		Cause:   err,
	}
}

// UnmarshalJSON decodes the envelope field by field so that a single
// unexpected type never discards the rest of the payload.
func (r *Response) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	r.Success = decodeAny(raw["success"])
	r.ErrorMsg = looseString(raw["errorMsg"], false)
	r.Error = looseString(raw["error"], true)
	r.PayURL = looseString(raw["payUrl"], false)
	if res, ok := raw["result"]; ok && !isNull(res) {
		r.Result = res
	}
	return nil
}

// SuccessIsBool reports whether success is the JSON boolean true.
func (r *Response) SuccessIsBool() bool {
	v, ok := r.Success.(bool)
	return ok && v
}

// SuccessIsString reports whether success is the literal string "true".
func (r *Response) SuccessIsString() bool {
	v, ok := r.Success.(string)
	return ok && v == "true"
}

// ResultURL returns result.url when result is an object carrying a non-empty string url.
func (r *Response) ResultURL() string {
	var res struct {
		URL json.RawMessage `json:"url"`
	}
	if !r.resultObject(&res) {
		return ""
	}
	return looseString(res.URL, false)
}

// PayStatusDesc returns result.tradeTerms[0].payStatusDesc.
// The boolean is false when any step of that path is missing or mistyped.
func (r *Response) PayStatusDesc() (string, bool) {
	var res struct {
		TradeTerms []map[string]json.RawMessage `json:"tradeTerms"`
	}
	if !r.resultObject(&res) || len(res.TradeTerms) == 0 {
		return "", false
	}

	rawDesc, ok := res.TradeTerms[0]["payStatusDesc"]
	if !ok {
		return "", false
	}
	var desc string
	if err := json.Unmarshal(rawDesc, &desc); err != nil {
		return "", false
	}
	return desc, true
}

func (r *Response) resultObject(dst any) bool {
	trimmed := bytes.TrimSpace(r.Result)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Unmarshal(trimmed, dst) == nil
}

func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// looseString returns the value of a JSON string. Other types yield ""
// unless keepRaw is set, in which case their JSON text is returned.
func looseString(raw json.RawMessage, keepRaw bool) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if keepRaw {
		return string(raw)
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
