package service

import (
	"encoding/json"
	"testing"

	"payurl-service/internal/core/aop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(t *testing.T, payload string) *aop.Response {
	t.Helper()
	var r aop.Response
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	return &r
}

func TestPayURLSuccess(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantOK  bool
		wantURL string
	}{
		{"BoolWithPayURL", `{"success":true,"payUrl":"https://pay/a"}`, true, "https://pay/a"},
		{"StringWithResultURL", `{"success":"true","result":{"url":"https://pay/b"}}`, true, "https://pay/b"},
		{"PayURLPreferredOverResultURL", `{"success":true,"payUrl":"https://pay/a","result":{"url":"https://pay/b"}}`, true, "https://pay/a"},
		{"FlagWithoutURL", `{"success":true}`, true, ""},
		{"BarePayURL", `{"success":false,"payUrl":"https://pay/c"}`, true, "https://pay/c"},
		{"BareResultURL", `{"result":{"url":"https://pay/d"}}`, true, "https://pay/d"},
		{"Failure", `{"success":false,"errorMsg":"order [1] not payable"}`, false, ""},
		{"StringFalse", `{"success":"false"}`, false, ""},
		{"ResultNotObject", `{"success":false,"result":"https://pay/e"}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, url := payURLSuccess(response(t, tt.payload))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestDetailSuccess(t *testing.T) {
	assert.True(t, detailSuccess(response(t, `{"success":true}`)))
	assert.True(t, detailSuccess(response(t, `{"success":"true"}`)))
	assert.False(t, detailSuccess(response(t, `{"success":false,"payUrl":"https://pay/x"}`)))
	assert.False(t, detailSuccess(response(t, `{"result":{"url":"https://pay/x"}}`)))
}

func TestFailureText(t *testing.T) {
	assert.Equal(t, "msg", failureText(&aop.Response{ErrorMsg: "msg", Error: "err"}, "fallback"))
	assert.Equal(t, "err", failureText(&aop.Response{Error: "err"}, "fallback"))
	assert.Equal(t, "fallback", failureText(&aop.Response{}, "fallback"))
}
