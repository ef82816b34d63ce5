package service

import "payurl-service/internal/core/aop"

// payURLSuccess classifies a cross-border pay URL response and returns the URL.
//
// The platform signals success in several ways depending on API version and
// gateway path, so the checks run in this order and the first match wins:
//
//  1. success is boolean true or the string "true". The URL is payUrl, else
//     result.url; it may be empty.
//  2. payUrl is present, whatever success says. Seen on responses that omit
//     success altogether.
//  3. result.url is present, whatever success says. The nested shape used by
//     the param2 gateway.
//
// Collapsing this into a single typed check drops real successes.
func payURLSuccess(resp *aop.Response) (bool, string) {
	if resp.SuccessIsBool() || resp.SuccessIsString() {
		if resp.PayURL != "" {
			return true, resp.PayURL
		}
		return true, resp.ResultURL()
	}

	if resp.PayURL != "" {
		return true, resp.PayURL
	}

	if u := resp.ResultURL(); u != "" {
		return true, u
	}

	return false, ""
}

// detailSuccess classifies an order detail response. Only the explicit
// success flag counts here; URL presence means nothing for this API.
func detailSuccess(resp *aop.Response) bool {
	return resp.SuccessIsBool() || resp.SuccessIsString()
}

// failureText picks the most specific error description of a failed response.
func failureText(resp *aop.Response, fallback string) string {
	if resp.ErrorMsg != "" {
		return resp.ErrorMsg
	}
	if resp.Error != "" {
		return resp.Error
	}
	return fallback
}
