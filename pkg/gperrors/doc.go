// Package gperrors provides structured error handling for gpauth.
//
// All errors produced by the authentication engine carry a stable ErrorCode
// so that callers can branch on the outcome of a login step (retry, re-prompt,
// abort) without string matching.
//
// # Overview
//
// The gperrors package provides:
//   - Structured errors with code, message, details, and wrapped cause
//   - Error codes matching the GlobalProtect login outcome taxonomy
//   - Helper functions for creating and inspecting errors
//
// # Basic Usage
//
//	import "github.com/tendant/gpauth/pkg/gperrors"
//
//	err := gperrors.New(gperrors.ErrCodeAuthorizationRejected, "invalid username or password")
//
//	if gperrors.IsCode(err, gperrors.ErrCodeAuthorizationRejected) {
//		// clear the form and re-prompt
//	}
package gperrors
