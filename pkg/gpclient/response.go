package gpclient

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// Challenge is a second-round authentication directive. The server delivers
// it as a small JavaScript body rather than XML.
type Challenge struct {
	Prompt   string // shown to the user
	InputStr string // opaque value echoed back as inputStr on resubmit
}

// Error strings the server uses in <response status="error" error="...">.
const (
	errInvalidCredentials  = "Invalid username or password"
	errGatewayDoesNotExist = "GlobalProtect gateway does not exist"
	errPortalDoesNotExist  = "GlobalProtect portal does not exist"
)

var (
	reRespStatus = regexp.MustCompile(`respStatus\s*=\s*"([^"]*)"`)
	reRespMsg    = regexp.MustCompile(`respMsg\s*=\s*"([^"]*)"`)
	reInputStr   = regexp.MustCompile(`inputStr(?:\.value)?\s*=\s*"([^"]*)"`)
)

// Interpret classifies a response body.
//
// An XML body yields its root element after the generic
// <response status="success"|"error"> convention is applied: success returns
// the root with no error, a recognized error string maps to the matching
// error code, unknown endpoints map to ErrCodeWrongEndpoint.
//
// A non-XML body is probed for a challenge directive (respStatus/respMsg/
// inputStr); anything else is malformed.
func Interpret(body []byte) (*etree.Element, *Challenge, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil, gperrors.New(gperrors.ErrCodeMalformedResponse, "empty response from server")
	}

	if trimmed[0] != '<' {
		if ch := parseChallenge(trimmed); ch != nil {
			return nil, ch, nil
		}
		return nil, nil, gperrors.New(gperrors.ErrCodeMalformedResponse, "response is neither XML nor a challenge directive")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(trimmed); err != nil {
		return nil, nil, gperrors.Wrap(err, gperrors.ErrCodeMalformedResponse, "failed to parse XML response")
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, gperrors.New(gperrors.ErrCodeMalformedResponse, "XML response has no root element")
	}

	if root.Tag == "response" {
		status := root.SelectAttrValue("status", "")
		if status == "success" {
			return root, nil, nil
		}
		errText := root.SelectAttrValue("error", "")
		if errText == "" {
			if e := root.FindElement("error"); e != nil {
				errText = strings.TrimSpace(e.Text())
			}
		}
		switch errText {
		case errInvalidCredentials:
			return nil, nil, gperrors.New(gperrors.ErrCodeAuthorizationRejected, errText)
		case errGatewayDoesNotExist, errPortalDoesNotExist:
			return nil, nil, gperrors.New(gperrors.ErrCodeWrongEndpoint, errText)
		default:
			return nil, nil, gperrors.Newf(gperrors.ErrCodeMalformedResponse, "server response error: %s", errText)
		}
	}

	return root, nil, nil
}

// parseChallenge extracts a challenge directive from a JavaScript body.
// Returns nil unless respStatus is exactly "challenge".
func parseChallenge(body string) *Challenge {
	status := reRespStatus.FindStringSubmatch(body)
	if status == nil || status[1] != "challenge" {
		return nil
	}
	ch := &Challenge{}
	if m := reRespMsg.FindStringSubmatch(body); m != nil {
		ch.Prompt = m[1]
	}
	if m := reInputStr.FindStringSubmatch(body); m != nil {
		ch.InputStr = m[1]
	}
	return ch
}
