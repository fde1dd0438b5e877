package authflow

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/tendant/gpauth/pkg/authform"
	"github.com/tendant/gpauth/pkg/gperrors"
)

// parsePortalConfig walks a portal config response. The portal returns a
// great deal of policy, but the only parts useful to a client are the
// gateway list under gateways/external/list, the HIP report interval, and
// the portal pass-through cookies. Builds the gateway-selection form,
// presents it, and redirects to the chosen gateway.
func (f *Flow) parsePortalConfig(ctx context.Context, lctx *loginContext, root *etree.Element) error {
	if root.Tag != "policy" {
		return gperrors.Newf(gperrors.ErrCodeMalformedResponse, "expected policy, got <%s>", root.Tag)
	}

	var gateways *etree.Element
	var portalName string
	for _, x := range root.ChildElements() {
		switch x.Tag {
		case "gateways":
			for _, x2 := range x.ChildElements() {
				if x2.Tag != "external" {
					continue
				}
				for _, x3 := range x2.ChildElements() {
					if x3.Tag == "list" {
						gateways = x3
					}
				}
			}
		case "hip-collection":
			for _, x2 := range x.ChildElements() {
				if x2.Tag != "hip-report-interval" {
					continue
				}
				sec, _ := strconv.Atoi(strings.TrimSpace(x2.Text()))
				if f.sess.TrojanInterval != 0 {
					lctx.log.Info("ignoring portal's HIP report interval; interval already set",
						"portal_minutes", sec/60, "configured_minutes", f.sess.TrojanInterval/60)
				} else {
					// One-minute safety margin versus the server's interval.
					f.sess.TrojanInterval = sec - 60
					lctx.log.Info("portal set HIP report interval", "minutes", sec/60)
				}
			}
		case "portal-name":
			portalName = x.Text()
		case "portal-userauthcookie":
			lctx.portalUserauthcookie = cookieValue(x.Text())
		case "portal-prelogonuserauthcookie":
			lctx.portalPrelogonuserauthcookie = cookieValue(x.Text())
		}
	}

	if gateways == nil {
		return gperrors.New(gperrors.ErrCodeMalformedResponse, "portal configuration contains no gateway list")
	}

	sel := &authform.Field{
		Name:  "gateway",
		Label: "GATEWAY:",
		Kind:  authform.Select,
	}
	// Each entry looks like <entry name="host[:443]"><description>Label</description></entry>
	for _, x := range gateways.ChildElements() {
		if x.Tag != "entry" {
			continue
		}
		choice := authform.Choice{Value: x.SelectAttrValue("name", "")}
		for _, x2 := range x.ChildElements() {
			if x2.Tag == "description" {
				choice.Label = x2.Text()
			}
		}
		sel.Choices = append(sel.Choices, choice)
	}
	if len(sel.Choices) == 0 {
		lctx.log.Error("portal configuration lists no gateway servers")
		return gperrors.New(gperrors.ErrCodeNoGatewaysAvailable, "portal configuration lists no gateway servers")
	}
	lctx.log.Info("gateway servers available", "count", len(sel.Choices))
	for _, c := range sel.Choices {
		lctx.log.Info("gateway", "label", c.Label, "host", c.Value)
	}

	if f.sess.AuthGroup == "" {
		f.sess.AuthGroup = sel.Choices[0].Value
	}

	if f.sess.WriteServerList != nil {
		doc, err := buildServerList(portalName, f.sess.Addr(), sel.Choices)
		if err == nil {
			err = f.sess.WriteServerList(doc)
		}
		if err != nil {
			return gperrors.Wrap(err, gperrors.ErrCodeInternal, "failed to write server list")
		}
	}

	form := &authform.Form{
		Message: "Please select GlobalProtect gateway.",
		AuthID:  authform.AuthIDPortal,
		Fields:  []*authform.Field{sel},
	}
	if err := f.presenter.Present(ctx, form); err != nil {
		if errors.Is(err, authform.ErrCancelled) {
			return gperrors.Wrap(err, gperrors.ErrCodeCancelled, "gateway selection cancelled")
		}
		return err
	}
	if sel.Value != "" {
		f.sess.AuthGroup = sel.Value
	}

	// Redirect to the gateway; a no-op if it is the same host.
	return f.transport.Redirect(ctx, "https://"+f.sess.AuthGroup)
}

// cookieValue normalizes a portal cookie: empty and the literal "empty"
// both mean absent.
func cookieValue(s string) string {
	if s == "empty" {
		return ""
	}
	return s
}

// buildServerList renders the <GPPortal><ServerList> host-list document:
// the portal name resolves to the original host, each gateway to its own
// host under /ssl-vpn.
func buildServerList(portalName, portalAddr string, choices []authform.Choice) ([]byte, error) {
	doc := etree.NewDocument()
	list := doc.CreateElement("GPPortal").CreateElement("ServerList")
	if portalName != "" {
		entry := list.CreateElement("HostEntry")
		entry.CreateElement("HostName").SetText(portalName)
		entry.CreateElement("HostAddress").SetText(portalAddr + "/global-protect")
	}
	for _, c := range choices {
		entry := list.CreateElement("HostEntry")
		entry.CreateElement("HostName").SetText(c.Label)
		entry.CreateElement("HostAddress").SetText(c.Value + "/ssl-vpn")
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}
