package order

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds the fire-and-forget messaging deep link. The caller
// opens it in a new browsing context; no response is ever read back.
func WhatsAppLink(host, sellerPhone, text string) string {
	u := url.URL{
		Scheme: "https",
		Host:   strings.TrimSpace(host),
		Path:   "/send",
	}
	q := url.Values{}
	q.Set("phone", strings.TrimSpace(sellerPhone))
	q.Set("text", text)
	u.RawQuery = q.Encode()
	return u.String()
}
