package checkout

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	directParam   = "direct"
	quantityParam = "qty"
)

// BuildCheckoutURL appends the direct-purchase flag and the item quantity to
// a vendor-supplied checkout URL, preserving whatever query is already
// there. The router never touches path or host. If the URL does not parse,
// plain string concatenation applies the same rule rather than aborting the
// item's checkout.
func BuildCheckoutURL(base string, quantity int) string {
	u, err := url.Parse(base)
	if err != nil {
		return concatCheckoutURL(base, quantity)
	}

	query := u.Query()
	query.Set(directParam, "true")
	query.Set(quantityParam, fmt.Sprintf("%d", quantity))
	u.RawQuery = query.Encode()

	return u.String()
}

func concatCheckoutURL(base string, quantity int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=true&%s=%d", base, sep, directParam, quantityParam, quantity)
}
