package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xenking/hotpot/internal/domain/price"
)

// Message renders the text a shopper sends to the seller after checkout.
// The output depends only on o and shopName.
func Message(o Order, shopName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi, I just placed an order on %s!\n\n", shopName)
	fmt.Fprintf(&b, "Order Code: %s\n\n", o.Code)
	b.WriteString("Here's my order summary:\n")
	for i, l := range o.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%dx %s - %s", l.Quantity, l.Name, l.Price)
	}
	fmt.Fprintf(&b, "\n\nTotal: %s\n\n", price.Format(o.Total))
	b.WriteString("Please confirm my order. Thank you!")
	return b.String()
}

// WhatsAppLink returns a wa.me deep link that opens a chat with number and
// text pre-filled. Non-digits in number are dropped.
func WhatsAppLink(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
