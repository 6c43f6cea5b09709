package mailer

import (
	"context"
	"fmt"
	"strings"
)

// Mailer delivers account lifecycle email. Implementations either send
// directly (SMTP) or hand the message to a broker for asynchronous
// delivery; in both cases a returned error means the message was not
// accepted and the caller must compensate.
type Mailer interface {
	SendActivation(ctx context.Context, to, token string) error
}

// ActivationMessage is the payload queue-backed mailers publish and the
// mail worker consumes.
type ActivationMessage struct {
	To    string `json:"to"`
	Token string `json:"token"`
	Link  string `json:"link"`
}

// ActivationLink builds the public link the recipient clicks to activate
// the account.
func ActivationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/activate/%s", strings.TrimRight(baseURL, "/"), token)
}

func buildActivationEmail(from, to, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Account Activation\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, `<div>
<b>Please click below link to activate your account</b>
</div>
<div>
<a href="%s">Activate</a>
</div>`, link)
	return []byte(b.String())
}
