package inbox

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message/mail"
)

// Email is a parsed incoming message.
type Email struct {
	UID        uint32 // IMAP UID, zero for messages parsed from files
	MessageID  string
	From       string
	FromName   string
	FromDomain string
	Subject    string
	Body       string
	HTMLBody   string
	ReceivedAt time.Time
}

// Text returns the best plain-text rendition of the message body.
func (e *Email) Text() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return htmlToText(e.HTMLBody)
}

// SenderFirstName returns the first word of the sender display name, for
// addressing replies. Empty when the name is unknown.
func (e *Email) SenderFirstName() string {
	name := strings.TrimSpace(e.FromName)
	if name == "" {
		return ""
	}
	if i := strings.IndexAny(name, " \t"); i > 0 {
		name = name[:i]
	}
	return strings.Trim(name, `"'`)
}

// ParseMessage reads a full RFC 5322 message (e.g. an .eml file) into an
// Email. Used by the CLI; the monitor fills envelope fields from IMAP.
func ParseMessage(r io.Reader) (*Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	email := &Email{}

	header := mr.Header
	if subject, err := header.Subject(); err == nil {
		email.Subject = subject
	}
	if date, err := header.Date(); err == nil {
		email.ReceivedAt = date
	}
	if msgID, err := header.MessageID(); err == nil {
		email.MessageID = msgID
	}
	if addrs, err := header.AddressList("From"); err == nil && len(addrs) > 0 {
		email.From = addrs[0].Address
		email.FromName = addrs[0].Name
		if at := strings.LastIndex(addrs[0].Address, "@"); at >= 0 {
			email.FromDomain = strings.ToLower(addrs[0].Address[at+1:])
		}
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, _ := io.ReadAll(p.Body)

			if strings.HasPrefix(ct, "text/plain") && email.Body == "" {
				email.Body = string(body)
			} else if strings.HasPrefix(ct, "text/html") && email.HTMLBody == "" {
				email.HTMLBody = string(body)
			}
		}
	}

	return email, nil
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// htmlToText strips markup from an HTML body, dropping script and style
// content entirely.
func htmlToText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style").Remove()

	text := doc.Text()
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
