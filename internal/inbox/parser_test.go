package inbox

import (
	"strings"
	"testing"
)

const sampleEmail = "From: Maria Silva <maria@example.com>\r\n" +
	"To: bot@example.com\r\n" +
	"Subject: Agendamento de reuniao\r\n" +
	"Date: Mon, 13 Jul 2026 10:30:00 -0300\r\n" +
	"Message-ID: <abc123@example.com>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Ola, gostaria de agendar uma reuniao para a proxima semana.\r\n"

func TestParseMessage(t *testing.T) {
	email, err := ParseMessage(strings.NewReader(sampleEmail))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}

	if email.From != "maria@example.com" {
		t.Errorf("From = %q, want maria@example.com", email.From)
	}
	if email.FromName != "Maria Silva" {
		t.Errorf("FromName = %q, want Maria Silva", email.FromName)
	}
	if email.FromDomain != "example.com" {
		t.Errorf("FromDomain = %q, want example.com", email.FromDomain)
	}
	if email.Subject != "Agendamento de reuniao" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if !strings.Contains(email.Body, "agendar uma reuniao") {
		t.Errorf("Body = %q", email.Body)
	}
	if email.ReceivedAt.IsZero() {
		t.Error("ReceivedAt not parsed")
	}
}

func TestParseMessageHTMLOnly(t *testing.T) {
	raw := "From: suporte@example.com\r\n" +
		"Subject: Resposta\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><head><style>p{color:red}</style></head>" +
		"<body><p>Temos um <b>problema</b> grave.</p>" +
		"<script>alert('x')</script></body></html>\r\n"

	email, err := ParseMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}

	if email.Body != "" {
		t.Errorf("Body = %q, want empty for HTML-only message", email.Body)
	}
	text := email.Text()
	if !strings.Contains(text, "problema") {
		t.Errorf("Text() = %q, want the HTML content as text", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("Text() leaked script or style content: %q", text)
	}
}

func TestTextPrefersPlainBody(t *testing.T) {
	email := &Email{Body: "texto plano", HTMLBody: "<p>html</p>"}
	if got := email.Text(); got != "texto plano" {
		t.Errorf("Text() = %q, want the plain body", got)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "collapses whitespace",
			in:   "<p>ola,    tudo\t bem</p>",
			want: "ola, tudo bem",
		},
		{
			name: "multiple blocks",
			in:   "<div>primeira</div><p>\n  segunda  \n</p>",
			want: "primeirasegunda",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlToText(tt.in)
			got = strings.ReplaceAll(got, "\n", "")
			if got != tt.want {
				t.Errorf("htmlToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSenderFirstName(t *testing.T) {
	tests := []struct {
		fromName string
		want     string
	}{
		{"Maria Silva", "Maria"},
		{"Carlos", "Carlos"},
		{`"Ana Souza"`, "Ana"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		email := &Email{FromName: tt.fromName}
		if got := email.SenderFirstName(); got != tt.want {
			t.Errorf("SenderFirstName(%q) = %q, want %q", tt.fromName, got, tt.want)
		}
	}
}
