package responder

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strings"
	"text/template"

	"github.com/alicydosanjos/Bot-Email/internal/category"
)

// templateData is what reply templates can reference.
type templateData struct {
	Name string
}

// Responder fills reply templates keyed by category. Template selection
// hashes the email text so the same email always gets the same reply.
type Responder struct {
	templates    map[category.Category][]*template.Template
	raw          map[category.Category][]string
	fallbackName string
}

// New parses the template bank from the category set. fallbackName is
// substituted when the recipient name is unknown ("Cliente" by default).
func New(cats *category.Set, fallbackName string) (*Responder, error) {
	if fallbackName == "" {
		fallbackName = "Cliente"
	}
	r := &Responder{
		templates:    make(map[category.Category][]*template.Template),
		raw:          make(map[category.Category][]string),
		fallbackName: fallbackName,
	}
	for _, cat := range category.All() {
		bank := cats.Templates(cat)
		if len(bank) == 0 {
			return nil, fmt.Errorf("no reply templates for category %s", cat)
		}
		for i, raw := range bank {
			tmpl, err := template.New(fmt.Sprintf("%s-%d", cat, i)).Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %d for %s: %w", i, cat, err)
			}
			r.templates[cat] = append(r.templates[cat], tmpl)
			r.raw[cat] = append(r.raw[cat], raw)
		}
	}
	return r, nil
}

// Generate renders the reply for an email. It never fails: the category
// set is closed and every category has at least one parsed template.
func (r *Responder) Generate(text string, cat category.Category, recipientName string) string {
	bank := r.templates[cat]
	if len(bank) == 0 {
		bank = r.templates[category.Greeting]
	}
	tmpl := bank[templateIndex(text, len(bank))]

	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = r.fallbackName
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Name: name}); err != nil {
		// Execution over a plain struct cannot fail for well-formed
		// templates; fall back to the raw text rather than erroring.
		return r.raw[cat][templateIndex(text, len(bank))]
	}
	return buf.String()
}

// templateIndex picks a deterministic slot by hashing the email text.
func templateIndex(text string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return int(h.Sum32() % uint32(n))
}
