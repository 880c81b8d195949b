package category

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one of the six fixed intents an email can be classified into.
// The set is closed: classification never produces a value outside it.
type Category string

const (
	Greeting   Category = "greeting"
	Question   Category = "question"
	Complaint  Category = "complaint"
	Proposal   Category = "proposal"
	Scheduling Category = "scheduling"
	Urgency    Category = "urgency"
)

// All returns the categories in canonical order. Evaluation reports
// (confusion matrix rows/columns) follow this order.
func All() []Category {
	return []Category{Greeting, Question, Complaint, Proposal, Scheduling, Urgency}
}

// Index returns the position of c in the canonical order, or -1.
func Index(c Category) int {
	for i, v := range All() {
		if v == c {
			return i
		}
	}
	return -1
}

// Parse validates a label string against the closed category set.
func Parse(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if Index(c) >= 0 {
		return c, true
	}
	return "", false
}

// Definition is the immutable metadata attached to a category.
type Definition struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Keywords []string `yaml:"keywords"` // lowercase, accent-stripped; may contain phrases
	Priority int      `yaml:"priority"` // 1-6; higher values are more specific intents
}

// Set is the read-only category table plus the reply template bank,
// shared by all components.
type Set struct {
	defs      map[Category]Definition
	templates map[Category][]string
}

func defaultDefinitions() map[Category]Definition {
	return map[Category]Definition{
		Greeting: {
			Name:     "Saudação",
			Icon:     "🟢",
			Keywords: []string{"ola", "oi", "bom dia", "boa tarde", "boa noite", "hello", "hi"},
			Priority: 1,
		},
		Question: {
			Name:     "Dúvida",
			Icon:     "❓",
			Keywords: []string{"pergunta", "duvida", "como", "qual", "quando", "onde", "por que", "question"},
			Priority: 2,
		},
		Complaint: {
			Name:     "Reclamação",
			Icon:     "😠",
			Keywords: []string{"reclamacao", "problema", "erro", "bug", "nao funciona", "complain", "issue"},
			Priority: 3,
		},
		Proposal: {
			Name:     "Proposta",
			Icon:     "💡",
			Keywords: []string{"proposta", "sugestao", "ideia", "parceria", "colaboracao", "proposal", "suggestion"},
			Priority: 4,
		},
		Scheduling: {
			Name:     "Agendamento",
			Icon:     "📅",
			Keywords: []string{"agendar", "reuniao", "encontro", "horario", "data", "schedule", "meeting"},
			Priority: 5,
		},
		Urgency: {
			Name:     "Urgência",
			Icon:     "⚡",
			Keywords: []string{"urgente", "emergencia", "rapido", "asap", "urgent", "emergency", "imediato"},
			Priority: 6,
		},
	}
}

func defaultTemplates() map[Category][]string {
	return map[Category][]string{
		Greeting: {
			"Olá, {{.Name}}! Obrigado pelo seu contato. Recebi sua mensagem e estarei respondendo em breve.",
			"Oi, {{.Name}}! Obrigado por entrar em contato. Vou analisar sua solicitação e retornar assim que possível.",
			"Olá, {{.Name}}! Agradeço seu email. Estou verificando as informações e retornarei em breve.",
		},
		Question: {
			"Obrigado pela sua pergunta, {{.Name}}! Vou verificar as informações e retornar com uma resposta detalhada.",
			"Excelente pergunta, {{.Name}}! Deixe-me analisar e fornecer uma resposta completa para você.",
			"Obrigado pelo contato, {{.Name}}! Vou investigar sua dúvida e retornar com as informações necessárias.",
		},
		Complaint: {
			"{{.Name}}, lamento muito pelo inconveniente. Vou analisar sua reclamação com prioridade e entrar em contato para resolver.",
			"Peço desculpas pela situação, {{.Name}}. Sua reclamação foi recebida e será tratada com máxima prioridade.",
			"Obrigado por nos informar sobre o problema, {{.Name}}. Vou investigar e resolver isso o mais rápido possível.",
		},
		Proposal: {
			"Obrigado pela sua proposta, {{.Name}}! Vou analisar os detalhes e retornar com um feedback em breve.",
			"Interessante proposta, {{.Name}}! Deixe-me avaliar e entrar em contato para discutirmos melhor.",
			"Obrigado por compartilhar sua ideia, {{.Name}}! Vou estudar e retornar com uma resposta.",
		},
		Scheduling: {
			"Perfeito, {{.Name}}! Vou verificar minha agenda e retornar com horários disponíveis para agendarmos.",
			"Ótima ideia, {{.Name}}! Deixe-me conferir a disponibilidade e entrar em contato para agendar.",
			"Claro, {{.Name}}! Vou verificar as opções de horário e retornar para confirmarmos o agendamento.",
		},
		Urgency: {
			"{{.Name}}, entendi a urgência da situação. Vou priorizar sua solicitação e retornar o mais rápido possível.",
			"Situação urgente anotada, {{.Name}}! Vou tratar isso com prioridade máxima e entrar em contato em breve.",
			"Obrigado por destacar a urgência, {{.Name}}. Sua solicitação será tratada imediatamente.",
		},
	}
}

// DefaultSet returns the built-in category table and template bank.
func DefaultSet() *Set {
	return &Set{
		defs:      defaultDefinitions(),
		templates: defaultTemplates(),
	}
}

// Definition returns the metadata for a category.
func (s *Set) Definition(c Category) Definition {
	return s.defs[c]
}

// Templates returns the reply templates for a category.
func (s *Set) Templates(c Category) []string {
	return s.templates[c]
}

// ByPriorityDesc returns the categories ordered from highest priority
// number to lowest. The keyword-rule fallback scans in this order so the
// most specific intent (urgency, scheduling, ...) wins over generic
// matches like a leading "bom dia".
func (s *Set) ByPriorityDesc() []Category {
	cats := All()
	sort.SliceStable(cats, func(i, j int) bool {
		return s.defs[cats[i]].Priority > s.defs[cats[j]].Priority
	})
	return cats
}

type overrideFile struct {
	Categories map[string]Definition `yaml:"categories"`
	Templates  map[string][]string   `yaml:"templates"`
}

// LoadFile reads a category/template override file. The file may override
// any subset of categories; keys outside the closed set are rejected.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}

	set := DefaultSet()
	for key, def := range f.Categories {
		c, ok := Parse(key)
		if !ok {
			return nil, fmt.Errorf("categories file: unknown category %q", key)
		}
		if def.Priority < 1 || def.Priority > 6 {
			return nil, fmt.Errorf("categories file: %s: priority must be 1-6", key)
		}
		if len(def.Keywords) == 0 {
			return nil, fmt.Errorf("categories file: %s: at least one keyword is required", key)
		}
		for i, kw := range def.Keywords {
			def.Keywords[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		if def.Name == "" {
			def.Name = set.defs[c].Name
		}
		if def.Icon == "" {
			def.Icon = set.defs[c].Icon
		}
		set.defs[c] = def
	}
	for key, tmpls := range f.Templates {
		c, ok := Parse(key)
		if !ok {
			return nil, fmt.Errorf("categories file: unknown template category %q", key)
		}
		if len(tmpls) == 0 {
			return nil, fmt.Errorf("categories file: %s: at least one template is required", key)
		}
		set.templates[c] = tmpls
	}
	return set, nil
}
