package bot

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/classify"
	"github.com/alicydosanjos/Bot-Email/internal/config"
	"github.com/alicydosanjos/Bot-Email/internal/textproc"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	b, err := New(config.Default(), category.DefaultSet())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return b
}

func TestAnalyzeUntrained(t *testing.T) {
	b := newTestBot(t)

	got := b.Analyze("Bom dia, gostaria de agendar uma reunião para discutir o projeto", "Carlos")

	if got.Category != category.Scheduling {
		t.Errorf("Category = %v, want scheduling", got.Category)
	}
	if got.CategoryName != "Agendamento" {
		t.Errorf("CategoryName = %q, want Agendamento", got.CategoryName)
	}
	if got.FromModel {
		t.Error("untrained bot reported a model prediction")
	}
	if got.Sentiment != textproc.Neutral {
		t.Errorf("Sentiment = %v, want neutral", got.Sentiment)
	}

	keywords := strings.Join(got.Keywords, " ")
	if !strings.Contains(keywords, "agendar") || !strings.Contains(keywords, "reuniao") {
		t.Errorf("Keywords = %v, want agendar and reuniao present", got.Keywords)
	}
	if !strings.Contains(got.Response, "Carlos") {
		t.Errorf("Response does not address the sender: %q", got.Response)
	}
}

func TestAnalyzeComplaint(t *testing.T) {
	b := newTestBot(t)

	got := b.Analyze("O sistema está com um problema grave e estou muito insatisfeito", "")

	if got.Category != category.Complaint {
		t.Errorf("Category = %v, want complaint", got.Category)
	}
	if got.Sentiment != textproc.Negative {
		t.Errorf("Sentiment = %v, want negative", got.Sentiment)
	}
	if !strings.Contains(got.Response, "Cliente") {
		t.Errorf("Response without sender name should use the fallback: %q", got.Response)
	}
}

func TestTrainSaveLoadThroughFacade(t *testing.T) {
	b := newTestBot(t)

	var examples []classify.Example
	sentences := map[string]string{
		"greeting":   "Olá, tudo bem com você?",
		"question":   "Qual é o prazo de entrega do pedido?",
		"complaint":  "O produto chegou quebrado e estou insatisfeito",
		"proposal":   "Tenho uma proposta de parceria para apresentar",
		"scheduling": "Podemos agendar uma reunião na próxima semana?",
		"urgency":    "Urgente, preciso de retorno imediato agora",
	}
	for label, text := range sentences {
		for i := 0; i < 4; i++ {
			examples = append(examples, classify.Example{Text: text, Label: label})
		}
	}

	report, err := b.TrainModel(examples)
	if err != nil {
		t.Fatalf("TrainModel() error: %v", err)
	}
	if report == nil || !b.Trained() {
		t.Fatal("bot not trained after TrainModel")
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := b.SaveModel(path); err != nil {
		t.Fatalf("SaveModel() error: %v", err)
	}

	fresh := newTestBot(t)
	if fresh.Trained() {
		t.Fatal("fresh bot claims to be trained")
	}
	if err := fresh.LoadModel(path); err != nil {
		t.Fatalf("LoadModel() error: %v", err)
	}
	if !fresh.Trained() {
		t.Fatal("bot not trained after LoadModel")
	}

	text := "Podemos agendar uma reunião amanhã?"
	a := b.ClassifyEmail(text)
	c := fresh.ClassifyEmail(text)
	if a.Category != c.Category {
		t.Errorf("loaded bot classifies %q as %v, original said %v", text, c.Category, a.Category)
	}
}

func TestConcurrentClassifyDuringTrain(t *testing.T) {
	b := newTestBot(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			got := b.ClassifyEmail("Preciso agendar uma reunião urgente")
			if category.Index(got.Category) < 0 {
				t.Errorf("Classify produced %v, outside the closed set", got.Category)
				return
			}
		}
	}()

	var examples []classify.Example
	for i := 0; i < 10; i++ {
		examples = append(examples, classify.Example{Text: "Olá, tudo bem?", Label: "greeting"})
		examples = append(examples, classify.Example{Text: "Urgente, responda agora", Label: "urgency"})
	}
	if _, err := b.TrainModel(examples); err != nil {
		t.Fatalf("TrainModel() error: %v", err)
	}
	<-done
}
