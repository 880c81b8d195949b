package classify

import (
	"errors"
	"testing"

	"github.com/alicydosanjos/Bot-Email/internal/category"
)

func newTestClassifier() *Classifier {
	return New(category.DefaultSet(), DefaultOptions())
}

// trainingSet builds a balanced labeled corpus: every category gets each
// of its base sentences repeated a few times.
func trainingSet(perSentence int) []Example {
	base := map[string][]string{
		"greeting": {
			"Olá, tudo bem com você? Passando para dar um alô",
			"Bom dia, espero que esteja tudo ótimo por aí",
			"Boa tarde, só queria mandar um oi e desejar boa semana",
		},
		"question": {
			"Tenho uma dúvida sobre como funciona o plano premium",
			"Qual é o prazo de entrega para pedidos internacionais?",
			"Gostaria de saber onde encontro a documentação da API",
		},
		"complaint": {
			"O sistema apresenta um erro grave e não funciona desde ontem",
			"Estou muito insatisfeito, o produto chegou quebrado",
			"Essa é a terceira vez que registro o mesmo problema sem solução",
		},
		"proposal": {
			"Tenho uma proposta de parceria comercial para apresentar",
			"Minha sugestão é integrarmos nossas plataformas em colaboração",
			"Gostaria de apresentar uma ideia de projeto conjunto",
		},
		"scheduling": {
			"Podemos agendar uma reunião para a próxima semana?",
			"Qual horário fica melhor para marcarmos nosso encontro?",
			"Preciso remarcar a data da nossa reunião de alinhamento",
		},
		"urgency": {
			"Situação urgente, preciso de retorno imediato por favor",
			"Emergência no servidor de produção, respondam o mais rápido possível",
			"Isso é urgente, o prazo vence hoje e preciso de resposta agora",
		},
	}

	var examples []Example
	for label, sentences := range base {
		for _, s := range sentences {
			for i := 0; i < perSentence; i++ {
				examples = append(examples, Example{Text: s, Label: label})
			}
		}
	}
	return examples
}

func TestClassifyUntrainedFallback(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		text string
		want category.Category
	}{
		{
			name: "scheduling beats greeting",
			text: "Bom dia, gostaria de agendar uma reunião",
			want: category.Scheduling,
		},
		{
			name: "urgency beats scheduling",
			text: "Bom dia! Preciso agendar uma reunião urgente",
			want: category.Urgency,
		},
		{
			name: "complaint with phrase keyword",
			text: "O sistema não funciona, tenho um problema sério",
			want: category.Complaint,
		},
		{
			name: "plain greeting",
			text: "Olá, tudo bem?",
			want: category.Greeting,
		},
		{
			name: "question",
			text: "Tenho uma dúvida sobre a fatura",
			want: category.Question,
		},
		{
			name: "no keyword defaults to greeting",
			text: "xyzzy plugh",
			want: category.Greeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Category != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got.Category, tt.want)
			}
			if got.FromModel {
				t.Error("untrained classifier reported a model prediction")
			}
			if got.Confidence < 0 || got.Confidence > 0.9 {
				t.Errorf("fallback confidence = %v, out of [0, 0.9]", got.Confidence)
			}
		})
	}
}

func TestClassifyAlwaysInClosedSet(t *testing.T) {
	c := newTestClassifier()

	texts := []string{"", "!!!", "随机文本", "lorem ipsum dolor sit amet"}
	for _, text := range texts {
		got := c.Classify(text)
		if category.Index(got.Category) < 0 {
			t.Errorf("Classify(%q) produced %v, outside the closed set", text, got.Category)
		}
	}
}

func TestTrainRejectsTooFewExamples(t *testing.T) {
	c := newTestClassifier()

	examples := []Example{
		{Text: "Olá", Label: "greeting"},
		{Text: "Urgente", Label: "urgency"},
	}

	_, err := c.Train(examples)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Train() error = %v, want ValidationError", err)
	}
	if c.Trained() {
		t.Error("classifier marked trained after failed validation")
	}
	// The rule fallback still works.
	if got := c.Classify("Olá, tudo bem?"); got.Category != category.Greeting {
		t.Errorf("Classify after failed train = %v, want greeting", got.Category)
	}
}

func TestTrainRejectsSingleCategory(t *testing.T) {
	c := newTestClassifier()

	var examples []Example
	for i := 0; i < 20; i++ {
		examples = append(examples, Example{Text: "Olá, tudo bem?", Label: "greeting"})
	}

	_, err := c.Train(examples)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Train() error = %v, want ValidationError", err)
	}
}

func TestTrainSkipsUnknownLabels(t *testing.T) {
	c := newTestClassifier()

	examples := trainingSet(4)
	examples = append(examples,
		Example{Text: "mensagem sem categoria", Label: "spam"},
		Example{Text: "outra mensagem", Label: "other"},
	)

	report, err := c.Train(examples)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if report.SkippedRows != 2 {
		t.Errorf("SkippedRows = %d, want 2", report.SkippedRows)
	}
}

func TestTrainAndClassify(t *testing.T) {
	c := newTestClassifier()
	examples := trainingSet(4) // 72 rows

	report, err := c.Train(examples)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}

	if !c.Trained() {
		t.Fatal("classifier not trained after successful Train")
	}
	if report.TrainCount+report.TestCount != len(examples) {
		t.Errorf("TrainCount+TestCount = %d, want %d", report.TrainCount+report.TestCount, len(examples))
	}
	if len(report.Confusion) != 6 {
		t.Fatalf("confusion matrix has %d rows, want 6", len(report.Confusion))
	}
	for i, row := range report.Confusion {
		if len(row) != 6 {
			t.Fatalf("confusion row %d has %d columns, want 6", i, len(row))
		}
	}
	if len(report.PerClass) != 6 {
		t.Errorf("PerClass has %d entries, want 6", len(report.PerClass))
	}
	if report.Accuracy < 0.8 {
		t.Errorf("Accuracy = %.2f on a separable corpus, want >= 0.8", report.Accuracy)
	}

	got := c.Classify("Podemos agendar uma reunião para semana que vem?")
	if !got.FromModel {
		t.Error("trained classifier fell back to rules")
	}
	if got.Category != category.Scheduling {
		t.Errorf("Classify = %v, want scheduling", got.Category)
	}
}

func TestTrainReproducible(t *testing.T) {
	examples := trainingSet(4)

	a := newTestClassifier()
	b := newTestClassifier()

	reportA, err := a.Train(examples)
	if err != nil {
		t.Fatal(err)
	}
	reportB, err := b.Train(examples)
	if err != nil {
		t.Fatal(err)
	}

	if reportA.Accuracy != reportB.Accuracy {
		t.Errorf("same seed produced different accuracy: %v vs %v", reportA.Accuracy, reportB.Accuracy)
	}
	for i := range reportA.Confusion {
		for j := range reportA.Confusion[i] {
			if reportA.Confusion[i][j] != reportB.Confusion[i][j] {
				t.Fatalf("same seed produced different confusion matrices at [%d][%d]", i, j)
			}
		}
	}
}

func TestTrainAllAlgorithms(t *testing.T) {
	examples := trainingSet(4)

	for _, alg := range []Algorithm{NaiveBayes, LogisticRegression, LinearSVM, RandomForest} {
		t.Run(string(alg), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Algorithm = alg
			c := New(category.DefaultSet(), opts)

			report, err := c.Train(examples)
			if err != nil {
				t.Fatalf("Train() error: %v", err)
			}
			if report.Algorithm != alg {
				t.Errorf("report algorithm = %v, want %v", report.Algorithm, alg)
			}

			got := c.Classify("Emergência, preciso de resposta urgente imediata")
			if !got.FromModel {
				t.Error("trained classifier fell back to rules")
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence = %v, out of [0, 1]", got.Confidence)
			}
		})
	}
}
