package textproc

import "testing"

func TestSentimentScore(t *testing.T) {
	scorer := NewSentimentScorer(3, 0.1)

	tests := []struct {
		name string
		in   string
		want Label
	}{
		{
			name: "neutral inquiry",
			in:   "Gostaria de saber mais sobre o produto",
			want: Neutral,
		},
		{
			name: "negative complaint",
			in:   "O sistema está com um problema grave e estou muito insatisfeito",
			want: Negative,
		},
		{
			name: "positive thanks",
			in:   "Muito obrigado, o atendimento foi excelente e perfeito",
			want: Positive,
		},
		{
			name: "empty text",
			in:   "",
			want: Neutral,
		},
		{
			name: "punctuation only",
			in:   "?!...",
			want: Neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.in); got != tt.want {
				t.Errorf("Score(%q) = %v, want %v (polarity %.3f)", tt.in, got, tt.want, scorer.Polarity(tt.in))
			}
		})
	}
}

func TestSentimentPolarityRange(t *testing.T) {
	scorer := NewSentimentScorer(3, 0.1)

	texts := []string{
		"obrigado excelente perfeito",
		"problema erro falha pessimo",
		"reunião amanhã sobre o projeto",
	}
	for _, text := range texts {
		p := scorer.Polarity(text)
		if p < -1 || p > 1 {
			t.Errorf("Polarity(%q) = %.3f, out of [-1, 1]", text, p)
		}
	}
}

func TestSentimentDeterministic(t *testing.T) {
	scorer := NewSentimentScorer(3, 0.1)
	text := "Estou muito insatisfeito com o erro grave no sistema"

	first := scorer.Score(text)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(text); got != first {
			t.Fatalf("Score is not deterministic: %v then %v", first, got)
		}
	}
}

func TestSentimentThresholdDefault(t *testing.T) {
	scorer := NewSentimentScorer(3, 0)
	if scorer.threshold != 0.1 {
		t.Errorf("threshold = %v, want 0.1", scorer.threshold)
	}
}
