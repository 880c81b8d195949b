package textproc

// Label is the sentiment of an email text.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Polarity lexicons, folded (lowercase, accent-stripped). Portuguese plus
// the English words that show up in mixed-language business email.
var (
	positiveLexicon = buildLexicon([]string{
		"obrigado", "obrigada", "agradeco", "agradecemos", "otimo", "otima",
		"excelente", "maravilhoso", "maravilhosa", "perfeito", "perfeita",
		"parabens", "satisfeito", "satisfeita", "feliz", "adorei", "gostei",
		"sucesso", "legal", "bacana", "incrivel",
		"great", "excellent", "awesome", "amazing", "wonderful", "perfect",
		"thanks", "thank", "happy", "love", "loved", "pleased", "good",
	})

	negativeLexicon = buildLexicon([]string{
		"problema", "problemas", "erro", "erros", "falha", "falhas", "grave",
		"pessimo", "pessima", "horrivel", "ruim", "insatisfeito",
		"insatisfeita", "reclamacao", "defeito", "quebrado", "quebrada",
		"lento", "lenta", "absurdo", "inaceitavel", "decepcionado",
		"decepcionada", "cancelar", "prejuizo",
		"bad", "terrible", "awful", "broken", "wrong", "angry", "hate",
		"issue", "error", "fail", "failure", "disappointed", "unhappy",
		"unacceptable", "worst",
	})
)

func buildLexicon(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[Fold(w)] = struct{}{}
	}
	return set
}

// SentimentScorer maps text to a polarity label via a configurable
// threshold. Deterministic; empty text scores neutral.
type SentimentScorer struct {
	norm      *Normalizer
	threshold float64
}

func NewSentimentScorer(minWordLength int, threshold float64) *SentimentScorer {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &SentimentScorer{
		// Lexicon words are surface forms, so the scorer never stems.
		norm:      NewNormalizer(minWordLength, true, false, ""),
		threshold: threshold,
	}
}

// Polarity returns the signed lexicon-hit count normalized by token count,
// in [-1, 1]. Zero for empty or unscorable text.
func (s *SentimentScorer) Polarity(text string) float64 {
	tokens := s.norm.Normalize(text)
	if len(tokens) == 0 {
		return 0
	}

	score := 0
	for _, tok := range tokens {
		if _, ok := positiveLexicon[tok]; ok {
			score++
		}
		if _, ok := negativeLexicon[tok]; ok {
			score--
		}
	}
	return float64(score) / float64(len(tokens))
}

// Score maps the polarity estimate to positive/neutral/negative.
func (s *SentimentScorer) Score(text string) Label {
	p := s.Polarity(text)
	switch {
	case p > s.threshold:
		return Positive
	case p < -s.threshold:
		return Negative
	default:
		return Neutral
	}
}
