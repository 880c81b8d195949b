package textproc

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	ex := NewKeywordExtractor(3, true)

	text := "Gostaria de agendar uma reunião para discutir o projeto. A reunião pode ser na próxima semana."
	got := ex.Extract(text, 10)

	if len(got) == 0 {
		t.Fatal("Extract returned no keywords")
	}
	// "reunião" appears twice, everything else once.
	if got[0] != "reuniao" {
		t.Errorf("top keyword = %q, want reuniao", got[0])
	}

	want := map[string]bool{"agendar": true, "reuniao": true}
	for _, kw := range got {
		delete(want, kw)
	}
	for kw := range want {
		t.Errorf("expected keyword %q in %v", kw, got)
	}
}

func TestExtractKeywordsLimit(t *testing.T) {
	ex := NewKeywordExtractor(3, true)

	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima"
	got := ex.Extract(text, 5)
	if len(got) != 5 {
		t.Errorf("Extract returned %d keywords, want 5", len(got))
	}
}

func TestExtractKeywordsTieOrder(t *testing.T) {
	ex := NewKeywordExtractor(3, true)

	// All tokens occur once; ties resolve by first occurrence.
	got := ex.Extract("projeto proposta parceria", 3)
	want := []string{"projeto", "proposta", "parceria"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	ex := NewKeywordExtractor(3, true)
	text := "Preciso de ajuda urgente com o erro no sistema de pagamento do sistema"

	first := ex.Extract(text, 10)
	for i := 0; i < 5; i++ {
		if got := ex.Extract(text, 10); !reflect.DeepEqual(got, first) {
			t.Fatalf("Extract is not deterministic: %v then %v", first, got)
		}
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	ex := NewKeywordExtractor(3, true)

	if got := ex.Extract("", 10); len(got) != 0 {
		t.Errorf("Extract(\"\") = %v, want empty", got)
	}
	if got := ex.Extract("de o a em", 10); len(got) != 0 {
		t.Errorf("Extract(stopwords) = %v, want empty", got)
	}
	if got := ex.Extract("projeto importante", 0); got != nil {
		t.Errorf("Extract with max 0 = %v, want nil", got)
	}
}
