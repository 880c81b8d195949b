package classify

import (
	"math"
	"sort"

	"github.com/alicydosanjos/Bot-Email/internal/textproc"
)

// Vectorizer converts normalized text into fixed-width TF-IDF vectors
// over a bounded vocabulary built during Fit.
type Vectorizer struct {
	norm        *textproc.Normalizer
	maxFeatures int
	useTFIDF    bool

	vocab  map[string]int // term -> feature index
	terms  []string       // feature index -> term
	idf    []float64
	docs   int
	fitted bool
}

func NewVectorizer(norm *textproc.Normalizer, maxFeatures int, useTFIDF bool) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = 5000
	}
	return &Vectorizer{
		norm:        norm,
		maxFeatures: maxFeatures,
		useTFIDF:    useTFIDF,
	}
}

func (v *Vectorizer) Fitted() bool { return v.fitted }

// Size returns the vocabulary size (the transform vector length).
func (v *Vectorizer) Size() int { return len(v.terms) }

// Fit builds the vocabulary from the corpus: terms ranked by document
// frequency, ties broken lexicographically, capped at maxFeatures.
func (v *Vectorizer) Fit(corpus []string) {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range v.norm.Normalize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	v.docs = len(corpus)
	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed inverse document frequency.
		v.idf[i] = math.Log(float64(1+v.docs)/float64(1+df[term])) + 1
	}
	v.fitted = true
}

// Transform produces the feature vector for a text. Out-of-vocabulary
// tokens contribute nothing; an unfitted vectorizer yields an empty vector.
func (v *Vectorizer) Transform(text string) []float64 {
	x := make([]float64, len(v.terms))
	if !v.fitted {
		return x
	}
	for _, tok := range v.norm.Normalize(text) {
		if i, ok := v.vocab[tok]; ok {
			x[i]++
		}
	}
	if v.useTFIDF {
		for i := range x {
			x[i] *= v.idf[i]
		}
	}
	return x
}

type vectorizerState struct {
	Terms       []string  `json:"terms"`
	IDF         []float64 `json:"idf"`
	Docs        int       `json:"docs"`
	MaxFeatures int       `json:"max_features"`
	UseTFIDF    bool      `json:"use_tfidf"`
}

func (v *Vectorizer) state() vectorizerState {
	return vectorizerState{
		Terms:       v.terms,
		IDF:         v.idf,
		Docs:        v.docs,
		MaxFeatures: v.maxFeatures,
		UseTFIDF:    v.useTFIDF,
	}
}

func restoreVectorizer(norm *textproc.Normalizer, st vectorizerState) *Vectorizer {
	v := &Vectorizer{
		norm:        norm,
		maxFeatures: st.MaxFeatures,
		useTFIDF:    st.UseTFIDF,
		terms:       st.Terms,
		idf:         st.IDF,
		docs:        st.Docs,
		vocab:       make(map[string]int, len(st.Terms)),
		fitted:      true,
	}
	for i, term := range st.Terms {
		v.vocab[term] = i
	}
	return v
}
