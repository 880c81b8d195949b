package textproc

// Stopword lists for Portuguese and English, accent-stripped so they can
// be checked against folded tokens.
var (
	portugueseStopwords = []string{
		"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
		"as", "ate", "com", "como", "cada", "da", "das", "de", "dela", "delas",
		"dele", "deles", "depois", "do", "dos", "e", "ela", "elas", "ele",
		"eles", "em", "entre", "era", "eram", "essa", "essas", "esse", "esses",
		"esta", "estamos", "estao", "estas", "estava", "estavam", "este",
		"estes", "estou", "eu", "foi", "fomos", "for", "foram", "fosse",
		"havia", "isso", "isto", "ja", "lhe", "lhes", "mais", "mas", "me",
		"mesmo", "meu", "meus", "minha", "minhas", "muito", "na", "nao", "nas",
		"nem", "no", "nos", "nossa", "nossas", "nosso", "nossos", "num",
		"numa", "o", "os", "ou", "para", "pela", "pelas", "pelo", "pelos",
		"por", "qual", "quando", "que", "quem", "sao", "se", "seja", "sem",
		"ser", "sera", "seu", "seus", "so", "sua", "suas", "tambem", "te",
		"tem", "tenho", "ter", "teu", "tinha", "tua", "um", "uma", "voce",
		"vocês", "vos",
	}

	englishStopwords = []string{
		"a", "about", "after", "all", "also", "am", "an", "and", "any", "are",
		"as", "at", "be", "because", "been", "before", "being", "but", "by",
		"can", "could", "did", "do", "does", "doing", "down", "during", "each",
		"few", "for", "from", "further", "had", "has", "have", "having", "he",
		"her", "here", "hers", "him", "his", "how", "i", "if", "in", "into",
		"is", "it", "its", "just", "me", "more", "most", "my", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
		"ours", "out", "over", "own", "same", "she", "should", "so", "some",
		"such", "than", "that", "the", "their", "theirs", "them", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "will", "with",
		"would", "you", "your", "yours",
	}

	stopwordSet = buildStopwordSet()
)

func buildStopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(portugueseStopwords)+len(englishStopwords))
	for _, w := range portugueseStopwords {
		set[Fold(w)] = struct{}{}
	}
	for _, w := range englishStopwords {
		set[Fold(w)] = struct{}{}
	}
	return set
}

func isStopword(token string) bool {
	_, ok := stopwordSet[token]
	return ok
}
