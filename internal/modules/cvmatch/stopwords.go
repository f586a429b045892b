package cvmatch

// Common English function words plus job-ad filler that says nothing about
// the skills being asked for.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "across", "after", "again", "against", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
		"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "etc", "every",
		"few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most",
		"must", "my", "no", "nor", "not", "of", "off", "on", "once", "only", "or", "other", "our", "ours",
		"out", "over", "own", "per", "same", "she", "should", "so", "some", "such", "than", "that", "the",
		"their", "them", "then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "us", "very", "via", "was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "within", "would", "you", "your", "yours",

		"ability", "able", "apply", "applicant", "applicants", "candidate", "candidates", "company",
		"co", "day", "days", "desired", "environment", "excellent", "experience", "experienced",
		"familiar", "familiarity", "good", "great", "ideal", "including", "job", "join", "knowledge",
		"like", "looking", "nice", "opportunity", "plus", "position", "preferred", "proficiency",
		"proficient", "required", "requirement", "requirements", "responsibilities", "responsible",
		"role", "seeking", "skill", "skills", "strong", "team", "teams", "understanding", "using",
		"well", "work", "working", "year", "years",
	} {
		stopwords[w] = struct{}{}
	}
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
