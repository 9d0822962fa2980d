package lexicon

var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "almost", "alone", "along",
	"already", "also", "although", "always", "am", "among", "an", "and", "another", "any",
	"anyone", "anything", "anyway", "anywhere", "are", "around", "as", "at", "back", "be",
	"became", "because", "become", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "cannot", "could", "did", "do", "does", "doing", "done", "down",
	"during", "each", "either", "else", "enough", "etc", "even", "ever", "every", "few",
	"for", "from", "further", "get", "gets", "got", "had", "has", "have", "having", "he",
	"her", "here", "hers", "herself", "him", "himself", "his", "how", "however", "i", "if",
	"in", "into", "is", "it", "its", "itself", "just", "least", "less", "let", "like",
	"made", "make", "many", "may", "me", "might", "mine", "more", "most", "much", "must",
	"my", "myself", "neither", "next", "no", "nor", "not", "now", "of", "off", "often", "on",
	"once", "one", "only", "onto", "or", "other", "others", "otherwise", "our", "ours",
	"ourselves", "out", "over", "own", "per", "perhaps", "put", "rather", "same", "see",
	"seem", "seemed", "seems", "several", "she", "should", "since", "so", "some", "someone",
	"something", "sometime", "somewhere", "still", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they", "this", "those",
	"though", "through", "thus", "to", "together", "too", "toward", "towards", "under",
	"until", "up", "upon", "us", "very", "via", "was", "we", "well", "were", "what",
	"whatever", "when", "whenever", "where", "whether", "which", "while", "who", "whoever",
	"whole", "whom", "whose", "why", "will", "with", "within", "without", "would", "yet",
	"you", "your", "yours", "yourself", "yourselves",
}

var defaultPositive = []string{
	"accomplish", "achieve", "admire", "agree", "amaze", "appreciate", "beautiful", "benefit",
	"best", "better", "brilliant", "calm", "celebrate", "cheer", "clean", "clear", "comfort",
	"confident", "cool", "delight", "easy", "efficient", "enjoy", "enthusiastic", "excite",
	"fantastic", "fast", "fine", "fortunate", "free", "fresh", "friendly", "fun", "glad",
	"good", "grateful", "great", "happy", "healthy", "helpful", "hope", "improve", "incredible",
	"inspire", "interesting", "kind", "like", "love", "lucky", "nice", "optimistic", "peace",
	"perfect", "pleasant", "please", "positive", "productive", "progress", "proud", "recommend",
	"relax", "reliable", "safe", "satisfy", "smooth", "solve", "success", "support", "thank",
	"useful", "valuable", "win", "wonderful", "worth",
}

var defaultNegative = []string{
	"afraid", "anger", "angry", "annoy", "anxious", "ashamed", "awful", "bad", "boring",
	"broken", "bug", "complain", "confuse", "crash", "cry", "damage", "danger", "delay",
	"depress", "difficult", "disappoint", "disaster", "dislike", "dirty", "fail", "fear",
	"frustrate", "hard", "hate", "hurt", "ill", "lose", "lost", "mess", "miss", "negative",
	"nervous", "pain", "poor", "problem", "regret", "sad", "scare", "sick", "slow", "sorry",
	"stress", "struggle", "stupid", "terrible", "tired", "trouble", "ugly", "unfortunate",
	"unhappy", "upset", "useless", "waste", "weak", "worry", "worse", "worst", "wrong",
}

// Words whose strength differs from the default +/-0.5.
var defaultWeights = map[string]float64{
	"amazing":   0.8,
	"awesome":   0.8,
	"excellent": 0.9,
	"fantastic": 0.8,
	"love":      0.7,
	"perfect":   0.9,
	"wonderful": 0.8,
	"awful":     -0.8,
	"disaster":  -0.8,
	"hate":      -0.8,
	"horrible":  -0.9,
	"terrible":  -0.9,
	"worst":     -0.9,
}

var defaultNegations = []string{
	"not", "no", "never", "none", "nobody", "nothing", "neither", "nor", "cannot", "without",
}

var defaultIntensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"so":         1.2,
	"quite":      1.1,
	"slightly":   0.5,
	"somewhat":   0.7,
}
