package domain

var questionBank = map[string][]Question{
	TypeTechnical: {
		{Text: "Explain the difference between a process and a thread.", Category: "fundamentals"},
		{Text: "How would you design a URL shortener?", Category: "system design"},
		{Text: "Describe how an index speeds up a database query.", Category: "databases"},
		{Text: "What happens when you type a URL into a browser?", Category: "networking"},
		{Text: "How do you find and fix a memory leak?", Category: "debugging"},
		{Text: "Compare REST and gRPC for service-to-service calls.", Category: "architecture"},
		{Text: "Walk through the time complexity of quicksort.", Category: "algorithms"},
		{Text: "How would you make a flaky test deterministic?", Category: "testing"},
	},
	TypeBehavioral: {
		{Text: "Tell me about yourself.", Category: "introduction"},
		{Text: "Describe a conflict with a teammate and how you resolved it.", Category: "teamwork"},
		{Text: "Tell me about a project that failed. What did you learn?", Category: "growth"},
		{Text: "How do you prioritise when everything is urgent?", Category: "prioritisation"},
		{Text: "Describe a time you took ownership beyond your role.", Category: "ownership"},
		{Text: "Why do you want this position?", Category: "motivation"},
	},
}

const defaultQuestionCount = 5

// PickQuestions selects count questions for the given interview type. Mixed
// interviews alternate between technical and behavioral prompts. A
// non-positive count selects the default number.
func PickQuestions(interviewType string, count int) []Question {
	if count <= 0 {
		count = defaultQuestionCount
	}

	var pool []Question
	switch interviewType {
	case TypeTechnical, TypeBehavioral:
		pool = questionBank[interviewType]
	default:
		tech, beh := questionBank[TypeTechnical], questionBank[TypeBehavioral]
		for i := 0; i < len(tech) || i < len(beh); i++ {
			if i < len(tech) {
				pool = append(pool, tech[i])
			}
			if i < len(beh) {
				pool = append(pool, beh[i])
			}
		}
	}

	if count > len(pool) {
		count = len(pool)
	}
	out := make([]Question, count)
	copy(out, pool[:count])
	return out
}
