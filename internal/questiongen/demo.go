package questiongen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/question"
)

// DemoBatchSize is the number of questions a demo batch carries. It is
// at least the count of any daily blueprint entry; the orchestrator drops
// the extras.
const DemoBatchSize = 10

var demoPool = []question.Question{
	{
		Text:          "Which data structure gives O(1) average lookup by key?",
		Options:       []string{"Linked list", "Hash map", "Binary heap", "Stack"},
		CompanyTags:   []string{"Google", "Amazon"},
		CorrectAnswer: "Hash map",
		Explanation:   "A hash map indexes buckets by the hash of the key, so lookups do not scan the collection.",
	},
	{
		Text:          "A train covers 120 km in 2 hours. What is its average speed?",
		Options:       []string{"40 km/h", "50 km/h", "60 km/h", "80 km/h"},
		CompanyTags:   []string{"TCS", "Infosys"},
		CorrectAnswer: "60 km/h",
		Explanation:   "Average speed is distance over time: 120 / 2 = 60 km/h.",
	},
	{
		Text:          "Which SQL clause filters rows after aggregation?",
		Options:       []string{"WHERE", "HAVING", "GROUP BY", "ORDER BY"},
		CompanyTags:   []string{"Microsoft"},
		CorrectAnswer: "HAVING",
		Explanation:   "WHERE filters rows before grouping; HAVING filters the grouped results.",
	},
	{
		Text:          "Which HTTP status code means the client is being rate limited?",
		Options:       []string{"401", "403", "429", "503"},
		CompanyTags:   []string{"Stripe", "Cloudflare"},
		CorrectAnswer: "429",
		Explanation:   "429 Too Many Requests is returned when the client exceeds a rate limit.",
	},
	{
		Text:          "What is the worst-case time complexity of quicksort?",
		Options:       []string{"O(n)", "O(n log n)", "O(n^2)", "O(log n)"},
		CompanyTags:   []string{"Meta", "Adobe"},
		CorrectAnswer: "O(n^2)",
		Explanation:   "A consistently bad pivot splits off one element per pass, giving quadratic work.",
	},
}

// NewDemoResponder returns an llm.MockProvider fallback that answers
// question and batch requests from a fixed pool, so the app runs without
// an API key. Successive calls rotate through the pool.
func NewDemoResponder() func(llm.Request) (json.RawMessage, error) {
	var (
		mu   sync.Mutex
		next int
	)
	take := func() question.Question {
		mu.Lock()
		defer mu.Unlock()
		q := demoPool[next%len(demoPool)].Clone()
		next++
		q.Type = question.TypeMultipleChoice
		return q
	}

	return func(req llm.Request) (json.RawMessage, error) {
		if req.Schema == nil {
			return nil, fmt.Errorf("demo: request has no schema")
		}
		switch req.Schema.Name {
		case PracticeQuestionSchema.Name:
			q := take()
			return json.Marshal(&q)
		case BatchSchema.Name:
			out := batchOutput{Questions: make([]question.Question, DemoBatchSize)}
			for i := range out.Questions {
				out.Questions[i] = take()
			}
			return json.Marshal(&out)
		default:
			return nil, fmt.Errorf("demo: no response for schema %q", req.Schema.Name)
		}
	}
}
