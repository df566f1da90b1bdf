package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableDailyScores         = "daily_scores"
	tablePracticeCompletions = "practice_completions"
	tableStreaks             = "streaks"
	tableLLMRequestEvents    = "llm_request_events"
)

var (
	dailyScoresColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString, Size: 10},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "completed_at", Type: field.TypeInt64},
	}
	dailyScoresTable = &schema.Table{
		Name:       tableDailyScores,
		Columns:    dailyScoresColumns,
		PrimaryKey: []*schema.Column{dailyScoresColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "dailyscore_user_id_day",
				Unique:  true,
				Columns: []*schema.Column{dailyScoresColumns[1], dailyScoresColumns[2]},
			},
		},
	}

	practiceCompletionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString, Size: 10},
		{Name: "category", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeInt64},
	}
	practiceCompletionsTable = &schema.Table{
		Name:       tablePracticeCompletions,
		Columns:    practiceCompletionsColumns,
		PrimaryKey: []*schema.Column{practiceCompletionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "practicecompletion_user_id_day_category",
				Unique:  true,
				Columns: []*schema.Column{practiceCompletionsColumns[1], practiceCompletionsColumns[2], practiceCompletionsColumns[3]},
			},
		},
	}

	streaksColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "daily_quiz_streak", Type: field.TypeInt, Default: 0},
		{Name: "last_quiz_day", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	streaksTable = &schema.Table{
		Name:       tableStreaks,
		Columns:    streaksColumns,
		PrimaryKey: []*schema.Column{streaksColumns[0]},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       tableLLMRequestEvents,
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Columns: []*schema.Column{llmRequestEventsColumns[4]},
			},
		},
	}

	// tables is every table the store migrates on open.
	tables = []*schema.Table{
		dailyScoresTable,
		practiceCompletionsTable,
		streaksTable,
		llmRequestEventsTable,
	}
)
