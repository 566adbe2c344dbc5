package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableItems     = "items"
	tableResponses = "responses"
	tableDetails   = "problem_details"
	tableProfiles  = "profile_snapshots"
	tableLLMEvents = "llm_events"
)

// Timestamps are stored as Unix milliseconds in UTC.

var (
	itemsColumns = []*schema.Column{
		{Name: "item_id", Type: field.TypeString},
		{Name: "discrimination", Type: field.TypeFloat64},
		{Name: "difficulty", Type: field.TypeFloat64},
		{Name: "guessing", Type: field.TypeFloat64},
		{Name: "skill_tags", Type: field.TypeString, Default: "[]"},
		{Name: "problem_type", Type: field.TypeString, Default: ""},
		{Name: "sample_size", Type: field.TypeInt, Default: 0},
		{Name: "last_calibrated", Type: field.TypeInt64, Default: 0},
	}
	itemsTable = &schema.Table{
		Name:       tableItems,
		Columns:    itemsColumns,
		PrimaryKey: []*schema.Column{itemsColumns[0]},
	}

	responsesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "response_time_ms", Type: field.TypeInt64, Default: 0},
		{Name: "ts", Type: field.TypeInt64},
	}
	responsesTable = &schema.Table{
		Name:       tableResponses,
		Columns:    responsesColumns,
		PrimaryKey: []*schema.Column{responsesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "response_learner_ts", Columns: []*schema.Column{responsesColumns[1], responsesColumns[5]}},
			{Name: "response_item", Columns: []*schema.Column{responsesColumns[2]}},
		},
	}

	detailsColumns = []*schema.Column{
		{Name: "response_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "operands", Type: field.TypeString, Default: "[]"},
		{Name: "correct_answer", Type: field.TypeInt},
		{Name: "submitted", Type: field.TypeString, Default: ""},
	}
	detailsTable = &schema.Table{
		Name:       tableDetails,
		Columns:    detailsColumns,
		PrimaryKey: []*schema.Column{detailsColumns[0]},
	}

	profilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "ts", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString},
	}
	profilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "profile_learner_ts", Columns: []*schema.Column{profilesColumns[1], profilesColumns[2]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "ts", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_event_purpose", Columns: []*schema.Column{llmEventsColumns[4]}},
		},
	}

	tables = []*schema.Table{
		itemsTable,
		responsesTable,
		detailsTable,
		profilesTable,
		llmEventsTable,
	}
)

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
