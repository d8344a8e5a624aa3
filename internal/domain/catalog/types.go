package catalog

// Group is a topical grouping of canonical questions, informational only.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Answer is free text returned verbatim on a match.
type Answer struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// StandardQuestion is the curator-authored canonical form of a question.
type StandardQuestion struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	GroupID  int64  `json:"groupId"`
	AnswerID int64  `json:"answerId"`
	Intent   string `json:"intent,omitempty"`
}

// Variant is an alternate wording mapped to a standard question.
type Variant struct {
	ID                 int64  `json:"id"`
	Text               string `json:"text"`
	StandardQuestionID int64  `json:"standardQuestionId"`
}

// LoadReport summarizes a bulk CSV import.
type LoadReport struct {
	Rows             int `json:"rows"`
	Groups           int `json:"groups"`
	Answers          int `json:"answers"`
	Questions        int `json:"questions"`
	VariantsInserted int `json:"variantsInserted"`
	Skipped          int `json:"skipped"`
}
