package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QuestionItemRequest struct {
	QuestionID string `json:"question_id,omitempty"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	Target     string `json:"target,omitempty"`
	LowLabel   string `json:"low_label,omitempty"`
	HighLabel  string `json:"high_label,omitempty"`
}

type SyncQuestionsRequest struct {
	Items []QuestionItemRequest `json:"items"`
}

type QuestionResponse struct {
	QuestionID   string `json:"question_id"`
	EventID      string `json:"event_id"`
	Text         string `json:"text"`
	Type         string `json:"type"`
	Target       string `json:"target"`
	LowLabel     string `json:"low_label,omitempty"`
	HighLabel    string `json:"high_label,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type QuestionListResponse struct {
	Items []QuestionResponse `json:"items"`
	// Rating questions in the returned catalog slice, the denominator
	// clients show next to per-performance rating sums.
	RatingQuestionCount int `json:"rating_question_count"`
}

type DeleteQuestionResponse struct {
	QuestionID string `json:"question_id"`
	Deleted    bool   `json:"deleted"`
}
