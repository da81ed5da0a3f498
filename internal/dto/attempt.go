package dto

// StartAttemptRequest starts or resumes a practice session
// @Description Request body for starting a practice session
type StartAttemptRequest struct {
	ExamID        string `json:"exam_id"`
	ContentNodeID string `json:"content_node_id,omitempty"`
}

// StartMockRequest starts a timed mock test
type StartMockRequest struct {
	ExamID           string `json:"exam_id"`
	TotalQuestions   int    `json:"total_questions"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// AttemptResponse represents an attempt in the API response
type AttemptResponse struct {
	ID               string              `json:"id"`
	ExamID           string              `json:"exam_id"`
	ContentNodeID    string              `json:"content_node_id,omitempty"`
	IsMock           bool                `json:"is_mock"`
	State            string              `json:"state"`
	TotalQuestions   int                 `json:"total_questions"`
	CorrectAnswers   int                 `json:"correct_answers"`
	StartedAt        string              `json:"started_at"`
	CompletedAt      string              `json:"completed_at,omitempty"`
	TimeLimitSeconds *int                `json:"time_limit_seconds,omitempty"`
	TimeTakenSeconds *int                `json:"time_taken_seconds,omitempty"`
	Resumed          bool                `json:"resumed,omitempty"`
	ResumeIndex      int                 `json:"resume_index"`
	Questions        []*QuestionResponse `json:"questions,omitempty"`
}

// CompleteAttemptRequest finalizes an attempt
type CompleteAttemptRequest struct {
	TimeTakenSeconds *int `json:"time_taken_seconds,omitempty"`
}

// AttemptSummaryResponse is one row in the user's attempt history
type AttemptSummaryResponse struct {
	ID             string `json:"id"`
	ExamID         string `json:"exam_id"`
	IsMock         bool   `json:"is_mock"`
	State          string `json:"state"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// AttemptListResponse is a paginated attempt history
type AttemptListResponse struct {
	Attempts []*AttemptSummaryResponse `json:"attempts"`
	Total    int                       `json:"total"`
	Limit    int                       `json:"limit"`
	Offset   int                       `json:"offset"`
}
