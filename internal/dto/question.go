package dto

// QuestionResponse represents a question in the API response. It carries
// the redacted projection only; the correct option is never serialized.
// @Description Question without its answer key
type QuestionResponse struct {
	ID            string    `json:"id"`
	ContentNodeID string    `json:"content_node_id"`
	Text          string    `json:"text"`
	Options       [4]string `json:"options"`
	Difficulty    string    `json:"difficulty,omitempty"`
	Year          *int      `json:"year,omitempty"`
	Source        string    `json:"source,omitempty"`
	Bookmarked    bool      `json:"bookmarked,omitempty"`
}

// CheckAnswerRequest represents a user's answer in the API request
// @Description Request body for checking an answer
type CheckAnswerRequest struct {
	AttemptID      string `json:"attempt_id"`
	QuestionID     string `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
}

// CheckAnswerResponse represents the grading result in the API response
type CheckAnswerResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectOption int    `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
}

// ImportQuestionsResponse summarizes a CSV import run
type ImportQuestionsResponse struct {
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
