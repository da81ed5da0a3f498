package dto

// ExamResponse represents an exam in the API response
// @Description Exam catalog entry
type ExamResponse struct {
	ID                 string `json:"id"`
	Slug               string `json:"slug"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
	DemoQuestionsLimit int    `json:"demo_questions_limit"`
	QuestionCount      int    `json:"question_count,omitempty"`
}

// ContentNodeResponse represents one level of an exam's topic tree
type ContentNodeResponse struct {
	ID                 string                 `json:"id"`
	ExamID             string                 `json:"exam_id"`
	ParentID           string                 `json:"parent_id,omitempty"`
	NodeType           string                 `json:"node_type"`
	Title              string                 `json:"title"`
	OrderIndex         int                    `json:"order_index"`
	DemoQuestionsLimit *int                   `json:"demo_questions_limit,omitempty"`
	Children           []*ContentNodeResponse `json:"children,omitempty"`
}

// CreateExamRequest is the admin request body for creating an exam
type CreateExamRequest struct {
	Slug               string `json:"slug"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"image_url"`
	DemoQuestionsLimit *int   `json:"demo_questions_limit"`
}

// UpdateExamRequest is the admin request body for updating an exam
type UpdateExamRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"image_url"`
	DemoQuestionsLimit *int   `json:"demo_questions_limit"`
	IsActive           *bool  `json:"is_active"`
}

// CreateContentNodeRequest is the admin request body for adding a tree node
type CreateContentNodeRequest struct {
	ExamID             string `json:"exam_id"`
	ParentID           string `json:"parent_id"`
	NodeType           string `json:"node_type"`
	Title              string `json:"title"`
	OrderIndex         int    `json:"order_index"`
	DemoQuestionsLimit *int   `json:"demo_questions_limit"`
}
