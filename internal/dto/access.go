package dto

// AccessDecisionResponse is the verdict of the access engine for one exam
// @Description Access decision for the requesting user
type AccessDecisionResponse struct {
	ExamID          string `json:"exam_id"`
	ContentNodeID   string `json:"content_node_id,omitempty"`
	HasSubscription bool   `json:"has_subscription"`
	DemoCompleted   bool   `json:"demo_completed"`
	DemoLimit       int    `json:"demo_limit"`
	CanAccess       bool   `json:"can_access"`
}

// MarkDemoCompleteRequest marks the requesting user's trial as consumed
type MarkDemoCompleteRequest struct {
	ExamID string `json:"exam_id"`
}

// SubscriptionResponse represents one subscription row in the API response
type SubscriptionResponse struct {
	ID        string `json:"id"`
	ExamID    string `json:"exam_id"`
	StartsAt  string `json:"starts_at"`
	ExpiresAt string `json:"expires_at"`
	IsActive  bool   `json:"is_active"`
}

// GrantSubscriptionRequest is the admin request body for granting access
type GrantSubscriptionRequest struct {
	UserID       string `json:"user_id"`
	ExamID       string `json:"exam_id"`
	DurationDays int    `json:"duration_days"`
}
