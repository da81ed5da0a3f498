package domain

import (
	"context"
	"time"
)

// NodeType is the closed set of content hierarchy levels.
type NodeType string

const (
	NodeTypeTrack   NodeType = "TRACK"
	NodeTypeSubject NodeType = "SUBJECT"
	NodeTypeChapter NodeType = "CHAPTER"
	NodeTypeTopic   NodeType = "TOPIC"
)

// ParseNodeType converts a stored string tag into a NodeType.
func ParseNodeType(s string) (NodeType, bool) {
	switch NodeType(s) {
	case NodeTypeTrack, NodeTypeSubject, NodeTypeChapter, NodeTypeTopic:
		return NodeType(s), true
	}
	return "", false
}

// AllowedChildType returns the node type a child of t must carry.
// The hierarchy is fixed: TRACK -> SUBJECT -> CHAPTER -> TOPIC.
// The second return value is false for TOPIC, which cannot have children.
func AllowedChildType(t NodeType) (NodeType, bool) {
	switch t {
	case NodeTypeTrack:
		return NodeTypeSubject, true
	case NodeTypeSubject:
		return NodeTypeChapter, true
	case NodeTypeChapter:
		return NodeTypeTopic, true
	default:
		return "", false
	}
}

// ContentNode is one level of an exam's topic tree. Nodes with a nil
// ParentID are roots of the per-exam forest.
type ContentNode struct {
	ID                 string
	ExamID             string
	ParentID           *string
	NodeType           NodeType
	Title              string
	OrderIndex         int
	DemoQuestionsLimit *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewContentNode creates a new ContentNode instance
func NewContentNode(examID string, parentID *string, nodeType NodeType, title string, orderIndex int) *ContentNode {
	now := time.Now()
	return &ContentNode{
		ExamID:     examID,
		ParentID:   parentID,
		NodeType:   nodeType,
		Title:      title,
		OrderIndex: orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the content node
func (n *ContentNode) Validate() error {
	if n.ExamID == "" {
		return NewInvalidInputError("exam ID is required")
	}
	if n.Title == "" {
		return NewInvalidInputError("title is required")
	}
	if _, ok := ParseNodeType(string(n.NodeType)); !ok {
		return NewInvalidInputError("node type must be one of TRACK, SUBJECT, CHAPTER, TOPIC")
	}
	return nil
}

// ValidateChildOf checks that n may be attached under parent.
func (n *ContentNode) ValidateChildOf(parent *ContentNode) error {
	want, ok := AllowedChildType(parent.NodeType)
	if !ok {
		return NewInvalidInputError("topic nodes cannot have children")
	}
	if n.NodeType != want {
		return NewInvalidInputError("child of " + string(parent.NodeType) + " must be " + string(want))
	}
	return nil
}

// ContentNodeRepository defines the persistence port for content nodes.
type ContentNodeRepository interface {
	GetByID(ctx context.Context, id string) (*ContentNode, error)
	ListByExam(ctx context.Context, examID string) ([]*ContentNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*ContentNode, error)
	Save(ctx context.Context, node *ContentNode) error
	Update(ctx context.Context, node *ContentNode) error
	// Delete removes the node; descendant nodes and their questions
	// cascade at the storage layer.
	Delete(ctx context.Context, id string) error
}
