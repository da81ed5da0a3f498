package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowedChildType(t *testing.T) {
	tests := []struct {
		parent NodeType
		child  NodeType
		ok     bool
	}{
		{NodeTypeTrack, NodeTypeSubject, true},
		{NodeTypeSubject, NodeTypeChapter, true},
		{NodeTypeChapter, NodeTypeTopic, true},
		{NodeTypeTopic, "", false},
	}
	for _, tt := range tests {
		child, ok := AllowedChildType(tt.parent)
		assert.Equal(t, tt.ok, ok, "parent %s", tt.parent)
		if ok {
			assert.Equal(t, tt.child, child)
		}
	}
}

func TestContentNode_ValidateChildOf(t *testing.T) {
	parent := &ContentNode{NodeType: NodeTypeSubject}

	child := &ContentNode{ExamID: "exam1", Title: "Anatomy", NodeType: NodeTypeChapter}
	assert.NoError(t, child.ValidateChildOf(parent))

	wrong := &ContentNode{ExamID: "exam1", Title: "Anatomy", NodeType: NodeTypeTopic}
	assert.Error(t, wrong.ValidateChildOf(parent))

	leaf := &ContentNode{NodeType: NodeTypeTopic}
	assert.Error(t, child.ValidateChildOf(leaf))
}

func TestParseNodeType(t *testing.T) {
	nt, ok := ParseNodeType("CHAPTER")
	assert.True(t, ok)
	assert.Equal(t, NodeTypeChapter, nt)

	_, ok = ParseNodeType("SECTION")
	assert.False(t, ok)
}

func TestQuestion_Validate(t *testing.T) {
	q := NewQuestion("node1", "What is the powerhouse of the cell?", [4]string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"}, 2)
	assert.NoError(t, q.Validate())

	q.CorrectOption = 5
	assert.Error(t, q.Validate())

	q.CorrectOption = 2
	q.Options[3] = ""
	assert.Error(t, q.Validate())

	q.Options[3] = "Golgi"
	q.Difficulty = "extreme"
	assert.Error(t, q.Validate())
}

func TestQuestion_PublicOmitsAnswerKey(t *testing.T) {
	q := NewQuestion("node1", "Q?", [4]string{"a", "b", "c", "d"}, 3)
	q.ID = "q1"
	q.Explanation = "because"

	pub := q.Public()
	assert.Equal(t, q.ID, pub.ID)
	assert.Equal(t, q.Text, pub.Text)
	assert.Equal(t, q.Options, pub.Options)
	assert.Equal(t, q.Explanation, pub.Explanation)
	// QuestionPublic has no CorrectOption field at all; nothing further to
	// assert beyond the type system, but keep the projection honest.
}

func TestSubscription_Grants(t *testing.T) {
	now := time.Now()
	sub := &Subscription{IsActive: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, sub.Grants(now))

	expired := &Subscription{IsActive: true, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, expired.Grants(now))

	inactive := &Subscription{IsActive: false, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, inactive.Grants(now))
}

func TestAttempt_State(t *testing.T) {
	a := &Attempt{}
	assert.Equal(t, AttemptCreated, a.State(0))
	assert.Equal(t, AttemptInProgress, a.State(2))

	done := time.Now()
	a.CompletedAt = &done
	assert.Equal(t, AttemptCompleted, a.State(2))
}

func TestResumeCursor(t *testing.T) {
	opt := func(i int) *int { return &i }

	questions := []*AttemptQuestion{
		{OrderIndex: 0, SelectedOption: opt(2)},
		{OrderIndex: 1, SelectedOption: opt(1)},
		{OrderIndex: 2},
		{OrderIndex: 3},
	}
	assert.Equal(t, 2, ResumeCursor(questions))

	// All answered: cursor clamps to the last question.
	questions[2].SelectedOption = opt(3)
	questions[3].SelectedOption = opt(4)
	assert.Equal(t, 3, ResumeCursor(questions))

	// Nothing answered yet.
	fresh := []*AttemptQuestion{{OrderIndex: 0}, {OrderIndex: 1}}
	assert.Equal(t, 0, ResumeCursor(fresh))

	assert.Equal(t, 0, ResumeCursor(nil))
}

func TestExam_DemoLimit(t *testing.T) {
	e := NewExam("neet-pg", "NEET PG", "")
	assert.Equal(t, DefaultDemoQuestionsLimit, e.DemoLimit())

	five := 5
	e.DemoQuestionsLimit = &five
	assert.Equal(t, 5, e.DemoLimit())
}
