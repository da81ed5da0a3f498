package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/handler"
	"prepdeck/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminTestApp(examSvc *MockExamService, subSvc *MockSubscriptionService, accessSvc *MockAccessService, importSvc *MockImportService) *fiber.App {
	h := handler.NewAdminHandler(examSvc, subSvc, accessSvc, importSvc)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})

	admin := app.Group("/admin")
	admin.Post("/exams", h.CreateExam)
	admin.Put("/exams/:examId", h.UpdateExam)
	admin.Post("/nodes", h.CreateContentNode)
	admin.Delete("/nodes/:nodeId", h.DeleteContentNode)
	admin.Post("/subscriptions", h.GrantSubscription)
	admin.Delete("/subscriptions/:subscriptionId", h.RevokeSubscription)
	admin.Delete("/users/:userId/exams/:examId/demo", h.ResetDemo)
	admin.Post("/nodes/:nodeId/questions/import", h.ImportQuestions)
	return app
}

func TestAdminHandler_CreateExam(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		examSvc := &MockExamService{
			CreateExamFunc: func(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
				assert.Equal(t, "upsc-prelims", req.Slug)
				return &dto.ExamResponse{ID: "exam1", Slug: req.Slug, Title: req.Title}, nil
			},
		}
		app := newAdminTestApp(examSvc, &MockSubscriptionService{}, &MockAccessService{}, &MockImportService{})

		body, _ := json.Marshal(dto.CreateExamRequest{Slug: "upsc-prelims", Title: "UPSC Prelims"})
		req := httptest.NewRequest("POST", "/admin/exams", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("MissingFieldsReturn400", func(t *testing.T) {
		app := newAdminTestApp(&MockExamService{}, &MockSubscriptionService{}, &MockAccessService{}, &MockImportService{})

		body, _ := json.Marshal(dto.CreateExamRequest{})
		req := httptest.NewRequest("POST", "/admin/exams", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var errResp middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Len(t, errResp.Errors, 2)
	})
}

func TestAdminHandler_CreateContentNode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		examSvc := &MockExamService{
			CreateContentNodeFunc: func(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error) {
				return &dto.ContentNodeResponse{ID: "node1", ExamID: req.ExamID, NodeType: req.NodeType, Title: req.Title}, nil
			},
		}
		app := newAdminTestApp(examSvc, &MockSubscriptionService{}, &MockAccessService{}, &MockImportService{})

		body, _ := json.Marshal(dto.CreateContentNodeRequest{ExamID: "exam1", NodeType: "TRACK", Title: "General Studies"})
		req := httptest.NewRequest("POST", "/admin/nodes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("BadNestingReturns400", func(t *testing.T) {
		examSvc := &MockExamService{
			CreateContentNodeFunc: func(ctx context.Context, req *dto.CreateContentNodeRequest) (*dto.ContentNodeResponse, error) {
				return nil, domain.NewInvalidInputError("TOPIC must nest under a CHAPTER")
			},
		}
		app := newAdminTestApp(examSvc, &MockSubscriptionService{}, &MockAccessService{}, &MockImportService{})

		body, _ := json.Marshal(dto.CreateContentNodeRequest{ExamID: "exam1", NodeType: "TOPIC", Title: "Orphan"})
		req := httptest.NewRequest("POST", "/admin/nodes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminHandler_GrantSubscription(t *testing.T) {
	subSvc := &MockSubscriptionService{
		GrantFunc: func(ctx context.Context, req *dto.GrantSubscriptionRequest) (*dto.SubscriptionResponse, error) {
			assert.Equal(t, 30, req.DurationDays)
			return &dto.SubscriptionResponse{ID: "sub1", ExamID: req.ExamID, IsActive: true}, nil
		},
	}
	app := newAdminTestApp(&MockExamService{}, subSvc, &MockAccessService{}, &MockImportService{})

	body, _ := json.Marshal(dto.GrantSubscriptionRequest{UserID: "user1", ExamID: "exam1", DurationDays: 30})
	req := httptest.NewRequest("POST", "/admin/subscriptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAdminHandler_ResetDemo(t *testing.T) {
	reset := false
	accessSvc := &MockAccessService{
		ResetDemoFunc: func(ctx context.Context, userID, examID string) error {
			reset = true
			assert.Equal(t, "user1", userID)
			assert.Equal(t, "exam1", examID)
			return nil
		},
	}
	app := newAdminTestApp(&MockExamService{}, &MockSubscriptionService{}, accessSvc, &MockImportService{})

	req := httptest.NewRequest("DELETE", "/admin/users/user1/exams/exam1/demo", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, reset)
}

func TestAdminHandler_ImportQuestions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		csvData := "text1,option1,option2,option3,option4,correct_option\nWhat is 2+2?,3,4,5,6,2\n"
		importSvc := &MockImportService{
			ImportCSVFunc: func(ctx context.Context, contentNodeID string, r io.Reader) (*dto.ImportQuestionsResponse, error) {
				assert.Equal(t, "node1", contentNodeID)
				uploaded, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, csvData, string(uploaded))
				return &dto.ImportQuestionsResponse{Imported: 1}, nil
			},
		}
		app := newAdminTestApp(&MockExamService{}, &MockSubscriptionService{}, &MockAccessService{}, importSvc)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "questions.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csvData))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/admin/nodes/node1/questions/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var importResp dto.ImportQuestionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&importResp))
		assert.Equal(t, 1, importResp.Imported)
	})

	t.Run("MissingFileReturns400", func(t *testing.T) {
		app := newAdminTestApp(&MockExamService{}, &MockSubscriptionService{}, &MockAccessService{}, &MockImportService{})

		req := httptest.NewRequest("POST", "/admin/nodes/node1/questions/import", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
