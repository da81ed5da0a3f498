package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"prepdeck/internal/domain"
	"prepdeck/internal/dto"
	"prepdeck/internal/logger"
	"prepdeck/internal/util"

	"go.uber.org/zap"
)

// requiredImportColumns are the CSV headers an import file must carry.
// Optional columns: explanation, difficulty, year, source.
var requiredImportColumns = []string{"text1", "option1", "option2", "option3", "option4", "correct_option"}

// ImportService loads question banks from CSV files. Rows are validated
// individually; valid rows are inserted in one transaction so a crashed
// import leaves nothing behind.
type ImportService interface {
	ImportCSV(ctx context.Context, contentNodeID string, r io.Reader) (*dto.ImportQuestionsResponse, error)
}

type importService struct {
	questionRepo domain.QuestionRepository
	nodeRepo     domain.ContentNodeRepository
	txManager    domain.TransactionManager
}

// NewImportService creates a new instance of importService.
func NewImportService(
	questionRepo domain.QuestionRepository,
	nodeRepo domain.ContentNodeRepository,
	txManager domain.TransactionManager,
) ImportService {
	return &importService{
		questionRepo: questionRepo,
		nodeRepo:     nodeRepo,
		txManager:    txManager,
	}
}

// ImportCSV implements ImportService.
func (s *importService) ImportCSV(ctx context.Context, contentNodeID string, r io.Reader) (*dto.ImportQuestionsResponse, error) {
	node, err := s.nodeRepo.GetByID(ctx, contentNodeID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load content node", err)
	}
	if node == nil {
		return nil, domain.NewError(domain.CodeNodeNotFound, "content node not found", nil)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to read CSV header: " + err.Error())
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredImportColumns {
		if _, ok := columns[required]; !ok {
			return nil, domain.NewInvalidInputError("missing required column: " + required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var questions []*domain.Question
	var importErrors []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			importErrors = append(importErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		correctOption, err := strconv.Atoi(field(record, "correct_option"))
		if err != nil {
			importErrors = append(importErrors, fmt.Sprintf("line %d: correct_option must be a number", line))
			continue
		}

		question := domain.NewQuestion(contentNodeID, field(record, "text1"), [4]string{
			field(record, "option1"),
			field(record, "option2"),
			field(record, "option3"),
			field(record, "option4"),
		}, correctOption)
		question.ID = util.NewULID()
		question.Explanation = field(record, "explanation")
		question.Difficulty = strings.ToLower(field(record, "difficulty"))
		question.Source = field(record, "source")
		if yearStr := field(record, "year"); yearStr != "" {
			if year, err := strconv.Atoi(yearStr); err == nil {
				question.Year = &year
			} else {
				importErrors = append(importErrors, fmt.Sprintf("line %d: year must be a number", line))
				continue
			}
		}

		if err := question.Validate(); err != nil {
			importErrors = append(importErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return s.questionRepo.SaveBatch(txCtx, questions)
		})
		if err != nil {
			return nil, domain.NewInternalError("failed to import questions", err)
		}
	}

	logger.Get().Info("question import finished",
		zap.String("contentNodeID", contentNodeID),
		zap.Int("imported", len(questions)),
		zap.Int("rejected", len(importErrors)))
	return &dto.ImportQuestionsResponse{
		Imported: len(questions),
		Rejected: len(importErrors),
		Errors:   importErrors,
	}, nil
}
