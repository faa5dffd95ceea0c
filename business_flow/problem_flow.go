package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
)

// ProblemFlow defines service problem tracking operations
type ProblemFlow interface {
	CreateProblem(ctx context.Context, req *dto.CreateProblemRequest, metadata *ClientMetadata) (*dto.ProblemDTO, error)
	GetProblem(ctx context.Context, id uint) (*dto.ProblemDTO, error)
	UpdateProblem(ctx context.Context, id uint, req *dto.UpdateProblemRequest, metadata *ClientMetadata) (*dto.ProblemDTO, error)
	DeleteProblem(ctx context.Context, id uint) error
	ListProblems(ctx context.Context) ([]dto.ProblemDTO, error)
	ListProblemsByLocation(ctx context.Context, location string) ([]dto.ProblemDTO, error)
	ListOverdueProblems(ctx context.Context) ([]dto.ProblemDTO, error)
	ListProblemsByDateRange(ctx context.Context, start, end time.Time) ([]dto.ProblemDTO, error)
	SearchProblems(ctx context.Context, term string) ([]dto.ProblemDTO, error)
}

// ProblemFlowImpl implements ProblemFlow
type ProblemFlowImpl struct {
	problemRepo repository.ProblemRepository
}

func NewProblemFlow(problemRepo repository.ProblemRepository) ProblemFlow {
	return &ProblemFlowImpl{problemRepo: problemRepo}
}

// CreateProblem opens a problem record
func (f *ProblemFlowImpl) CreateProblem(ctx context.Context, req *dto.CreateProblemRequest, metadata *ClientMetadata) (*dto.ProblemDTO, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.ProblemPriorityMedium
	}

	problem := models.Problem{
		Location:                strings.TrimSpace(req.Location),
		Description:             req.Description,
		EstimatedCompletionTime: utils.TimeToUTC(req.EstimatedCompletionTime),
		Status:                  models.ProblemStatusOpen,
		Priority:                priority,
	}
	if err := f.problemRepo.Save(ctx, &problem); err != nil {
		return nil, NewBusinessError("PROBLEM_CREATE_FAILED", "failed to create problem", err)
	}

	d := ToProblemDTO(problem)
	return &d, nil
}

// GetProblem returns one problem by ID
func (f *ProblemFlowImpl) GetProblem(ctx context.Context, id uint) (*dto.ProblemDTO, error) {
	problem, err := f.problemRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_FETCH_FAILED", "failed to fetch problem", err)
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}
	d := ToProblemDTO(*problem)
	return &d, nil
}

// UpdateProblem applies the provided fields to the problem
func (f *ProblemFlowImpl) UpdateProblem(ctx context.Context, id uint, req *dto.UpdateProblemRequest, metadata *ClientMetadata) (*dto.ProblemDTO, error) {
	if req.Status != nil {
		switch *req.Status {
		case models.ProblemStatusOpen, models.ProblemStatusInProgress, models.ProblemStatusResolved:
		default:
			return nil, NewBusinessError("INVALID_STATUS", fmt.Sprintf("unknown problem status %q", *req.Status), nil)
		}
	}

	updated, err := f.problemRepo.Update(ctx, id, models.ProblemPatch{
		Location:                req.Location,
		Description:             req.Description,
		EstimatedCompletionTime: utils.TimeToUTCPtr(req.EstimatedCompletionTime),
		Status:                  req.Status,
		Priority:                req.Priority,
	})
	if err != nil {
		return nil, NewBusinessError("PROBLEM_UPDATE_FAILED", "failed to update problem", err)
	}
	if updated == nil {
		return nil, ErrProblemNotFound
	}

	d := ToProblemDTO(*updated)
	return &d, nil
}

// DeleteProblem removes a problem record
func (f *ProblemFlowImpl) DeleteProblem(ctx context.Context, id uint) error {
	deleted, err := f.problemRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("PROBLEM_DELETE_FAILED", "failed to delete problem", err)
	}
	if !deleted {
		return ErrProblemNotFound
	}
	return nil
}

// ListProblems lists all problems, newest first
func (f *ProblemFlowImpl) ListProblems(ctx context.Context) ([]dto.ProblemDTO, error) {
	problems, err := f.problemRepo.ByFilter(ctx, models.ProblemFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_LIST_FAILED", "failed to list problems", err)
	}
	return toProblemDTOs(problems), nil
}

// ListProblemsByLocation lists problems reported at one location
func (f *ProblemFlowImpl) ListProblemsByLocation(ctx context.Context, location string) ([]dto.ProblemDTO, error) {
	problems, err := f.problemRepo.ListByLocation(ctx, location)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_LIST_FAILED", "failed to list problems", err)
	}
	return toProblemDTOs(problems), nil
}

// ListOverdueProblems lists unresolved problems past their estimated completion time
func (f *ProblemFlowImpl) ListOverdueProblems(ctx context.Context) ([]dto.ProblemDTO, error) {
	problems, err := f.problemRepo.ListOverdue(ctx, utils.UTCNow())
	if err != nil {
		return nil, NewBusinessError("PROBLEM_LIST_FAILED", "failed to list overdue problems", err)
	}
	return toProblemDTOs(problems), nil
}

// ListProblemsByDateRange lists problems created within [start, end]
func (f *ProblemFlowImpl) ListProblemsByDateRange(ctx context.Context, start, end time.Time) ([]dto.ProblemDTO, error) {
	if start.After(end) {
		return nil, ErrStartDateAfterEndDate
	}
	problems, err := f.problemRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_LIST_FAILED", "failed to list problems", err)
	}
	return toProblemDTOs(problems), nil
}

// SearchProblems finds problems matching the term in location or description
func (f *ProblemFlowImpl) SearchProblems(ctx context.Context, term string) ([]dto.ProblemDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, NewBusinessError("INVALID_SEARCH_TERM", "search term is required", nil)
	}
	problems, err := f.problemRepo.Search(ctx, term)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_SEARCH_FAILED", "failed to search problems", err)
	}
	return toProblemDTOs(problems), nil
}

func toProblemDTOs(problems []*models.Problem) []dto.ProblemDTO {
	out := make([]dto.ProblemDTO, 0, len(problems))
	for _, p := range problems {
		out = append(out, ToProblemDTO(*p))
	}
	return out
}
