package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-lab-case-tracker/internal/converter"
	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"
	"go-lab-case-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCaseNotFound      = errors.New("case not found")
	ErrCaseNotEditable   = errors.New("case can no longer be edited")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPermissionDenied  = errors.New("permission denied")
)

// noticeCompletionDenied is attached to the create response when the actor
// asked for immediate completion without holding the completion grant. The
// case is still saved, one state back.
const noticeCompletionDenied = "Completing reports requires authorization; the case was saved as pending instead."

type CaseUsecase interface {
	CreateCase(ctx context.Context, actorID uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error)
	GetCase(ctx context.Context, id int64) (*dto.CaseResponse, error)
	GetCaseByNumber(ctx context.Context, number string) (*dto.CaseResponse, error)
	ListCases(ctx context.Context, filter repository.CaseFilter) (*dto.CaseListResponse, error)
	UpdateCase(ctx context.Context, actorID uuid.UUID, id int64, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error)
	SetStatus(ctx context.Context, actorID uuid.UUID, id int64, req *dto.SetCaseStatusRequest) (*dto.CaseResponse, error)
	CompleteCase(ctx context.Context, actorID uuid.UUID, id int64) (*dto.CaseResponse, error)
	GetStats(ctx context.Context) (*dto.CaseStatsResponse, error)
}

type caseUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	caseRepo     repository.CaseRepository
	caseLineRepo repository.CaseLineRepository
	userRepo     repository.UserRepository
	numbering    *service.NumberingService
	permissions  *service.PermissionService
	audit        service.AuditService
	notifier     service.Notifier
}

func NewCaseUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	caseRepo repository.CaseRepository,
	caseLineRepo repository.CaseLineRepository,
	userRepo repository.UserRepository,
	numbering *service.NumberingService,
	permissions *service.PermissionService,
	audit service.AuditService,
	notifier service.Notifier,
) CaseUsecase {
	return &caseUsecase{
		db:           db,
		log:          log,
		caseRepo:     caseRepo,
		caseLineRepo: caseLineRepo,
		userRepo:     userRepo,
		numbering:    numbering,
		permissions:  permissions,
		audit:        audit,
		notifier:     notifier,
	}
}

func (u *caseUsecase) CreateCase(ctx context.Context, actorID uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error) {
	intakeDate := time.Now()
	if req.IntakeDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IntakeDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		intakeDate = parsed
	}

	status := entity.CaseStatusPending
	if req.Urgent {
		status = entity.CaseStatusUrgent
	}

	c := &entity.Case{
		StudyType:     entity.StudyType(req.StudyType),
		Status:        status,
		IsDraft:       req.IsDraft,
		PatientRef:    req.PatientRef,
		ProviderRef:   req.ProviderRef,
		InsurerRef:    req.InsurerRef,
		ClinicalNotes: req.ClinicalNotes,
		IntakeDate:    intakeDate,
		CreatedBy:     &actorID,
		Lines:         caseLinesFromRequests(req.Lines),
	}

	// Completing at intake is allowed but gated; a denied request degrades
	// to saving the case uncompleted, with a notice, instead of failing.
	notice := ""
	completed := false
	if req.MarkCompleted {
		allowed, err := u.canComplete(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if allowed {
			c.Complete(actorID, time.Now())
			completed = true
		} else {
			notice = noticeCompletionDenied
		}
	}

	issue := u.numbering.Issue
	if req.IsDraft {
		issue = u.numbering.IssueDraft
	}

	_, err := issue(ctx, c.StudyType, intakeDate.Year(), func(tx *gorm.DB, number string) error {
		c.Number = number
		if err := u.caseRepo.Create(tx, c); err != nil {
			u.log.Warnf("Failed to create case: %+v", err)
			return err
		}
		if err := u.audit.Record(tx, &actorID, entity.AuditActionCaseCreate, entity.Case{}.TableName(), c.ID, fmt.Sprintf("Case %s created", number)); err != nil {
			return err
		}
		if completed {
			return u.audit.RecordTransition(tx, &actorID, c, status, entity.CaseStatusCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		u.notifyCompleted(ctx, c)
	}

	response := converter.CaseToResponse(c)
	response.Notice = notice
	return response, nil
}

func (u *caseUsecase) GetCase(ctx context.Context, id int64) (*dto.CaseResponse, error) {
	c, err := u.caseRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find case by ID: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return converter.CaseToResponse(c), nil
}

func (u *caseUsecase) GetCaseByNumber(ctx context.Context, number string) (*dto.CaseResponse, error) {
	c, err := u.caseRepo.FindByNumber(u.db.WithContext(ctx), number)
	if err != nil {
		u.log.Warnf("Failed to find case by number: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return converter.CaseToResponse(c), nil
}

func (u *caseUsecase) ListCases(ctx context.Context, filter repository.CaseFilter) (*dto.CaseListResponse, error) {
	cases, err := u.caseRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list cases: %+v", err)
		return nil, err
	}

	return &dto.CaseListResponse{
		Cases: converter.CasesToResponses(cases),
		Total: len(cases),
	}, nil
}

func (u *caseUsecase) UpdateCase(ctx context.Context, actorID uuid.UUID, id int64, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	c, err := u.caseRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find case by ID: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if !c.IsEditable() {
		return nil, ErrCaseNotEditable
	}

	if req.PatientRef != "" {
		c.PatientRef = req.PatientRef
	}
	if req.ProviderRef != "" {
		c.ProviderRef = req.ProviderRef
	}
	if req.InsurerRef != "" {
		c.InsurerRef = req.InsurerRef
	}
	if req.ClinicalNotes != "" {
		c.ClinicalNotes = req.ClinicalNotes
	}

	from := c.Status
	if req.Urgent != nil {
		target := c.Status
		if *req.Urgent && c.Status != entity.CaseStatusUrgent {
			target = entity.CaseStatusUrgent
		}
		// Clearing urgency means work on the case has started, so it lands
		// in IN_PROGRESS rather than back at intake.
		if !*req.Urgent && c.Status == entity.CaseStatusUrgent {
			target = entity.CaseStatusInProgress
		}
		if target != c.Status {
			if !c.Status.CanTransitionTo(target) {
				return nil, ErrInvalidTransition
			}
			c.Status = target
		}
	}

	lines := c.Lines
	if req.Lines != nil {
		lines = caseLinesFromRequests(req.Lines)
		if err := u.caseLineRepo.ReplaceForCase(tx, c.ID, lines); err != nil {
			u.log.Warnf("Failed to replace case lines: %+v", err)
			return nil, err
		}
	}

	// Detach the association so Save does not re-insert lines the replace
	// above already wrote.
	c.Lines = nil
	if err := u.caseRepo.Update(tx, c); err != nil {
		u.log.Warnf("Failed to update case: %+v", err)
		return nil, err
	}
	c.Lines = lines

	if err := u.audit.Record(tx, &actorID, entity.AuditActionCaseUpdate, entity.Case{}.TableName(), c.ID, fmt.Sprintf("Case %s updated", c.Number)); err != nil {
		return nil, err
	}
	if c.Status != from {
		if err := u.audit.RecordTransition(tx, &actorID, c, from, c.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.CaseToResponse(c), nil
}

func (u *caseUsecase) SetStatus(ctx context.Context, actorID uuid.UUID, id int64, req *dto.SetCaseStatusRequest) (*dto.CaseResponse, error) {
	return u.transition(ctx, actorID, id, entity.CaseStatus(req.Status))
}

func (u *caseUsecase) CompleteCase(ctx context.Context, actorID uuid.UUID, id int64) (*dto.CaseResponse, error) {
	return u.transition(ctx, actorID, id, entity.CaseStatusCompleted)
}

func (u *caseUsecase) GetStats(ctx context.Context) (*dto.CaseStatsResponse, error) {
	db := u.db.WithContext(ctx)

	byStatus := map[string]int64{}
	for _, status := range []entity.CaseStatus{
		entity.CaseStatusPending,
		entity.CaseStatusUrgent,
		entity.CaseStatusInProgress,
		entity.CaseStatusCompleted,
		entity.CaseStatusCancelled,
	} {
		count, err := u.caseRepo.CountByStatus(db, status)
		if err != nil {
			u.log.Warnf("Failed to count cases by status: %+v", err)
			return nil, err
		}
		byStatus[string(status)] = count
	}

	byStudyType := map[string]int64{}
	for _, studyType := range []entity.StudyType{
		entity.StudyTypeTissueBiopsy,
		entity.StudyTypeGeneralCytology,
		entity.StudyTypeCervicalCytology,
	} {
		count, err := u.caseRepo.CountByStudyType(db, studyType)
		if err != nil {
			u.log.Warnf("Failed to count cases by study type: %+v", err)
			return nil, err
		}
		byStudyType[string(studyType)] = count
	}

	return &dto.CaseStatsResponse{
		ByStatus:    byStatus,
		ByStudyType: byStudyType,
	}, nil
}

// transition moves the case to target inside one transaction, writing the
// audit entry atomically with the change. Completion is gated before the
// transaction opens; the notification goes out only after commit.
func (u *caseUsecase) transition(ctx context.Context, actorID uuid.UUID, id int64, target entity.CaseStatus) (*dto.CaseResponse, error) {
	if target == entity.CaseStatusCompleted {
		allowed, err := u.canComplete(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrPermissionDenied
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	c, err := u.caseRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find case by ID: %+v", err)
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	if c.Status == target {
		return converter.CaseToResponse(c), nil
	}

	from := c.Status
	if !from.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	if target == entity.CaseStatusCompleted {
		c.Complete(actorID, time.Now())
	} else {
		c.Status = target
	}

	lines := c.Lines
	c.Lines = nil
	if err := u.caseRepo.Update(tx, c); err != nil {
		u.log.Warnf("Failed to update case status: %+v", err)
		return nil, err
	}
	c.Lines = lines

	if err := u.audit.RecordTransition(tx, &actorID, c, from, target); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if target == entity.CaseStatusCompleted {
		u.notifyCompleted(ctx, c)
	}

	return converter.CaseToResponse(c), nil
}

func (u *caseUsecase) canComplete(ctx context.Context, actorID uuid.UUID) (bool, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), actorID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return u.permissions.HasCapability(&user.Role, service.CapabilityCompleteReports), nil
}

// notifyCompleted dispatches the completion notification. Failures are
// logged only; the committed completion stands.
func (u *caseUsecase) notifyCompleted(ctx context.Context, c *entity.Case) {
	notification := service.CaseCompletedNotification{
		CaseNumber:            c.Number,
		StudyType:             c.StudyType,
		ProviderRef:           c.ProviderRef,
		PatientRef:            c.PatientRef,
		DocumentationComplete: len(c.Lines) > 0,
	}
	if err := u.notifier.CaseCompleted(ctx, notification); err != nil {
		u.log.Warnf("Failed to dispatch completion notification for case %s: %+v", c.Number, err)
	}
}

func caseLinesFromRequests(requests []dto.CaseLineRequest) []entity.CaseLine {
	lines := make([]entity.CaseLine, len(requests))
	for i, req := range requests {
		lines[i] = entity.CaseLine{
			SectionCode:  req.SectionCode,
			Text:         req.Text,
			DisplayOrder: i,
		}
	}
	return lines
}
