package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateCaseNumber indicates the unique constraint on case numbers
	// fired. With per-key serialization in place this should never happen;
	// when it does the issuance must fail hard and be retried, never
	// silently renumbered.
	ErrDuplicateCaseNumber = errors.New("case number already exists")

	ErrUnknownStudyType = errors.New("unknown study type")
)

// draftNumberPrefix marks the reserved numbering scheme for draft/test
// cases. Draft numbers never occupy or advance the real sequence.
const draftNumberPrefix = "TEST-"

// NumberingService issues case numbers of the form PREFIX-YY-NNNN, unique
// and strictly increasing per (study type, year) among non-draft cases.
//
// Concurrent intakes for the same key are serialized with a per-key mutex
// held across the whole read-max / insert transaction, so two callers can
// never observe the same current maximum. The key space is bounded (study
// types x years), so entries are kept for the life of the process.
type NumberingService struct {
	db       *gorm.DB
	log      *logrus.Logger
	caseRepo repository.CaseRepository

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

func NewNumberingService(db *gorm.DB, log *logrus.Logger, caseRepo repository.CaseRepository) *NumberingService {
	return &NumberingService{
		db:       db,
		log:      log,
		caseRepo: caseRepo,
		keys:     map[string]*sync.Mutex{},
	}
}

// Issue computes the next real case number for (studyType, year) and runs
// persist inside the same transaction, so the inserted case is visible to
// the next max-number read before the key lock is released. Year zero means
// the current year.
func (s *NumberingService) Issue(ctx context.Context, studyType entity.StudyType, year int, persist func(tx *gorm.DB, number string) error) (string, error) {
	return s.issue(ctx, studyType, year, false, persist)
}

// IssueDraft issues from the reserved TEST- sequence computed over draft
// cases only.
func (s *NumberingService) IssueDraft(ctx context.Context, studyType entity.StudyType, year int, persist func(tx *gorm.DB, number string) error) (string, error) {
	return s.issue(ctx, studyType, year, true, persist)
}

func (s *NumberingService) issue(ctx context.Context, studyType entity.StudyType, year int, draft bool, persist func(tx *gorm.DB, number string) error) (string, error) {
	if !studyType.IsValid() {
		return "", ErrUnknownStudyType
	}
	if year == 0 {
		year = time.Now().Year()
	}

	key := fmt.Sprintf("%s-%02d-%t", studyType.Prefix(), year%100, draft)
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	tx := s.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	number, err := s.nextNumber(tx, studyType, year, draft)
	if err != nil {
		s.log.Warnf("Failed to compute next case number for %s: %+v", key, err)
		return "", err
	}

	if err := persist(tx, number); err != nil {
		if isUniqueViolation(err) {
			s.log.Errorf("Duplicate case number %s despite serialization: %+v", number, err)
			return "", ErrDuplicateCaseNumber
		}
		return "", err
	}

	if err := tx.Commit().Error; err != nil {
		s.log.Warnf("Failed to commit case number issuance for %s: %+v", key, err)
		return "", err
	}

	return number, nil
}

// nextNumber reads the current maximum for the key and formats max+1. Must
// be called with the key lock held, inside the issuance transaction.
func (s *NumberingService) nextNumber(tx *gorm.DB, studyType entity.StudyType, year int, draft bool) (string, error) {
	prefix := studyType.Prefix()
	base := fmt.Sprintf("%s-%02d-", prefix, year%100)
	if draft {
		base = draftNumberPrefix + base
	}

	last, err := s.caseRepo.FindLastNumber(tx, base+"%", draft)
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		parts := strings.Split(last, "-")
		seq, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return "", fmt.Errorf("malformed case number %q: %w", last, err)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%04d", base, next), nil
}

func (s *NumberingService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keys[key] = lock
	}
	return lock
}

// isUniqueViolation matches unique constraint errors across the drivers we
// run on (postgres in production, sqlite in tests).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
