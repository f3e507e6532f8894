package service

import (
	"context"

	"go-lab-case-tracker/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// CaseCompletedNotification is the payload handed to the notification
// collaborator when a case reaches COMPLETED. Delivery (email/SMS) happens
// outside this engine; a dispatch failure is logged and never undoes the
// completion.
type CaseCompletedNotification struct {
	CaseNumber            string           `json:"case_number"`
	StudyType             entity.StudyType `json:"study_type"`
	ProviderRef           string           `json:"provider_ref"`
	PatientRef            string           `json:"patient_ref"`
	DocumentationComplete bool             `json:"documentation_complete"`
}

type Notifier interface {
	CaseCompleted(ctx context.Context, notification CaseCompletedNotification) error
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier returns a Notifier that only records the dispatch; the
// real delivery collaborator is wired in deployments that have one.
func NewLogNotifier(log *logrus.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) CaseCompleted(ctx context.Context, notification CaseCompletedNotification) error {
	n.log.Infof("Case completed notification: number=%s, study_type=%s, provider=%s, documented=%t",
		notification.CaseNumber, notification.StudyType, notification.ProviderRef, notification.DocumentationComplete)
	return nil
}
