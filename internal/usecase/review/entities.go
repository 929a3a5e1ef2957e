package review

import (
	"time"

	domain "tuka-portal/internal/domain/loan"
)

type ListInput struct {
	Status   string
	LoanType string
}

type DecideInput struct {
	Status     string
	AdminNotes string
	AdminID    uint64
}

// DetailDTO is the admin view of one application.
type DetailDTO struct {
	*domain.Application
	DisplayName string                  `json:"display_name"`
	LoanAmount  float64                 `json:"loan_amount"`
	Documents   []domain.AttachmentView `json:"documents"`
}

type DecisionDTO struct {
	ID           uint64        `json:"id"`
	Status       domain.Status `json:"status"`
	AdminNotes   string        `json:"admin_notes"`
	DecisionBy   uint64        `json:"decision_by"`
	DecisionDate time.Time     `json:"decision_date"`
}
