package loan

import (
	"io"
	"time"

	domain "tuka-portal/internal/domain/loan"
)

// Upload is one file part of the multipart form. Field is the form key,
// which selects the document slot.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type PersonalInput struct {
	Amount          string
	Purpose         string
	RepaymentPeriod int
	FullName        string
	DateOfBirth     *time.Time
	NRCNumber       string
	Email           string
	Phone           string
	Address         string
}

type BusinessInput struct {
	Amount             string
	Purpose            string
	RepaymentPeriod    int
	BusinessName       string
	RegistrationNumber string
	ContactPerson      string
	Email              string
	Phone              string
	Address            string
}

// CollateralInput is one declared item. Name "other" is a placeholder that
// OtherName replaces.
type CollateralInput struct {
	Name      string
	OtherName string
	Type      string
	Value     string
	Condition string
}

// ApplicationInput is shared by submission and edit.
type ApplicationInput struct {
	LoanType      string
	Personal      PersonalInput
	Business      BusinessInput
	Collateral    []CollateralInput
	SignatureData string
	TermsAccepted bool
	Uploads       []Upload
}

type ApplicationDTO struct {
	ID                uint64        `json:"id"`
	ApplicationNumber string        `json:"application_number"`
	LoanType          domain.Type   `json:"loan_type"`
	Status            domain.Status `json:"status"`
	TotalRepayment    float64       `json:"total_repayment"`
	AttachmentsAdded  int           `json:"attachments_added"`
}

type DashboardDTO struct {
	domain.Stats
	Recent []domain.Summary `json:"recent"`
}
