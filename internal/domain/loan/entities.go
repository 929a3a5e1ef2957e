package loan

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("loan application not found")
	ErrNotOwner        = errors.New("you do not have access to this application")
	ErrNotEditable     = errors.New("application cannot be edited")
	ErrInvalidType     = errors.New("invalid loan type")
	ErrInvalidStatus   = errors.New("invalid application status")
	ErrMissingDocument = errors.New("required document missing")
	ErrInvalidForm     = errors.New("invalid form")
)

type Type string

const (
	TypePersonal Type = "personal"
	TypeBusiness Type = "business"
)

// Prefix is the application-number prefix for the loan type.
func (t Type) Prefix() string {
	if t == TypeBusiness {
		return "BUS"
	}
	return "PERS"
}

func (t Type) Valid() bool { return t == TypePersonal || t == TypeBusiness }

// ParseType accepts exactly "personal" or "business".
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

var statuses = []Status{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Cadence is the revenue reporting period used by the eligibility check.
type Cadence string

const (
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// Application is the parent row shared by personal and business loans.
// Exactly one of Personal / Business is populated, matching LoanType.
type Application struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationNumber string     `gorm:"column:application_number;size:40;not null;uniqueIndex:ux_loan_applications_number" json:"application_number"`
	LoanType          Type       `gorm:"column:loan_type;size:16;not null;index" json:"loan_type"`
	Status            Status     `gorm:"column:status;size:16;not null;default:'pending';index" json:"status"`
	UserID            uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	InterestRate      float64    `gorm:"column:interest_rate;type:decimal(6,4);default:0.30" json:"interest_rate"`
	TotalRepayment    float64    `gorm:"column:total_repayment;type:decimal(18,2)" json:"total_repayment"`
	AdminNotes        string     `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	AppliedDate       time.Time  `gorm:"column:applied_date;autoCreateTime" json:"applied_date"`
	UpdatedDate       *time.Time `gorm:"column:updated_date" json:"updated_date,omitempty"`
	DecisionDate      *time.Time `gorm:"column:decision_date" json:"decision_date,omitempty"`
	DecisionBy        *uint64    `gorm:"column:decision_by" json:"decision_by,omitempty"`

	Personal    *PersonalDetails `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"personal,omitempty"`
	Business    *BusinessDetails `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
	Collateral  []CollateralItem `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"collateral,omitempty"`
	Attachments []Attachment     `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (Application) TableName() string { return "loan_applications" }

// Editable reports whether the owner may still change the application.
func (a *Application) Editable() bool { return a.Status == StatusPending }

type PersonalDetails struct {
	ID                 uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicationID      uint64     `gorm:"column:application_id;not null;uniqueIndex" json:"-"`
	LoanAmount         float64    `gorm:"column:loan_amount;type:decimal(18,2);not null" json:"loan_amount"`
	Purpose            string     `gorm:"column:purpose;type:text;not null" json:"purpose"`
	RepaymentPeriod    int        `gorm:"column:repayment_period_days;not null" json:"repayment_period"`
	FullName           string     `gorm:"column:full_name;size:255;not null" json:"full_name"`
	DateOfBirth        *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	NRCNumber          string     `gorm:"column:nrc_number;size:64" json:"nrc_number"`
	Email              string     `gorm:"column:email;size:255" json:"email"`
	PhoneNumber        string     `gorm:"column:phone_number;size:64" json:"phone_number"`
	ResidentialAddress string     `gorm:"column:residential_address;type:text" json:"residential_address"`
	TermsAccepted      bool       `gorm:"column:terms_accepted;default:false" json:"terms_accepted"`
	AgreementDate      *time.Time `gorm:"column:agreement_date" json:"agreement_date,omitempty"`
	SignatureFile      string     `gorm:"column:signature_file;type:text" json:"signature_file,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PersonalDetails) TableName() string { return "personal_loan_details" }

type BusinessDetails struct {
	ID                 uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicationID      uint64     `gorm:"column:application_id;not null;uniqueIndex" json:"-"`
	BusinessName       string     `gorm:"column:business_name;size:255;not null" json:"business_name"`
	RegistrationNumber string     `gorm:"column:business_registration_number;size:128;not null" json:"registration_number"`
	LoanAmount         float64    `gorm:"column:loan_amount;type:decimal(18,2);not null" json:"loan_amount"`
	Purpose            string     `gorm:"column:purpose;type:text;not null" json:"purpose"`
	RepaymentPeriod    int        `gorm:"column:repayment_period_days;not null" json:"repayment_period"`
	ContactPerson      string     `gorm:"column:contact_person_name;size:255" json:"contact_person"`
	ContactEmail       string     `gorm:"column:contact_email;size:255" json:"contact_email"`
	ContactPhone       string     `gorm:"column:contact_phone;size:64" json:"contact_phone"`
	BusinessAddress    string     `gorm:"column:business_address;type:text" json:"business_address"`
	TermsAccepted      bool       `gorm:"column:terms_accepted;default:false" json:"terms_accepted"`
	AgreementDate      *time.Time `gorm:"column:agreement_date" json:"agreement_date,omitempty"`
	SignatureFile      string     `gorm:"column:signature_file;type:text" json:"signature_file,omitempty"`

	// Legacy rows kept document paths directly on the detail record.
	CertificatePath   string `gorm:"column:certificate_path;type:text" json:"-"`
	TaxClearancePath  string `gorm:"column:tax_clearance_path;type:text" json:"-"`
	BankStatementPath string `gorm:"column:bank_statement_path;type:text" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BusinessDetails) TableName() string { return "business_loan_details" }

type CollateralItem struct {
	ID                   uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID        uint64    `gorm:"column:application_id;not null;index" json:"-"`
	LoanType             Type      `gorm:"column:loan_type;size:16;not null" json:"loan_type"`
	ItemName             string    `gorm:"column:item_name;size:255;not null" json:"item_name"`
	ItemType             string    `gorm:"column:item_type;size:128" json:"item_type"`
	EstimatedValue       float64   `gorm:"column:estimated_value;type:decimal(18,2)" json:"estimated_value"`
	ConditionDescription string    `gorm:"column:condition_description;type:text" json:"condition_description"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CollateralItem) TableName() string { return "collateral_items" }

type Attachment struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID    uint64    `gorm:"column:application_id;not null;index" json:"-"`
	DocumentCategory string    `gorm:"column:document_category;size:128" json:"document_category"`
	FileName         string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FilePath         string    `gorm:"column:file_path;type:text;not null" json:"file_path"`
	UploadedAt       time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (Attachment) TableName() string { return "application_attachments" }

// Summary is a list row: the application plus resolved applicant fields.
type Summary struct {
	ID                uint64    `json:"id"`
	ApplicationNumber string    `json:"application_number"`
	LoanType          Type      `json:"loan_type"`
	Status            Status    `json:"status"`
	UserID            uint64    `json:"user_id"`
	ApplicantEmail    string    `json:"applicant_email"`
	DisplayName       string    `json:"display_name"`
	LoanAmount        float64   `json:"loan_amount"`
	TotalRepayment    float64   `json:"total_repayment"`
	AppliedDate       time.Time `json:"applied_date"`
}

// Filter holds optional equality filters; zero values match everything.
type Filter struct {
	Status   Status
	LoanType Type
	UserID   uint64
	Limit    int
}

// Stats is the per-user dashboard aggregate.
type Stats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
}

// Decision is what an admin writes when reviewing an application.
type Decision struct {
	Status     Status
	AdminNotes string
	DecidedBy  uint64
	DecidedAt  time.Time
}
