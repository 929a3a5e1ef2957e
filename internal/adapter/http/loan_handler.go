package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tuka-portal/internal/usecase/loan"
)

type LoanHandler struct {
	uc      *loan.Usecase
	metrics Counters
}

func NewLoanHandler(uc *loan.Usecase, m Counters) *LoanHandler {
	return &LoanHandler{uc: uc, metrics: countersOrNoop(m)}
}

// applicationForm is the multipart form shared by submission and edit.
// Collateral fields repeat and are aligned by index.
type applicationForm struct {
	LoanType string `form:"loan_type" validate:"omitempty,loantype"`

	Amount          string `form:"amount"`
	Purpose         string `form:"purpose"`
	RepaymentPeriod int    `form:"repayment_period" validate:"gte=0"`
	FullName        string `form:"full_name"`
	DOB             string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	NRC             string `form:"nrc"`
	Email           string `form:"email" validate:"omitempty,email"`
	Phone           string `form:"phone"`
	Address         string `form:"address"`

	BusAmount  string `form:"bus-amt"`
	BusPurpose string `form:"bus-purpose"`
	BusPeriod  int    `form:"bus-period" validate:"gte=0"`
	BusName    string `form:"bus-name"`
	BusReg     string `form:"bus-reg"`
	BusContact string `form:"bus-contact"`
	BusEmail   string `form:"bus-email" validate:"omitempty,email"`
	BusPhone   string `form:"bus-phone"`
	BusAddress string `form:"bus-address"`

	CollateralName      []string `form:"collateral_name"`
	CollateralOther     []string `form:"collateral_other"`
	CollateralType      []string `form:"collateral_type"`
	CollateralValue     []string `form:"collateral_value"`
	CollateralCondition []string `form:"collateral_condition"`

	SignatureData string `form:"signature_data"`
	TermsAccepted string `form:"terms_accepted"`
}

// checked reads an HTML checkbox value.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func (f *applicationForm) input() loan.ApplicationInput {
	in := loan.ApplicationInput{
		LoanType: strings.TrimSpace(f.LoanType),
		Personal: loan.PersonalInput{
			Amount:          f.Amount,
			Purpose:         f.Purpose,
			RepaymentPeriod: f.RepaymentPeriod,
			FullName:        f.FullName,
			NRCNumber:       f.NRC,
			Email:           f.Email,
			Phone:           f.Phone,
			Address:         f.Address,
		},
		Business: loan.BusinessInput{
			Amount:             f.BusAmount,
			Purpose:            f.BusPurpose,
			RepaymentPeriod:    f.BusPeriod,
			BusinessName:       f.BusName,
			RegistrationNumber: f.BusReg,
			ContactPerson:      f.BusContact,
			Email:              f.BusEmail,
			Phone:              f.BusPhone,
			Address:            f.BusAddress,
		},
		SignatureData: f.SignatureData,
		TermsAccepted: checked(f.TermsAccepted),
	}
	if f.DOB != "" {
		if d, err := time.Parse("2006-01-02", f.DOB); err == nil {
			in.Personal.DateOfBirth = &d
		}
	}
	for i, name := range f.CollateralName {
		in.Collateral = append(in.Collateral, loan.CollateralInput{
			Name:      name,
			OtherName: at(f.CollateralOther, i),
			Type:      at(f.CollateralType, i),
			Value:     at(f.CollateralValue, i),
			Condition: at(f.CollateralCondition, i),
		})
	}
	return in
}

// uploadsFrom lists every file part, ordered by field name.
func uploadsFrom(mf *multipart.Form) []loan.Upload {
	if mf == nil {
		return nil
	}
	fields := make([]string, 0, len(mf.File))
	for k := range mf.File {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var out []loan.Upload
	for _, field := range fields {
		for _, fh := range mf.File[field] {
			out = append(out, loan.Upload{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
				Open:        func() (io.ReadCloser, error) { return fh.Open() },
			})
		}
	}
	return out
}

// bindApplication binds and validates the form. It writes the error
// response itself and returns ok=false when the request is rejected.
func bindApplication(c echo.Context) (loan.ApplicationInput, bool, error) {
	mf, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return loan.ApplicationInput{}, false, invalidBody(c)
	}
	var f applicationForm
	if err := c.Bind(&f); err != nil {
		return loan.ApplicationInput{}, false, invalidBody(c)
	}
	if err := c.Validate(&f); err != nil {
		return loan.ApplicationInput{}, false, validationFailed(c, err)
	}
	in := f.input()
	in.Uploads = uploadsFrom(mf)
	return in, true, nil
}

type submitResp struct {
	Message string `json:"message"`
	*loan.ApplicationDTO
}

// Submit handles POST /finance/loans.
func (h *LoanHandler) Submit(c echo.Context) error {
	in, ok, err := bindApplication(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), sessionUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.ObserveSubmission(string(dto.LoanType))
	return c.JSON(http.StatusCreated, submitResp{
		Message:        "Loan application submitted. Your application number is " + dto.ApplicationNumber + ".",
		ApplicationDTO: dto,
	})
}

// EditForm handles GET /finance/loans/edit/:id.
func (h *LoanHandler) EditForm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	a, err := h.uc.GetEditable(c.Request().Context(), sessionUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Edit handles POST /finance/loans/edit/:id.
func (h *LoanHandler) Edit(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	in, ok, err := bindApplication(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Edit(c.Request().Context(), sessionUser(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, submitResp{Message: "Application updated.", ApplicationDTO: dto})
}

func (h *LoanHandler) MyLoans(c echo.Context) error {
	out, err := h.uc.ListMine(c.Request().Context(), sessionUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": out})
}

func (h *LoanHandler) Dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context(), sessionUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
