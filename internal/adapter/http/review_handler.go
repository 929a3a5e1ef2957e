package http

import (
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"tuka-portal/internal/usecase/review"
)

type ReviewHandler struct {
	uc      *review.Usecase
	metrics Counters
}

func NewReviewHandler(uc *review.Usecase, m Counters) *ReviewHandler {
	return &ReviewHandler{uc: uc, metrics: countersOrNoop(m)}
}

// List handles GET /admin/loans?status=&loan_type=.
func (h *ReviewHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), review.ListInput{
		Status:   c.QueryParam("status"),
		LoanType: c.QueryParam("loan_type"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": out})
}

func (h *ReviewHandler) Detail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type decideReq struct {
	Status     string `json:"status" form:"status" validate:"required,loanstatus"`
	AdminNotes string `json:"admin_notes" form:"admin_notes"`
}

// Decide handles POST /admin/loans/:id.
func (h *ReviewHandler) Decide(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Decide(c.Request().Context(), id, review.DecideInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		AdminID:    sessionUser(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.ObserveDecision(string(out.Status))
	return c.JSON(http.StatusOK, map[string]any{"message": "Application status updated.", "decision": out})
}

// Delete handles POST /admin/loans/delete/:id. Stored files are kept.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Application deleted.", "id": id})
}

// Attachment handles GET /admin/loans/attachments/*.
func (h *ReviewHandler) Attachment(c echo.Context) error {
	rc, name, err := h.uc.OpenAttachment(c.Request().Context(), c.Param("*"))
	if err != nil {
		return writeError(c, err)
	}
	defer rc.Close()

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": name}))
	return c.Stream(http.StatusOK, ct, rc)
}
