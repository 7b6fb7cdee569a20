package http

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanflow/internal/adapter/middleware"
	"loanflow/internal/usecase/loan"
)

// Uploader stores applicant documents and returns their public URLs.
type Uploader interface {
	SaveAll(files []*multipart.FileHeader) ([]string, error)
}

type LoanHandler struct {
	uc      *loan.Usecase
	uploads Uploader
	log     *zap.Logger
}

// NewLoanHandler builds the applicant endpoints. uploads may be nil, in which
// case attached files are ignored.
func NewLoanHandler(uc *loan.Usecase, uploads Uploader, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{uc: uc, uploads: uploads, log: log}
}

type applyLoanReq struct {
	Type           string   `json:"type"           form:"type"           validate:"required"`
	Amount         float64  `json:"amount"         form:"amount"         validate:"gt=0,dec2"`
	TenureYears    int      `json:"tenureYears"    form:"tenureYears"    validate:"gte=0,lte=50"`
	PaymentOption  string   `json:"paymentOption"  form:"paymentOption"  validate:"payoption"`
	ApplicantName  string   `json:"applicantName"  form:"applicantName"`
	ApplicantEmail string   `json:"applicantEmail" form:"applicantEmail" validate:"omitempty,email"`
	Purpose        string   `json:"purpose"        form:"purpose"        validate:"required"`
	Documents      []string `json:"documents"`
}

type payLoanReq struct {
	Type   string  `json:"type"   validate:"required,paytype"`
	Amount float64 `json:"amount" validate:"gte=0,dec2"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	docs := req.Documents
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		docs = append(docs, h.saveUploads(c)...)
	}

	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput{
		UserID:         middleware.UserID(c),
		Type:           req.Type,
		Amount:         req.Amount,
		TenureYears:    req.TenureYears,
		PaymentOption:  req.PaymentOption,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		Purpose:        req.Purpose,
		Documents:      docs,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// saveUploads stores the multipart "files". A failed upload never blocks the
// application; it proceeds without documents.
func (h *LoanHandler) saveUploads(c echo.Context) []string {
	if h.uploads == nil {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return nil
	}
	urls, err := h.uploads.SaveAll(form.File["files"])
	if err != nil {
		h.log.Warn("document upload failed, continuing without documents",
			zap.String("user_id", middleware.UserID(c)),
			zap.Int("files", len(form.File["files"])),
			zap.Error(err))
		return nil
	}
	return urls
}

func (h *LoanHandler) List(c echo.Context) error {
	out, err := h.uc.ListMine(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	ref, ok, err := loanRef(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), ref)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Withdraw(c echo.Context) error {
	ref, ok, err := loanRef(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), middleware.UserID(c), ref)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Pay(c echo.Context) error {
	ref, ok, err := loanRef(c)
	if !ok {
		return err
	}
	var req payLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Pay(c.Request().Context(), middleware.UserID(c), ref, loan.PayInput{
		Type:   req.Type,
		Amount: req.Amount,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
