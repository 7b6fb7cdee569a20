package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanflow/internal/adapter/middleware"
	"loanflow/internal/domain/loan"
	"loanflow/internal/usecase/review"
)

type ReviewHandler struct {
	uc  *review.Usecase
	log *zap.Logger
}

func NewReviewHandler(uc *review.Usecase, log *zap.Logger) *ReviewHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewHandler{uc: uc, log: log}
}

type setStatusReq struct {
	Status string `json:"status" validate:"required,managerstatus"`
}

func (h *ReviewHandler) List(c echo.Context) error {
	f := loan.Filter{Query: c.QueryParam("q")}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		st, ok := loan.ParseStatus(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status filter"})
		}
		f.Status = st
	}
	var err error
	if f.MinAmount, err = amountParam(c, "minAmount"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minAmount"})
	}
	if f.MaxAmount, err = amountParam(c, "maxAmount"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maxAmount"})
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func amountParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *ReviewHandler) Stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) SetStatus(c echo.Context) error {
	ref, ok, err := loanRef(c)
	if !ok {
		return err
	}
	var req setStatusReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetStatus(c.Request().Context(), ref, req.Status, middleware.Manager(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	ref, ok, err := loanRef(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), ref, middleware.Manager(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
