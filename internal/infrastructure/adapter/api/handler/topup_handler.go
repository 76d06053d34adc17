package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/topup"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// TopUpHandler handles top-up submission and review
type TopUpHandler struct {
	workflow *topup.Workflow
	logger   coreport.Logger
}

// NewTopUpHandler creates a new top-up handler instance
func NewTopUpHandler(workflow *topup.Workflow, logger coreport.Logger) *TopUpHandler {
	return &TopUpHandler{workflow: workflow, logger: logger}
}

// Submit handles POST /topups
func (h *TopUpHandler) Submit(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req dto.SubmitTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errs.Validation("invalid request format: %s", err.Error()))
		return
	}

	request, err := h.workflow.Submit(c.Request.Context(), identity.UserID, req.Amount, entity.Receipt{
		Reference: req.ReceiptReference,
		MimeType:  req.ReceiptMimeType,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTopUpResponse(request))
}

// Mine handles GET /me/topups
func (h *TopUpHandler) Mine(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	page, err := pageQuery(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	requests, err := h.workflow.ListForUser(c.Request.Context(), identity.UserID, page)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, topUpResponses(requests))
}

// Pending handles GET /admin/topups/pending
func (h *TopUpHandler) Pending(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	requests, err := h.workflow.ListPending(c.Request.Context(), page)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, topUpResponses(requests))
}

// History handles GET /admin/topups/history?from&to&admin&user&status
func (h *TopUpHandler) History(c *gin.Context) {
	filter := persistence.HistoryFilter{
		AdminNameContains: c.Query("admin"),
		UserSearch:        c.Query("user"),
	}

	var err error
	if filter.Page, err = pageQuery(c); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if filter.From, err = timeQuery(c, "from"); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if filter.To, err = timeQuery(c, "to"); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, err := entity.ParseTopUpStatus(raw)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		filter.Status = &status
	}

	views, err := h.workflow.History(c.Request.Context(), filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := make([]dto.TopUpHistoryItem, 0, len(views))
	for i := range views {
		resp = append(resp, dto.NewTopUpHistoryItem(&views[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Approve handles PUT /admin/topups/:requestId/approve
func (h *TopUpHandler) Approve(c *gin.Context) {
	admin, _ := middleware.IdentityFrom(c)

	requestID, err := uuidParam(c, "requestId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	review, err := bindReview(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	approval, err := h.workflow.Approve(c.Request.Context(), requestID, admin.UserID, review.Notes)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Request:     dto.NewTopUpResponse(approval.Request),
		LedgerEntry: dto.NewLedgerEntryResponse(approval.Entry),
		NewBalance:  entity.FormatAmount(approval.NewBalance),
	})
}

// Reject handles PUT /admin/topups/:requestId/reject
func (h *TopUpHandler) Reject(c *gin.Context) {
	admin, _ := middleware.IdentityFrom(c)

	requestID, err := uuidParam(c, "requestId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	review, err := bindReview(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	request, err := h.workflow.Reject(c.Request.Context(), requestID, admin.UserID, review.Notes)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTopUpResponse(request))
}

// bindReview reads the optional review body
func bindReview(c *gin.Context) (dto.ReviewRequest, error) {
	var req dto.ReviewRequest
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errs.Validation("invalid request format: %s", err.Error())
	}
	return req, nil
}

func topUpResponses(requests []entity.TopUpRequest) []dto.TopUpResponse {
	resp := make([]dto.TopUpResponse, 0, len(requests))
	for i := range requests {
		resp = append(resp, dto.NewTopUpResponse(&requests[i]))
	}
	return resp
}
