package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// AccountHandler handles wallet and ledger requests
type AccountHandler struct {
	accounts *account.UseCase
	logger   coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts *account.UseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// Wallet handles GET /me/wallet
func (h *AccountHandler) Wallet(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	summary, err := h.accounts.Wallet(c.Request.Context(), identity.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(summary))
}

// Ledger handles GET /me/ledger?from&to&type&limit&offset
func (h *AccountHandler) Ledger(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	filter, err := ledgerFilter(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	entries, err := h.accounts.Ledger(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, dto.NewLedgerEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust handles POST /admin/users/:userId/adjustments
func (h *AccountHandler) Adjust(c *gin.Context) {
	admin, _ := middleware.IdentityFrom(c)

	userID, err := uuidParam(c, "userId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	var req dto.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errs.Validation("invalid request format: %s", err.Error()))
		return
	}

	movement, err := h.accounts.Adjust(c.Request.Context(), userID, admin.UserID, req.Amount, req.Note)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AdjustmentResponse{
		LedgerEntry: dto.NewLedgerEntryResponse(movement.Entry),
		NewBalance:  entity.FormatAmount(movement.User.WalletBalance()),
	})
}

// VerifyLedger handles GET /admin/users/:userId/ledger/verify
func (h *AccountHandler) VerifyLedger(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	report, err := h.accounts.VerifyLedger(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if !report.Consistent() {
		h.logger.Error("Ledger audit found violations", map[string]any{
			"user_id":    userID.String(),
			"violations": len(report.Violations),
		})
	}
	c.JSON(http.StatusOK, dto.NewLedgerReportResponse(report))
}

func ledgerFilter(c *gin.Context) (persistence.LedgerFilter, error) {
	var filter persistence.LedgerFilter
	var err error

	if filter.Page, err = pageQuery(c); err != nil {
		return filter, err
	}
	if filter.From, err = timeQuery(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = timeQuery(c, "to"); err != nil {
		return filter, err
	}
	if raw := c.Query("type"); raw != "" {
		entryType := entity.EntryType(raw)
		if !entryType.Valid() {
			return filter, errs.Validation("unknown entry type %q", raw)
		}
		filter.Type = &entryType
	}
	return filter, nil
}
