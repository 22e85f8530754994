package ledger

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LedgerEntryResponse struct {
	Date           string  `json:"date"`
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Note           string  `json:"note"`
	Counterparty   string  `json:"counterparty,omitempty"`
	RunningBalance float64 `json:"running_balance"`
}

type LedgerResponse struct {
	EntityKind     string                `json:"entity_kind"` // party / account
	EntityID       uint                  `json:"entity_id"`
	EntityName     string                `json:"entity_name"`
	OpeningBalance float64               `json:"opening_balance"`
	Entries        []LedgerEntryResponse `json:"entries"`
	Balance        float64               `json:"balance"`
}

func toResponse(kind string, id uint, name string, lg Ledger) LedgerResponse {
	entries := make([]LedgerEntryResponse, 0, len(lg.Entries))
	for _, e := range lg.Entries {
		entries = append(entries, LedgerEntryResponse{
			Date:           e.Date.Format("2006-01-02"),
			Type:           string(e.Type),
			Amount:         e.Amount,
			Note:           e.Note,
			Counterparty:   e.Counterparty,
			RunningBalance: e.RunningBalance,
		})
	}
	return LedgerResponse{
		EntityKind:     kind,
		EntityID:       id,
		EntityName:     name,
		OpeningBalance: lg.OpeningBalance,
		Entries:        entries,
		Balance:        lg.Balance,
	}
}

// GET /api/parties/:id/ledger
func PartyLedgerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		party, lg, err := BuildPartyLedger(uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Cari bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ekstre oluşturulamadı")
		}

		return c.JSON(toResponse("party", party.ID, party.Name, lg))
	}
}

// GET /api/accounts/:id/ledger
func AccountLedgerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		account, lg, err := BuildAccountLedger(uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ekstre oluşturulamadı")
		}

		return c.JSON(toResponse("account", account.ID, account.Name, lg))
	}
}
