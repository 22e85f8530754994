package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"defter-backend/internal/database"
	"defter-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u geri al. Sadece sildiği/oluşturduğu tek kayıt
// olan entity'ler için (gider, ödeme, stok kaydı vb.); fatura gibi sayaç
// tüketen kayıtlar geri alınamaz, numara boşluğu oluşurdu.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur
		if err := recreateEntity(log.EntityType, log.AfterData, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "expense":
		return database.DB.Delete(&models.Expense{}, "id = ?", entityID).Error
	case "payment":
		return database.DB.Delete(&models.Payment{}, "id = ?", entityID).Error
	case "transfer":
		return database.DB.Delete(&models.Transfer{}, "id = ?", entityID).Error
	case "stock_entry":
		return database.DB.Delete(&models.StockEntry{}, "id = ?", entityID).Error
	case "account_purchase":
		return database.DB.Delete(&models.AccountPurchase{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur. Silme loglarında önceki
// hal BeforeData'da durur; AfterData null'dur.
func recreateEntity(entityType string, afterJSON string, beforeJSON string) error {
	dataJSON := beforeJSON
	if dataJSON == "" || dataJSON == "null" {
		dataJSON = afterJSON
	}

	switch entityType {
	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		expense.ID = 0 // yeni kayıt olarak oluştur
		return database.DB.Create(&expense).Error

	case "payment":
		var payment models.Payment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		payment.ID = 0
		return database.DB.Create(&payment).Error

	case "transfer":
		var transfer models.Transfer
		if err := json.Unmarshal([]byte(dataJSON), &transfer); err != nil {
			return err
		}
		transfer.ID = 0
		return database.DB.Create(&transfer).Error

	case "stock_entry":
		var entry models.StockEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		entry.ID = 0
		return database.DB.Create(&entry).Error

	case "account_purchase":
		var p models.AccountPurchase
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		p.ID = 0
		return database.DB.Create(&p).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		return database.DB.Model(&models.Expense{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"account_id": expense.AccountID,
			"amount":     expense.Amount,
			"purpose":    expense.Purpose,
			"date":       expense.Date,
		}).Error

	case "payment":
		var payment models.Payment
		if err := json.Unmarshal([]byte(dataJSON), &payment); err != nil {
			return err
		}
		return database.DB.Model(&models.Payment{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"from_kind": payment.FromKind,
			"from_id":   payment.FromID,
			"from_name": payment.FromName,
			"to_kind":   payment.ToKind,
			"to_id":     payment.ToID,
			"to_name":   payment.ToName,
			"amount":    payment.Amount,
			"date":      payment.Date,
			"note":      payment.Note,
		}).Error

	case "stock_entry":
		var entry models.StockEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		return database.DB.Model(&models.StockEntry{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"product_id":      entry.ProductID,
			"warehouse_id":    entry.WarehouseID,
			"boxes":           entry.Boxes,
			"pieces_per_box":  entry.PiecesPerBox,
			"price_per_piece": entry.PricePerPiece,
			"date":            entry.Date,
		}).Error

	case "account_purchase":
		var p models.AccountPurchase
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return database.DB.Model(&models.AccountPurchase{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"account_id": p.AccountID,
			"amount":     p.Amount,
			"date":       p.Date,
			"bucket_key": p.BucketKey,
			"notes":      p.Notes,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
