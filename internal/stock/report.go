package stock

import (
	"sort"
	"strconv"
	"strings"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryBoxes struct {
	Category string
	Boxes    float64
}

// BuildCategoryCSV: Kategori/koli raporunu CSV metni olarak üretir.
// Başlık satırı + her kategori için bir satır; satır sonunda newline YOK.
// Rapor tüketen eski araçlar format değişikliğine dayanıklı değil,
// çıktıyı byte byte korumak gerekiyor. encoding/csv satır sonlarına
// newline eklediği için burada elle kuruluyor.
func BuildCategoryCSV(rows []CategoryBoxes) string {
	sorted := make([]CategoryBoxes, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Category < sorted[j].Category })

	var b strings.Builder
	b.WriteString("Category,Boxes")
	for _, r := range sorted {
		b.WriteString("\n")
		b.WriteString(r.Category)
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(r.Boxes, 'f', -1, 64))
	}
	return b.String()
}

// GET /api/stock/report/categories
// Kategori bazında toplam koli raporu, CSV olarak.
func CategoryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []CategoryBoxes
		err := database.DB.Model(&models.StockEntry{}).
			Select("COALESCE(categories.name, 'Diğer') AS category, SUM(stock_entries.boxes) AS boxes").
			Joins("JOIN products ON products.id = stock_entries.product_id").
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("stock_entries.boxes > 0").
			Group("COALESCE(categories.name, 'Diğer')").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok raporu oluşturulamadı")
		}

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="stok_kategori_raporu.csv"`)
		return c.SendString(BuildCategoryCSV(rows))
	}
}
