package dashboard

import (
	"fmt"
	"sort"
	"time"

	"defter-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type BalanceChartPoint struct {
	Label string  `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	In    float64 `json:"in"`
	Out   float64 `json:"out"`
	Net   float64 `json:"net"`
}

type BalanceChartGrandTotals struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
	Net float64 `json:"net"`
}

type BalanceChartResponse struct {
	AccountID   uint                    `json:"account_id"`
	Period      string                  `json:"period"` // daily | weekly | monthly
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Points      []BalanceChartPoint     `json:"points"`
	GrandTotals BalanceChartGrandTotals `json:"grand_totals"`
}

type flowRow struct {
	Bucket time.Time `gorm:"column:bucket"`
	Flow   string    `gorm:"column:flow"`
	Total  float64   `gorm:"column:total"`
}

type bucketAgg struct {
	Bucket time.Time
	In     float64
	Out    float64
}

// aggregateBuckets: in/out satırlarını bucket başına tek kayıtta toplar ve
// tarihe göre artan sıralar.
func aggregateBuckets(rows []flowRow) []bucketAgg {
	buckets := make(map[time.Time]*bucketAgg)
	for _, r := range rows {
		agg, ok := buckets[r.Bucket]
		if !ok {
			agg = &bucketAgg{Bucket: r.Bucket}
			buckets[r.Bucket] = agg
		}
		switch r.Flow {
		case "in":
			agg.In += r.Total
		case "out":
			agg.Out += r.Total
		}
	}

	ordered := make([]bucketAgg, 0, len(buckets))
	for _, v := range buckets {
		ordered = append(ordered, *v)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Bucket.Before(ordered[j].Bucket)
	})
	return ordered
}

// GET /api/dashboard/balance-chart?account_id=1&period=daily&count=7
// Hesabın giriş/çıkış hareketlerini tarih bucket'larına toplar.
// Kaynaklar: ödemeler (iki yön), virmanlar (iki yön), giderler ve hesap
// alışları (sadece çıkış).
func BalanceChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		aidStr := c.Query("account_id")
		if aidStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "account_id zorunlu")
		}
		var accountID uint
		if _, err := fmt.Sscan(aidStr, &accountID); err != nil || accountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "account_id geçersiz")
		}

		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
			}
		}

		now := time.Now()
		loc := now.Location()
		// bugünün 00:00'ı
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		var bucketExpr string
		switch period {
		case "weekly":
			bucketExpr = "date_trunc('week', date)::date"
			start = end.AddDate(0, 0, -7*(count-1))
		case "monthly":
			bucketExpr = "date_trunc('month', date)::date"
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		default:
			period = "daily"
			bucketExpr = "date::date"
			start = end.AddDate(0, 0, -(count - 1))
		}

		var rows []flowRow

		sql := fmt.Sprintf(`
			SELECT %[1]s AS bucket, flow, SUM(amount) AS total FROM (
				SELECT date, amount, 'in' AS flow FROM payments
				WHERE to_kind = 'account' AND to_id = @aid AND date >= @from AND date <= @to
				UNION ALL
				SELECT date, amount, 'out' AS flow FROM payments
				WHERE from_kind = 'account' AND from_id = @aid AND date >= @from AND date <= @to
				UNION ALL
				SELECT date, amount, 'in' AS flow FROM transfers
				WHERE to_account_id = @aid AND date >= @from AND date <= @to
				UNION ALL
				SELECT date, amount, 'out' AS flow FROM transfers
				WHERE from_account_id = @aid AND date >= @from AND date <= @to
				UNION ALL
				SELECT date, amount, 'out' AS flow FROM expenses
				WHERE account_id = @aid AND date >= @from AND date <= @to
				UNION ALL
				SELECT date, amount, 'out' AS flow FROM account_purchases
				WHERE account_id = @aid AND date >= @from AND date <= @to
			) m
			GROUP BY bucket, flow
			ORDER BY bucket ASC;
		`, bucketExpr)

		if err := database.DB.Raw(sql,
			map[string]interface{}{"aid": accountID, "from": start, "to": end},
		).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		ordered := aggregateBuckets(rows)

		points := make([]BalanceChartPoint, 0, len(ordered))
		grand := BalanceChartGrandTotals{}

		for _, b := range ordered {
			points = append(points, BalanceChartPoint{
				Label: b.Bucket.Format("2006-01-02"),
				In:    b.In,
				Out:   b.Out,
				Net:   b.In - b.Out,
			})
			grand.In += b.In
			grand.Out += b.Out
		}
		grand.Net = grand.In - grand.Out

		return c.JSON(BalanceChartResponse{
			AccountID:   accountID,
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		})
	}
}
