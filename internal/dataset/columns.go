package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"
)

// Column names of the cleaned Olist order-line table.
const (
	ColOrderID           = "order_id"
	ColOrderItemID       = "order_item_id"
	ColProductID         = "product_id"
	ColCategory          = "product_category_name"
	ColCustomerID        = "customer_unique_id"
	ColCustomerState     = "customer_state"
	ColPrice             = "price"
	ColFreightValue      = "freight_value"
	ColPaymentValue      = "payment_value"
	ColReviewScore       = "review_score"
	ColOrderStatus       = "order_status"
	ColPurchaseTimestamp = "order_purchase_timestamp"
)

// Derived calendar columns appended at load time.
const (
	ColYear          = "year"
	ColMonth         = "month"
	ColQuarter       = "quarter"
	ColPurchaseMonth = "purchase_month"
)

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

func hasColumn(df dataframe.DataFrame, col string) bool {
	return containsString(df.Names(), col)
}

func GetStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	if df == nil {
		return ""
	}
	if containsString(df.Names(), col) {
		return df.Col(col).Elem(rowIdx).String()
	}
	return ""
}

func GetInt(col string, rowIdx int, df *dataframe.DataFrame) int {
	if df == nil {
		return 0
	}
	if idx := df.Names(); containsString(idx, col) {
		val, err := df.Col(col).Elem(rowIdx).Int()
		if err != nil {
			return 0
		}
		return val
	}
	return 0
}

// GetFloat returns NaN when the column is absent or the value is not numeric,
// so callers can tell a missing value apart from zero.
func GetFloat(col string, rowIdx int, df *dataframe.DataFrame) float64 {
	if df == nil {
		return math.NaN()
	}
	if idx := df.Names(); containsString(idx, col) {
		return df.Col(col).Elem(rowIdx).Float()
	}
	return math.NaN()
}
