package dataset

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// OrderLine is one row of the order-line table as exposed to the
// presentation boundary. Nullable monetary and review fields are pointers so
// absent values survive the JSON round trip.
type OrderLine struct {
	OrderID       string    `json:"order_id"`
	OrderItemID   int       `json:"order_item_id"`
	ProductID     string    `json:"product_id"`
	Category      string    `json:"product_category_name"`
	CustomerID    string    `json:"customer_unique_id"`
	CustomerState string    `json:"customer_state"`
	Price         float64   `json:"price"`
	FreightValue  float64   `json:"freight_value"`
	PaymentValue  *float64  `json:"payment_value"`
	ReviewScore   *float64  `json:"review_score"`
	OrderStatus   string    `json:"order_status"`
	PurchasedAt   time.Time `json:"order_purchase_timestamp"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Quarter       int       `json:"quarter"`
	PurchaseMonth string    `json:"purchase_month"`
}

func DfRowToOrderLine(df dataframe.DataFrame, rowIdx int) OrderLine {
	line := OrderLine{
		OrderID:       GetStr(ColOrderID, rowIdx, &df),
		OrderItemID:   GetInt(ColOrderItemID, rowIdx, &df),
		ProductID:     GetStr(ColProductID, rowIdx, &df),
		Category:      GetStr(ColCategory, rowIdx, &df),
		CustomerID:    GetStr(ColCustomerID, rowIdx, &df),
		CustomerState: GetStr(ColCustomerState, rowIdx, &df),
		Price:         GetFloat(ColPrice, rowIdx, &df),
		FreightValue:  GetFloat(ColFreightValue, rowIdx, &df),
		OrderStatus:   GetStr(ColOrderStatus, rowIdx, &df),
		Year:          GetInt(ColYear, rowIdx, &df),
		Month:         GetInt(ColMonth, rowIdx, &df),
		Quarter:       GetInt(ColQuarter, rowIdx, &df),
		PurchaseMonth: GetStr(ColPurchaseMonth, rowIdx, &df),
	}

	if math.IsNaN(line.Price) {
		line.Price = 0
	}
	if math.IsNaN(line.FreightValue) {
		line.FreightValue = 0
	}
	if v := GetFloat(ColPaymentValue, rowIdx, &df); !math.IsNaN(v) {
		line.PaymentValue = &v
	}
	if v := GetFloat(ColReviewScore, rowIdx, &df); !math.IsNaN(v) {
		line.ReviewScore = &v
	}
	if t, err := ParseTimestamp(GetStr(ColPurchaseTimestamp, rowIdx, &df)); err == nil {
		line.PurchasedAt = t
	}

	return line
}

// OrderLines converts up to limit rows of the table. A non-positive limit
// converts every row.
func OrderLines(df dataframe.DataFrame, limit int) []OrderLine {
	n := df.Nrow()
	if n == 0 {
		return nil
	}
	if limit > 0 && limit < n {
		n = limit
	}

	lines := make([]OrderLine, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, DfRowToOrderLine(df, i))
	}
	return lines
}
