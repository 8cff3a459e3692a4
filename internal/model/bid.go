package model

// Column names of the historical financial dataset. Header matching trims
// surrounding whitespace before comparing.
const (
	ColumnSerialNo    = "serial_no"
	ColumnBidNo       = "bid_no"
	ColumnSNo         = "S.No."
	ColumnSellerName  = "Seller Name"
	ColumnOfferedItem = "Offered Item"
	ColumnTotalPrice  = "Total Price"
	ColumnRank        = "Rank"
	ColumnStatus      = "Status"
	ColumnWinner      = "Winner"
	ColumnQuantity    = "quantity"
)

// FinancialColumns lists the financial dataset columns in export order.
var FinancialColumns = []string{
	ColumnSerialNo,
	ColumnBidNo,
	ColumnSNo,
	ColumnSellerName,
	ColumnOfferedItem,
	ColumnTotalPrice,
	ColumnRank,
	ColumnStatus,
	ColumnWinner,
}

// RequiredFinancialColumns must be present for the pipeline to run.
var RequiredFinancialColumns = []string{
	ColumnBidNo,
	ColumnSellerName,
	ColumnOfferedItem,
	ColumnTotalPrice,
	ColumnRank,
}

// RequiredBasicColumns must be present in the basic (quantity) dataset.
var RequiredBasicColumns = []string{
	ColumnBidNo,
	ColumnQuantity,
}

// BidRecord is one historical single-bid tender line item. Prices are kept
// as the raw currency strings from the source; cleaning happens per stage.
type BidRecord struct {
	Row         int    `json:"row" db:"row_id" bson:"row"`
	SerialNo    string `json:"serial_no,omitempty" db:"serial_no" bson:"serial_no,omitempty"`
	BidNo       string `json:"bid_no" db:"bid_no" bson:"bid_no"`
	SNo         string `json:"s_no,omitempty" db:"s_no" bson:"s_no,omitempty"`
	SellerName  string `json:"seller_name" db:"seller_name" bson:"seller_name"`
	OfferedItem string `json:"offered_item" db:"offered_item" bson:"offered_item"`
	TotalPrice  string `json:"total_price" db:"total_price" bson:"total_price"`
	Rank        string `json:"rank" db:"rank" bson:"rank"`
	Status      string `json:"status,omitempty" db:"status" bson:"status,omitempty"`
	Winner      string `json:"winner,omitempty" db:"winner" bson:"winner,omitempty"`
}

// Values returns the record in FinancialColumns order.
func (b BidRecord) Values() []string {
	return []string{
		b.SerialNo,
		b.BidNo,
		b.SNo,
		b.SellerName,
		b.OfferedItem,
		b.TotalPrice,
		b.Rank,
		b.Status,
		b.Winner,
	}
}

// BasicRecord carries the tender quantity for a bid id. Quantity is the raw
// source text, e.g. "25 Nos".
type BasicRecord struct {
	Row      int    `json:"row" db:"row_id" bson:"row"`
	BidNo    string `json:"bid_no" db:"bid_no" bson:"bid_no"`
	Quantity string `json:"quantity" db:"quantity" bson:"quantity"`
}

// ProductQuery is a pricing request. Quantity is contextual only and never
// rescales total-contract prices.
type ProductQuery struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}
