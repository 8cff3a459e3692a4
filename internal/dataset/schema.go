package dataset

import "github.com/sells-group/l1-pricing/internal/model"

// Table names of database-backed datasets.
const (
	BidsTable       = "bids"
	QuantitiesTable = "tender_quantities"
)

var bidColumns = []string{
	"row_id", "serial_no", "bid_no", "s_no", "seller_name",
	"offered_item", "total_price", "rank", "status", "winner",
}

var basicColumns = []string{"row_id", "bid_no", "quantity"}

const selectBids = `SELECT row_id, serial_no, bid_no, s_no, seller_name, offered_item, total_price, rank, status, winner
FROM bids ORDER BY row_id`

const selectBasic = `SELECT row_id, bid_no, quantity FROM tender_quantities ORDER BY row_id`

// schema is valid for both SQLite and Postgres.
const schema = `
CREATE TABLE IF NOT EXISTS bids (
	row_id       INTEGER PRIMARY KEY,
	serial_no    TEXT NOT NULL DEFAULT '',
	bid_no       TEXT NOT NULL,
	s_no         TEXT NOT NULL DEFAULT '',
	seller_name  TEXT NOT NULL,
	offered_item TEXT NOT NULL,
	total_price  TEXT NOT NULL,
	rank         TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT '',
	winner       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tender_quantities (
	row_id   INTEGER PRIMARY KEY,
	bid_no   TEXT NOT NULL,
	quantity TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_bids_seller_name ON bids(seller_name);
CREATE INDEX IF NOT EXISTS idx_tender_quantities_bid_no ON tender_quantities(bid_no);
`

func bidRow(b model.BidRecord) []any {
	return []any{
		b.Row, b.SerialNo, b.BidNo, b.SNo, b.SellerName,
		b.OfferedItem, b.TotalPrice, b.Rank, b.Status, b.Winner,
	}
}

func basicRow(b model.BasicRecord) []any {
	return []any{b.Row, b.BidNo, b.Quantity}
}
