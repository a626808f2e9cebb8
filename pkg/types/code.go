package types

import "time"

// Code kinds. Free-form values are accepted by the schema; these are the
// ones the scanners produce.
const (
	CodeTypeBarcode = "barcode"
	CodeTypeQR      = "qr"
	CodeTypeNFC     = "nfc"
)

// Code is a scannable identifier bound to one entity. The (value, type) pair
// is unique, enabling exact lookup of the owning entity.
type Code struct {
	ID        int64     `json:"id"`
	EntityID  int64     `json:"entityId"`
	CodeType  string    `json:"codeType"`
	CodeValue string    `json:"codeValue"`
	CreatedAt time.Time `json:"createdAt"`
}
