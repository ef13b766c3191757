package credits

import "codeberg.org/aiam/server/internal/credits"

type PacksResponse struct {
	Packs []credits.Pack `json:"packs"`
}

// PurchaseRequest is accepted for API shape only; purchases are not processed
type PurchaseRequest struct {
	PackID string `json:"packId" binding:"required"`
}
