package api

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by the storefront backend.
//
//	{
//	  "name": "Tan Leatherette Weekender Duffle",
//	  "category": "Fashion",
//	  "cost": 150,
//	  "rating": 4,
//	  "image": "https://.../ff071a1c.png",
//	  "_id": "PmInA797xJhMIPti"
//	}
type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Rating   float64         `json:"rating"`
	Image    string          `json:"image"`
}

// CartLine is the raw (productId, qty) pair held by the remote cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Address is an opaque-id shipping address owned by the remote service.
type Address struct {
	ID   string `json:"_id"`
	Text string `json:"address"`
}

// LoginResult is the payload of a successful POST /auth/login.
type LoginResult struct {
	Token    string          `json:"token"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}
