package model

import "time"

// ProductType is one of the fixed catalog categories.
type ProductType string

const (
	ProductFlatBottomSachet    ProductType = "Sachets fond plat"
	ProductSquareBottomPlain   ProductType = "Sac fond carré sans poignées"
	ProductSquareBottomFlat    ProductType = "Sac fond carré avec poignées plates"
	ProductSquareBottomTwisted ProductType = "Sac fond carré avec poignées torsadées"
)

// ProductTypes lists the catalog in display order.
var ProductTypes = []ProductType{
	ProductFlatBottomSachet,
	ProductSquareBottomPlain,
	ProductSquareBottomFlat,
	ProductSquareBottomTwisted,
}

// Valid reports whether t is part of the catalog.
func (t ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry referenced by orders.
type Product struct {
	ID          int64
	Type        ProductType
	Code        string
	Description string
	CreatedAt   time.Time
}
