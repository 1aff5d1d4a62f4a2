// Package catalog holds the fixed product range and SAGE X3 article codes.
package catalog

import (
	"strings"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/pkg/textnorm"
)

type entry struct {
	code        string
	description string
}

var entries = map[model.ProductType]entry{
	model.ProductFlatBottomSachet:    {"SFP", "Sachets à fond plat pour sandwichs, tacos, viennoiseries"},
	model.ProductSquareBottomPlain:   {"SFCSP", "Sacs fond carré sans poignées - emballage standard"},
	model.ProductSquareBottomFlat:    {"SFCPP", "Sacs fond carré avec poignées plates - shopping"},
	model.ProductSquareBottomTwisted: {"SFCPT", "Sacs fond carré avec poignées torsadées - premium"},
}

// Product returns the catalog row for t.
func Product(t model.ProductType) (model.Product, bool) {
	e, ok := entries[t]
	if !ok {
		return model.Product{}, false
	}
	return model.Product{Type: t, Code: e.code, Description: e.description}, true
}

// Match maps free text to a catalog type. The bool is false when nothing fits.
func Match(text string) (model.ProductType, bool) {
	folded := " " + textnorm.Fold(text) + " "
	if strings.TrimSpace(folded) == "" {
		return "", false
	}

	for _, t := range model.ProductTypes {
		if strings.Contains(folded, " "+textnorm.Fold(string(t))+" ") {
			return t, true
		}
	}

	handles := strings.Contains(folded, "poignee") || strings.Contains(folded, " anse")
	switch {
	case strings.Contains(folded, "sans poignee"):
		return model.ProductSquareBottomPlain, true
	case handles && strings.Contains(folded, "torsad"):
		return model.ProductSquareBottomTwisted, true
	case handles && strings.Contains(folded, " plat"):
		return model.ProductSquareBottomFlat, true
	case strings.Contains(folded, "sachet") || (strings.Contains(folded, "fond plat") && !handles):
		return model.ProductFlatBottomSachet, true
	case strings.Contains(folded, "fond carre"):
		return model.ProductSquareBottomPlain, true
	}
	return "", false
}
