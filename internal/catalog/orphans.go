package catalog

import (
	"context"

	"github.com/iudanet/shopfront/internal/models"
)

// OrphanReport lists records whose parent no longer exists.
// Deleting a parent never cascades, so these accumulate until fixed by hand.
type OrphanReport struct {
	Partners    []models.Partner    `json:"partners"`
	Collections []models.Collection `json:"collections"`
	Products    []models.Product    `json:"products"`
}

// Empty reports whether nothing dangles
func (r OrphanReport) Empty() bool {
	return len(r.Partners) == 0 && len(r.Collections) == 0 && len(r.Products) == 0
}

// Orphans finds records with dangling brand, partner or collection references
func (s *Service) Orphans(ctx context.Context) OrphanReport {
	brands := s.brands.List(ctx)
	partners := s.partners.List(ctx)
	collections := s.collections.List(ctx)

	report := OrphanReport{
		Partners:    []models.Partner{},
		Collections: []models.Collection{},
		Products:    []models.Product{},
	}

	for _, p := range partners {
		if (Selection{BrandID: p.BrandID}).Validate(brands, nil, nil) != nil {
			report.Partners = append(report.Partners, p)
		}
	}

	for _, c := range collections {
		sel := Selection{BrandID: c.BrandID, PartnerID: c.PartnerID}
		if sel.Validate(brands, partners, nil) != nil {
			report.Collections = append(report.Collections, c)
		}
	}

	for _, p := range s.products.List(ctx) {
		if !p.IsLocalProduct {
			continue
		}
		sel := Selection{BrandID: p.BrandID, PartnerID: p.PartnerID, CollectionID: p.CollectionID}
		if p.BrandID == "" || sel.Validate(brands, partners, collections) != nil {
			report.Products = append(report.Products, p)
		}
	}

	return report
}
