package catalog

import (
	"errors"
	"slices"

	"github.com/iudanet/shopfront/internal/models"
)

// ErrInvalidSelection is returned when brand, partner and collection do not belong together
var ErrInvalidSelection = errors.New("invalid brand/partner/collection combination")

// PartnersForBrand returns partners of the brand, in list order
func PartnersForBrand(partners []models.Partner, brandID string) []models.Partner {
	result := []models.Partner{}
	for _, p := range partners {
		if p.BrandID == brandID {
			result = append(result, p)
		}
	}
	return result
}

// CollectionsForBrandPartner returns collections of the brand/partner pair, in list order
func CollectionsForBrandPartner(collections []models.Collection, brandID, partnerID string) []models.Collection {
	result := []models.Collection{}
	for _, c := range collections {
		if c.BrandID == brandID && c.PartnerID == partnerID {
			result = append(result, c)
		}
	}
	return result
}

// Selection is the state of the dependent brand → partner → collection fields of a form.
// Changing a parent always clears its children.
type Selection struct {
	BrandID      string `json:"brandId"`
	PartnerID    string `json:"partnerId"`
	CollectionID string `json:"collectionId"`
}

// SetBrand selects a brand and clears partner and collection
func (s *Selection) SetBrand(brandID string) {
	s.BrandID = brandID
	s.PartnerID = ""
	s.CollectionID = ""
}

// SetPartner selects a partner and clears collection
func (s *Selection) SetPartner(partnerID string) {
	s.PartnerID = partnerID
	s.CollectionID = ""
}

// SetCollection selects a collection
func (s *Selection) SetCollection(collectionID string) {
	s.CollectionID = collectionID
}

// PartnerOptions returns the partners selectable for the current brand.
// Empty until a brand is chosen.
func (s Selection) PartnerOptions(partners []models.Partner) []models.Partner {
	if s.BrandID == "" {
		return []models.Partner{}
	}
	return PartnersForBrand(partners, s.BrandID)
}

// CollectionOptions returns the collections selectable for the current brand and partner.
// Empty until both are chosen.
func (s Selection) CollectionOptions(collections []models.Collection) []models.Collection {
	if s.BrandID == "" || s.PartnerID == "" {
		return []models.Collection{}
	}
	return CollectionsForBrandPartner(collections, s.BrandID, s.PartnerID)
}

// Validate checks that every chosen value exists and belongs to its parent.
// Empty children are allowed.
func (s Selection) Validate(brands []models.Brand, partners []models.Partner, collections []models.Collection) error {
	if s.BrandID == "" {
		if s.PartnerID != "" || s.CollectionID != "" {
			return ErrInvalidSelection
		}
		return nil
	}

	if !slices.ContainsFunc(brands, func(b models.Brand) bool { return b.ID == s.BrandID }) {
		return ErrInvalidSelection
	}

	if s.PartnerID == "" {
		if s.CollectionID != "" {
			return ErrInvalidSelection
		}
		return nil
	}

	if !slices.ContainsFunc(s.PartnerOptions(partners), func(p models.Partner) bool { return p.ID == s.PartnerID }) {
		return ErrInvalidSelection
	}

	if s.CollectionID == "" {
		return nil
	}

	if !slices.ContainsFunc(s.CollectionOptions(collections), func(c models.Collection) bool { return c.ID == s.CollectionID }) {
		return ErrInvalidSelection
	}

	return nil
}
