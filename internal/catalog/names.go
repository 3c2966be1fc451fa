package catalog

import "github.com/iudanet/shopfront/internal/models"

// Names maps ids to display names. Unknown ids resolve to ""
type Names struct {
	brands      map[string]string
	partners    map[string]string
	collections map[string]string
}

// NewNames builds a lookup over the given lists
func NewNames(brands []models.Brand, partners []models.Partner, collections []models.Collection) Names {
	n := Names{
		brands:      make(map[string]string, len(brands)),
		partners:    make(map[string]string, len(partners)),
		collections: make(map[string]string, len(collections)),
	}
	for _, b := range brands {
		n.brands[b.ID] = b.Name
	}
	for _, p := range partners {
		n.partners[p.ID] = p.Name
	}
	for _, c := range collections {
		n.collections[c.ID] = c.Name
	}
	return n
}

func (n Names) Brand(id string) string      { return n.brands[id] }
func (n Names) Partner(id string) string    { return n.partners[id] }
func (n Names) Collection(id string) string { return n.collections[id] }
