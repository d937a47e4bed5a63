/*
catalog.go - Static service-price catalog

PURPOSE:
  Maps a short selection key to a (service name, price) pair. The catalog
  is caller-supplied configuration: the engine receives service name and
  price as plain booking arguments and never consults the catalog itself.

SEE ALSO:
  - cmd/salon: Presents the catalog during booking
  - api/handlers.go: Resolves service keys for API bookings
*/
package booking

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SERVICE CATALOG
// =============================================================================

type Service struct {
	Name  string
	Price decimal.Decimal
}

type Catalog map[string]Service

// DefaultCatalog returns the standard service menu.
func DefaultCatalog() Catalog {
	return Catalog{
		"1": {Name: "Manicure", Price: decimal.NewFromInt(45)},
		"2": {Name: "Pedicure", Price: decimal.NewFromInt(45)},
		"3": {Name: "Gel Manicure", Price: decimal.NewFromInt(55)},
		"4": {Name: "Gel Pedicure", Price: decimal.NewFromInt(55)},
	}
}

// Keys returns the selection keys in ascending order, for stable menus.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
