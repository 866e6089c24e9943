package orderbookv1

// BookSet holds one book per product, preserving the catalog order of the
// product list. Amend and cancel look-ups scan products in catalog order and
// the first match wins.
type BookSet struct {
	products []string
	byName   map[string]*Book
}

// NewBookSet creates a book for every product in the given catalog order.
func NewBookSet(products []string) *BookSet {
	set := &BookSet{
		products: append([]string(nil), products...),
		byName:   make(map[string]*Book, len(products)),
	}
	for _, name := range products {
		set.byName[name] = NewBook(name)
	}
	return set
}

// Get returns the book for the product, or nil when the product is unknown.
func (s *BookSet) Get(product string) *Book {
	return s.byName[product]
}

// Has reports whether the product exists in the catalog.
func (s *BookSet) Has(product string) bool {
	_, ok := s.byName[product]
	return ok
}

// Products returns the catalog in its configured order.
func (s *BookSet) Products() []string {
	return s.products
}

// Find scans every product's book in catalog order for a live order with the
// given identity, buys before sells within each book.
func (s *BookSet) Find(participant, orderID int) *Order {
	for _, name := range s.products {
		if o := s.byName[name].Find(participant, orderID); o != nil {
			return o
		}
	}
	return nil
}
