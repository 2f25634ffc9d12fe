package product

// Repository defines the contract for reading the product catalog
type Repository interface {
	List() ([]Product, error)
	GetByID(id string) (*Product, error)
}
