package models

// ProductType identifies which catalog a product comes from
type ProductType string

const (
	ProductTypePhone     ProductType = "phone"
	ProductTypeAccessory ProductType = "accessory"
)

// Valid reports whether t is one of the known product types
func (t ProductType) Valid() bool {
	return t == ProductTypePhone || t == ProductTypeAccessory
}

// ProductImage represents an image attached to a product
type ProductImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// CartItem represents a line item in a cart.
// Name, brand, price and images are copied from the catalog when the item is
// first added and never refreshed afterwards.
type CartItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Brand    string         `json:"brand"`
	Price    float64        `json:"price"`
	Images   []ProductImage `json:"images"`
	Quantity int            `json:"quantity"`
	InStock  *bool          `json:"inStock,omitempty"`
	Category string         `json:"category,omitempty"`
	Type     ProductType    `json:"type,omitempty"`
}

// LineTotal returns price * quantity for the line
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// PrimaryImage returns the image to show for the line
func (i CartItem) PrimaryImage() (ProductImage, bool) {
	return primaryImage(i.Images)
}

func primaryImage(images []ProductImage) (ProductImage, bool) {
	for _, img := range images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(images) > 0 {
		return images[0], true
	}
	return ProductImage{}, false
}

// CartSnapshot is the persisted form of a cart.
// Example: {"items":[{"id":"p1","name":"Pixel 8","brand":"Google","price":699,"images":[],"quantity":2}]}
type CartSnapshot struct {
	Items []CartItem `json:"items"`
}

// AddCartItemRequest represents the request body for adding a catalog product to the cart
// Example: {"productId": "6f1c...", "type": "phone"}
type AddCartItemRequest struct {
	ProductID string      `json:"productId"`
	Type      ProductType `json:"type"`
}

// UpdateCartItemRequest represents the request body for changing a line quantity
// Example: {"quantity": 3}
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CartResponse represents a cart with its derived totals
// Example response:
// {
//   "items": [{"id": "a", "name": "Galaxy S24", "brand": "Samsung", "price": 100, "images": [], "quantity": 2}],
//   "total": 200,
//   "itemCount": 2,
//   "formattedTotal": "$200.00"
// }
type CartResponse struct {
	Items          []CartItem `json:"items"`
	Total          float64    `json:"total"`
	ItemCount      int        `json:"itemCount"`
	FormattedTotal string     `json:"formattedTotal"`
}

// ErrorResponse is the body of every failed request
// Example: {"success": false, "message": "Product not found"}
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutResponse represents the placeholder checkout acknowledgement
type CheckoutResponse struct {
	Message        string  `json:"message"`
	Total          float64 `json:"total"`
	ItemCount      int     `json:"itemCount"`
	FormattedTotal string  `json:"formattedTotal"`
}
