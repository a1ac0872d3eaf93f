package model

// RideType is one of the static ride tiers on the booking screen.
type RideType struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// BookRideRequest confirms a ride selection.
type BookRideRequest struct {
	PickupLocation string `json:"pickup_location" validate:"required"`
	Destination    string `json:"destination" validate:"required"`
	RideType       string `json:"ride_type,omitempty"`
}

// Restaurant is one of the static food-ordering options.
type Restaurant struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `json:"delivery_time"`
}

// OrderFoodRequest confirms a restaurant selection.
type OrderFoodRequest struct {
	RestaurantID int `json:"restaurant_id" validate:"required"`
}

// GroceryStore is one of the static grocery-ordering options.
type GroceryStore struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `json:"delivery_time"`
}

// GroceryItem is a popular item that can be added to the cart.
type GroceryItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// GroceryCatalog bundles stores with popular items for the screen.
type GroceryCatalog struct {
	Stores       []GroceryStore `json:"stores"`
	PopularItems []GroceryItem  `json:"popular_items"`
}

// OrderGroceriesRequest confirms a store selection plus an optional cart.
type OrderGroceriesRequest struct {
	StoreID int   `json:"store_id" validate:"required"`
	ItemIDs []int `json:"item_ids,omitempty"`
}

// Bill is one of the static outstanding bills.
type Bill struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Amount   string `json:"amount"`
	DueDate  string `json:"due_date"`
}

// PaymentMethod is one of the static payment options.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BillCatalog bundles bills with payment methods for the screen.
type BillCatalog struct {
	Bills          []Bill          `json:"bills"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

// PayBillRequest confirms a bill payment.
type PayBillRequest struct {
	BillID        int     `json:"bill_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// Confirmation is the synthesized outcome for every errand. Nothing is
// persisted; the message is what the caller shows the user.
type Confirmation struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
