package errand

import (
	"context"
	"fmt"
	"strings"

	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	"github.com/kakilabs/kaki-backend/utils/errors"
)

// ErrandApp serves the task-shortcut catalogs and confirms selections.
// The catalogs are static and nothing is persisted; a confirmation is
// the synthesized message the client shows the user.
type ErrandApp interface {
	ListRideTypes(ctx context.Context) []model.RideType
	BookRide(ctx context.Context, req *model.BookRideRequest) (*model.Confirmation, error)
	ListRestaurants(ctx context.Context) []model.Restaurant
	OrderFood(ctx context.Context, req *model.OrderFoodRequest) (*model.Confirmation, error)
	GroceryCatalog(ctx context.Context) *model.GroceryCatalog
	OrderGroceries(ctx context.Context, req *model.OrderGroceriesRequest) (*model.Confirmation, error)
	BillCatalog(ctx context.Context) *model.BillCatalog
	PayBill(ctx context.Context, req *model.PayBillRequest) (*model.Confirmation, error)
}

type ErrandAppImpl struct{}

func NewErrandApp() ErrandApp {
	return &ErrandAppImpl{}
}

var rideTypes = []model.RideType{
	{ID: "standard", Name: "Standard", Price: "$5-10"},
	{ID: "premium", Name: "Premium", Price: "$10-15"},
	{ID: "xl", Name: "XL", Price: "$15-25"},
}

var restaurants = []model.Restaurant{
	{ID: 1, Name: "McDonald's", Cuisine: "Fast Food", Rating: 4.5, DeliveryTime: "20-30 min"},
	{ID: 2, Name: "Pizza Hut", Cuisine: "Italian", Rating: 4.3, DeliveryTime: "25-35 min"},
	{ID: 3, Name: "KFC", Cuisine: "Chicken", Rating: 4.2, DeliveryTime: "15-25 min"},
	{ID: 4, Name: "Subway", Cuisine: "Sandwiches", Rating: 4.4, DeliveryTime: "10-20 min"},
}

var groceryStores = []model.GroceryStore{
	{ID: 1, Name: "NTUC FairPrice", Category: "Supermarket", Rating: 4.5, DeliveryTime: "30-45 min"},
	{ID: 2, Name: "Cold Storage", Category: "Premium", Rating: 4.3, DeliveryTime: "25-40 min"},
	{ID: 3, Name: "Giant", Category: "Hypermarket", Rating: 4.2, DeliveryTime: "35-50 min"},
	{ID: 4, Name: "Sheng Siong", Category: "Local", Rating: 4.4, DeliveryTime: "20-35 min"},
}

var groceryItems = []model.GroceryItem{
	{ID: 1, Name: "Fresh Vegetables", Price: "$5-15"},
	{ID: 2, Name: "Dairy Products", Price: "$3-12"},
	{ID: 3, Name: "Meat & Seafood", Price: "$8-25"},
	{ID: 4, Name: "Bakery Items", Price: "$2-8"},
	{ID: 5, Name: "Pantry Staples", Price: "$3-10"},
	{ID: 6, Name: "Frozen Foods", Price: "$4-15"},
}

var bills = []model.Bill{
	{ID: 1, Name: "Electricity Bill", Provider: "SP Group", Amount: "$85.50", DueDate: "Dec 15, 2024"},
	{ID: 2, Name: "Water Bill", Provider: "PUB", Amount: "$32.20", DueDate: "Dec 20, 2024"},
	{ID: 3, Name: "Internet Bill", Provider: "Singtel", Amount: "$45.00", DueDate: "Dec 25, 2024"},
	{ID: 4, Name: "Mobile Bill", Provider: "StarHub", Amount: "$28.90", DueDate: "Dec 30, 2024"},
}

var paymentMethods = []model.PaymentMethod{
	{ID: "card", Name: "Credit Card"},
	{ID: "paynow", Name: "PayNow"},
	{ID: "bank", Name: "Bank Transfer"},
}

func (s *ErrandAppImpl) ListRideTypes(ctx context.Context) []model.RideType {
	return rideTypes
}

func (s *ErrandAppImpl) BookRide(ctx context.Context, req *model.BookRideRequest) (*model.Confirmation, error) {
	if strings.TrimSpace(req.PickupLocation) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	selected := rideTypes[0]
	if req.RideType != "" {
		found := false
		for _, rt := range rideTypes {
			if rt.ID == req.RideType {
				selected = rt
				found = true
				break
			}
		}
		if !found {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
	}

	return &model.Confirmation{
		Title: "Ride Booked!",
		Message: fmt.Sprintf("Your %s ride from %s to %s has been booked. Estimated fare: %s",
			selected.ID, req.PickupLocation, req.Destination, selected.Price),
	}, nil
}

func (s *ErrandAppImpl) ListRestaurants(ctx context.Context) []model.Restaurant {
	return restaurants
}

func (s *ErrandAppImpl) OrderFood(ctx context.Context, req *model.OrderFoodRequest) (*model.Confirmation, error) {
	for _, r := range restaurants {
		if r.ID == req.RestaurantID {
			return &model.Confirmation{
				Title: "Order Placed!",
				Message: fmt.Sprintf("Your order from %s has been placed. Estimated delivery time: %s",
					r.Name, r.DeliveryTime),
			}, nil
		}
	}
	return nil, errors.SetCustomError(constant.ErrInvalidRequest)
}

func (s *ErrandAppImpl) GroceryCatalog(ctx context.Context) *model.GroceryCatalog {
	return &model.GroceryCatalog{
		Stores:       groceryStores,
		PopularItems: groceryItems,
	}
}

func (s *ErrandAppImpl) OrderGroceries(ctx context.Context, req *model.OrderGroceriesRequest) (*model.Confirmation, error) {
	var store *model.GroceryStore
	for i := range groceryStores {
		if groceryStores[i].ID == req.StoreID {
			store = &groceryStores[i]
			break
		}
	}
	if store == nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	var cart []string
	for _, id := range req.ItemIDs {
		for _, item := range groceryItems {
			if item.ID == id {
				cart = append(cart, item.Name)
				break
			}
		}
	}

	message := fmt.Sprintf("Your grocery order from %s has been placed. Estimated delivery time: %s",
		store.Name, store.DeliveryTime)
	if len(cart) > 0 {
		message += fmt.Sprintf("\n\nItems in cart: %s", strings.Join(cart, ", "))
	}

	return &model.Confirmation{
		Title:   "Order Placed!",
		Message: message,
	}, nil
}

func (s *ErrandAppImpl) BillCatalog(ctx context.Context) *model.BillCatalog {
	return &model.BillCatalog{
		Bills:          bills,
		PaymentMethods: paymentMethods,
	}
}

func (s *ErrandAppImpl) PayBill(ctx context.Context, req *model.PayBillRequest) (*model.Confirmation, error) {
	if req.Amount <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	var bill *model.Bill
	for i := range bills {
		if bills[i].ID == req.BillID {
			bill = &bills[i]
			break
		}
	}
	if bill == nil {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	method := req.PaymentMethod
	if method == "" {
		method = paymentMethods[0].ID
	} else {
		found := false
		for _, pm := range paymentMethods {
			if pm.ID == method {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
	}

	return &model.Confirmation{
		Title: "Payment Successful!",
		Message: fmt.Sprintf("Your payment of $%.2f for %s (%s) via %s has been processed.",
			req.Amount, bill.Name, bill.Provider, method),
	}, nil
}
