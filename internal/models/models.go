package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Image struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"productName"`
	Size        string          `json:"size"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Color       string          `json:"color"`
	LaunchDate  string          `json:"launchDate"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	Images      []Image         `json:"images,omitempty"`
}

// ProductPage is the paged listing returned by GET /products.
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}

type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	ID         int64           `json:"id"`
	Items      []CartItem      `json:"cartItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

func (r AuthResponse) User() User {
	return User{ID: r.UserID, Email: r.Email, Role: r.Role}
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterResult is whatever the server chose to return from registration.
type RegisterResult = json.RawMessage

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
)

type Address struct {
	ID            int64  `json:"id,omitempty"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	City          string `json:"city"          validate:"required"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"    validate:"required"`
	Country       string `json:"country"       validate:"required"`
	IsDefault     bool   `json:"isDefault,omitempty"`
}

type OrderItem struct {
	ID       int64           `json:"id,omitempty"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID              int64           `json:"id,omitempty"`
	OrderNumber     string          `json:"orderNumber,omitempty"`
	OrderDate       string          `json:"orderDate,omitempty"`
	Status          OrderStatus     `json:"orderStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Items           []OrderItem     `json:"orderItems"`
}

// APIError is the error body the commerce API sends with non-2xx responses.
type APIError struct {
	Status  int             `json:"status"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Path    string          `json:"path"`
}
