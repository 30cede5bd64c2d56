package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/furnix/furnix-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=SUPER_ADMIN ADMIN DISTRIBUTOR CUSTOMER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// --- Product ---

type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Images      []string        `json:"images"`
	Tags        []string        `json:"tags"`
	Dimensions  string          `json:"dimensions"`
	Materials   string          `json:"materials"`
	Care        string          `json:"care"`
	Variants    []model.Variant `json:"variants"`
}

type UpdateProductRequest struct {
	Slug        *string          `json:"slug"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"categoryId"`
	Images      *[]string        `json:"images"`
	Tags        *[]string        `json:"tags"`
	Dimensions  *string          `json:"dimensions"`
	Materials   *string          `json:"materials"`
	Care        *string          `json:"care"`
	Variants    *[]model.Variant `json:"variants"`
}

type ListProductsRequest struct {
	Query    string  `form:"q"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=12" binding:"min=1,max=100"`
	PriceMax float64 `form:"priceMax"`
	Material string  `form:"material"`
	Color    string  `form:"color"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Images      []string        `json:"images"`
	Tags        []string        `json:"tags"`
	Dimensions  string          `json:"dimensions"`
	Materials   string          `json:"materials"`
	Care        string          `json:"care"`
	Variants    []model.Variant `json:"variants"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

type SearchResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level" binding:"min=0"`
}

type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// --- Order ---

type OrderItemRequest struct {
	ProductID  string          `json:"productId" binding:"required"`
	Title      string          `json:"title"`
	VariantKey string          `json:"variantKey"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"qty" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName" binding:"required"`
	CustomerEmail string             `json:"customerEmail" binding:"required,email"`
	CustomerPhone string             `json:"customerPhone" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Shipping      decimal.Decimal    `json:"shipping"`
	Address       model.Address      `json:"address"`
	PaymentMethod string             `json:"paymentMethod" binding:"omitempty,oneof=SSLCommerz COD"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignOrderRequest struct {
	DistributorID string `json:"distributorId" binding:"required"`
}

type OrderItemResponse struct {
	ProductID  string  `json:"productId"`
	Title      string  `json:"title"`
	VariantKey string  `json:"variantKey"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"qty"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	CustomerPhone string              `json:"customerPhone"`
	UserID        string              `json:"userId,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	Discount      float64             `json:"discount"`
	Tax           float64             `json:"tax"`
	Shipping      float64             `json:"shipping"`
	Total         float64             `json:"total"`
	Address       model.Address       `json:"address"`
	Status        string              `json:"status"`
	DistributorID string              `json:"distributorId,omitempty"`
	PaymentMethod string              `json:"paymentMethod"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// --- Custom order ---

type CreateCustomOrderRequest struct {
	Name             string `form:"name" binding:"required"`
	Email            string `form:"email" binding:"required,email"`
	Phone            string `form:"phone"`
	Details          string `form:"details"`
	RoomMeasurements string `form:"roomMeasurements"`
}

type ListCustomOrdersRequest struct {
	Status   string `form:"status"`
	Query    string `form:"q"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

type UpdateCustomOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

type CustomOrderResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	RoomMeasurements string    `json:"roomMeasurements"`
	Details          string    `json:"details"`
	Attachments      []string  `json:"attachments"`
	Status           string    `json:"status"`
	AdminNotes       string    `json:"adminNotes,omitempty"`
	CustomerID       string    `json:"customerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CustomOrderListResponse struct {
	Items    []CustomOrderResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// --- Payments ---

type PaymentInitRequest struct {
	OrderID  string          `json:"orderId" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency"`
}

type PaymentInitResponse struct {
	RedirectURL string `json:"redirectUrl"`
}
