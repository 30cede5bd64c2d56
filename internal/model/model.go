package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleAdmin       Role = "ADMIN"
	RoleDistributor Role = "DISTRIBUTOR"
	RoleCustomer    Role = "CUSTOMER"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Role         Role               `bson:"role"`
	Verified     bool               `bson:"verified"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type Variant struct {
	SKU      string  `bson:"sku" json:"sku"`
	Size     string  `bson:"size" json:"size"`
	Color    string  `bson:"color" json:"color"`
	Material string  `bson:"material" json:"material"`
	Price    float64 `bson:"price" json:"price"`
	B2BPrice float64 `bson:"b2bPrice" json:"b2bPrice"`
	Stock    int     `bson:"stock" json:"stock"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Slug        string             `bson:"slug,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	CategoryID  primitive.ObjectID `bson:"categoryId,omitempty"`
	Images      []string           `bson:"images"`
	Tags        []string           `bson:"tags"`
	Dimensions  string             `bson:"dimensions"`
	Materials   string             `bson:"materials"`
	Care        string             `bson:"care"`
	Variants    []Variant          `bson:"variants"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Level int                `bson:"level"`
}

type Address struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Phone      string `bson:"phone" json:"phone"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId,omitempty"`
	Title      string             `bson:"title"`
	VariantKey string             `bson:"variantKey"`
	Price      float64            `bson:"price"`
	Quantity   int                `bson:"qty"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName  string             `bson:"customerName"`
	CustomerEmail string             `bson:"customerEmail"`
	CustomerPhone string             `bson:"customerPhone"`
	UserID        primitive.ObjectID `bson:"userId,omitempty"`
	Items         []OrderItem        `bson:"items"`
	Subtotal      float64            `bson:"subtotal"`
	Discount      float64            `bson:"discount"`
	Tax           float64            `bson:"tax"`
	Shipping      float64            `bson:"shipping"`
	Total         float64            `bson:"total"`
	Address       Address            `bson:"address"`
	Status        OrderStatus        `bson:"status"`
	DistributorID primitive.ObjectID `bson:"distributorId,omitempty"`
	PaymentMethod string             `bson:"paymentMethod"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

const (
	PaymentMethodSSLCommerz = "SSLCommerz"
	PaymentMethodCOD        = "COD"
)

type CustomOrder struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	RoomMeasurements string             `bson:"roomMeasurements"`
	Details          string             `bson:"details"`
	Attachments      []string           `bson:"attachments"`
	Status           CustomOrderStatus  `bson:"status"`
	AdminNotes       string             `bson:"adminNotes,omitempty"`
	CustomerID       primitive.ObjectID `bson:"customerId,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}
