package model

import "strings"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusAssigned   OrderStatus = "ASSIGNED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusPaid:       {},
	OrderStatusProcessing: {},
	OrderStatusAssigned:   {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus matches the input against the order status domain,
// case-insensitively. Stored statuses are always upper-case.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(s))
	_, ok := orderStatuses[st]
	return st, ok
}

type CustomOrderStatus string

const (
	CustomOrderStatusSubmitted  CustomOrderStatus = "SUBMITTED"
	CustomOrderStatusApproved   CustomOrderStatus = "APPROVED"
	CustomOrderStatusInProgress CustomOrderStatus = "IN_PROGRESS"
	CustomOrderStatusRejected   CustomOrderStatus = "REJECTED"
	CustomOrderStatusCompleted  CustomOrderStatus = "COMPLETED"
)

var customOrderStatuses = map[CustomOrderStatus]struct{}{
	CustomOrderStatusSubmitted:  {},
	CustomOrderStatusApproved:   {},
	CustomOrderStatusInProgress: {},
	CustomOrderStatusRejected:   {},
	CustomOrderStatusCompleted:  {},
}

// ParseCustomOrderStatus matches the input against the custom-order status
// domain. Unlike order statuses the allow-list is exact-match.
func ParseCustomOrderStatus(s string) (CustomOrderStatus, bool) {
	st := CustomOrderStatus(s)
	_, ok := customOrderStatuses[st]
	return st, ok
}
