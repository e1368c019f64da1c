package dto

type OrderItemInput struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderInput struct {
	OrderDate  DateTime         `json:"orderDate"`
	OrderItems []OrderItemInput `json:"orderItems"`
}

type UpdateOrderInput struct {
	OrderDate DateTime `json:"orderDate"`
}

type OrderItem struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

type Order struct {
	ID         uint        `json:"id"`
	OrderDate  DateTime    `json:"orderDate"`
	OrderItems []OrderItem `json:"orderItems"`
}
