// Command order-demo runs a two-order scenario against the in-memory store
// and prints the inventory and orders as it goes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/0Bleak/order-service/internal/logging"
	"github.com/0Bleak/order-service/internal/messaging"
	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
	"github.com/0Bleak/order-service/internal/service"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("demo failed: %v", err)
	}
}

func run(ctx context.Context) error {
	logger, err := logging.NewLogger("warn", "console")
	if err != nil {
		return err
	}
	defer logger.Sync()

	inventory := models.NewInventory()
	publisher := messaging.NewLogPublisher(logger)

	userRepo := repository.NewMemoryUserRepository()
	productRepo := repository.NewMemoryProductRepository()
	inventoryRepo := repository.NewMemoryInventoryRepository(inventory)

	users := service.NewUserService(userRepo, logger)
	products := service.NewProductService(productRepo)
	stock := service.NewInventoryService(inventoryRepo, publisher, logger)
	orders := service.NewOrderService(repository.NewMemoryOrderRepository(), userRepo, productRepo, inventoryRepo, publisher, logger)

	catalog := []struct {
		req   models.CreateProductRequest
		stock uint32
	}{
		{models.CreateProductRequest{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Description: "High-performance laptop with 16GB RAM"}, 5},
		{models.CreateProductRequest{ID: 2, Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99"), Description: "Ergonomic wireless mouse"}, 10},
	}
	for _, entry := range catalog {
		if _, err := products.CreateProduct(ctx, &entry.req); err != nil {
			return err
		}
		if _, err := stock.AddStock(ctx, entry.req.ID, entry.stock); err != nil {
			return err
		}
	}

	user, err := users.CreateUser(ctx, &models.CreateUserRequest{
		Name:    "John Doe",
		Email:   "john.doe@example.com",
		Address: "123 Main St, City, Country",
	})
	if err != nil {
		return err
	}

	fmt.Println("\n=== Initial Inventory ===")
	fmt.Println(inventory)

	first, err := orderWith(ctx, orders, user.ID(), []models.AddItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	})
	if err != nil {
		return err
	}

	placed, err := orders.PlaceOrder(ctx, first.ID())
	if err != nil {
		fmt.Printf("\n=== Order Processing Failed: %v ===\n", err)
	} else {
		fmt.Println("\n=== Order Processed Successfully ===")
		fmt.Println(placed.Summary())
	}

	fmt.Println("\n=== Updated Inventory ===")
	fmt.Println(inventory)

	fmt.Println("\n=== Attempting to Order Out-of-Stock Items ===")
	large, err := orderWith(ctx, orders, user.ID(), []models.AddItemRequest{
		{ProductID: 1, Quantity: 10},
	})
	if err != nil {
		return err
	}

	if _, err := orders.PlaceOrder(ctx, large.ID()); err != nil {
		if !errors.Is(err, service.ErrInsufficientStock) {
			return err
		}
		fmt.Println("Order failed: insufficient stock")
	} else {
		fmt.Println("Order processed successfully")
	}

	large, err = orders.GetOrder(ctx, large.ID())
	if err != nil {
		return err
	}
	fmt.Printf("Order %d is %s\n", large.ID(), large.Status())

	fmt.Println("\n=== Final Inventory ===")
	fmt.Println(inventory)
	return nil
}

func orderWith(ctx context.Context, orders service.OrderService, userID uint32, lines []models.AddItemRequest) (*models.Order, error) {
	order, err := orders.CreateOrder(ctx, &models.CreateOrderRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if order, err = orders.AddProduct(ctx, order.ID(), &lines[i]); err != nil {
			return nil, err
		}
	}
	return order, nil
}
