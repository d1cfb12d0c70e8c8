package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Repository ---
	// With a DATABASE_URL the catalog runs on PostgreSQL; without one it
	// falls back to the in-memory repository, seeded for local work.
	var productRepo repositories.ProductRepository
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		productRepo = repositories.NewGORMProductRepository(db)
	} else {
		log.Println("No DATABASE_URL set, using in-memory product repository")
		memRepo := repositories.NewMockProductRepository()
		seedProducts(memRepo)
		productRepo = memRepo
	}

	// --- Event publisher (optional) ---
	var publisher services.ProductEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, catalog events disabled: %v", err)
		} else {
			mqClient = client
			publisher = client
			defer mqClient.Close()
		}
	}

	// --- Service and handler ---
	productService := services.NewProductService(productRepo, publisher, cfg.IsDevelopment())
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber app ---
	app := fiber.New()

	app.Use(recover.New()) // last-resort fault boundary
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(logger.New())

	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Catalog event consumer ---
	// Mirrors published change events into the log; downstream systems
	// would hang their own handlers here.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedProducts populates the in-memory repository with starter data.
func seedProducts(repo repositories.ProductRepository) {
	desc := func(s string) *string { return &s }
	now := time.Now().UTC()
	products := []models.Product{
		{Name: "Laptop", Description: desc("High performance laptop"), Price: 1200.00, StockQuantity: 10, Category: desc("Computers"), Brand: desc("Lenora"), IsActive: true, CreatedAt: now},
		{Name: "Keyboard", Description: desc("Mechanical keyboard"), Price: 75.00, StockQuantity: 25, Category: desc("Accessories"), Brand: desc("Keytron"), IsActive: true, CreatedAt: now},
		{Name: "Mouse", Description: desc("Ergonomic wireless mouse"), Price: 25.00, StockQuantity: 50, Category: desc("Accessories"), Brand: desc("Keytron"), IsActive: true, CreatedAt: now},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (id: %d)", products[i].Name, products[i].ID)
		}
	}
}
