package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ngfw-panel/internal/config"
	"ngfw-panel/internal/database"
	"ngfw-panel/internal/handlers"
	"ngfw-panel/internal/middleware"
	"ngfw-panel/internal/models"
	"ngfw-panel/internal/services/demo"
	ws "ngfw-panel/internal/services/websocket"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with .env PORT if set
	if envPort := os.Getenv("PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			cfg.Server.Port = port
		}
	}

	// Connect to the record store. A failure is not fatal: the panel runs
	// in demo mode and every data endpoint answers 503 with the
	// requires_database flag until a store is available.
	if _, err := database.Connect(cfg.Database); err != nil {
		log.Printf("⚠️  No database connection (%v) - running in demo mode", err)
	} else {
		if err := database.AutoMigrate(
			&models.FirewallRule{},
			&models.NetworkConnection{},
			&models.ThreatEvent{},
			&models.VPNUser{},
			&models.Setting{},
			&models.ActivityLog{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize WebSocket hub
	ws.InitHub()

	// Start the placeholder feed
	demo.Init(cfg.Demo)

	// Setup template engine
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/base",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Actor",
		AllowCredentials: false,
	}))
	app.Use("/api", middleware.Metrics())

	// Static files
	app.Static("/static", "./web/static")

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Routes
	setupRoutes(app)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🔥 NGFW Panel starting on http://%s", addr)
	log.Fatal(app.Listen(addr))
}

func setupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	api := app.Group("/api")

	// Dashboard API
	api.Get("/dashboard", handlers.GetDashboard)
	api.Get("/system/stats", handlers.GetSystemStats)
	api.Get("/activity", handlers.GetActivity)

	// Firewall rules API. Stats and templates are registered before the
	// :id routes so they are not swallowed by the parameter match.
	api.Get("/firewall/rules/stats", handlers.GetFirewallRuleStats)
	api.Get("/firewall/rules", handlers.GetFirewallRules)
	api.Post("/firewall/rules", handlers.CreateFirewallRule)
	api.Put("/firewall/rules", handlers.BulkUpdateFirewallRules)
	api.Delete("/firewall/rules", handlers.BulkDeleteFirewallRules)
	api.Get("/firewall/rules/:id", handlers.GetFirewallRule)
	api.Put("/firewall/rules/:id", handlers.UpdateFirewallRule)
	api.Patch("/firewall/rules/:id", handlers.PatchFirewallRule)
	api.Delete("/firewall/rules/:id", handlers.DeleteFirewallRule)
	api.Get("/firewall/templates", handlers.GetRuleTemplates)
	api.Post("/firewall/templates/:id", handlers.ApplyRuleTemplate)

	// Network connections API
	api.Get("/network/connections", handlers.GetConnections)
	api.Post("/network/connections", handlers.RecordConnection)
	api.Get("/network/summary", handlers.GetConnectionSummary)

	// Threat events API
	api.Get("/threats/events", handlers.GetThreatEvents)
	api.Post("/threats/events", handlers.RecordThreatEvent)
	api.Get("/threats/summary", handlers.GetThreatSummary)

	// VPN users API
	api.Get("/vpn/users", handlers.GetVPNUsers)
	api.Post("/vpn/users", handlers.CreateVPNUser)
	api.Patch("/vpn/users/:id", handlers.UpdateVPNUser)
	api.Delete("/vpn/users/:id", handlers.DeleteVPNUser)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket live feed
	app.Get("/ws/stats", websocket.New(ws.HandleWebSocket))

	// Dashboard pages
	dashboard := app.Group("/dashboard")
	dashboard.Get("/", func(c *fiber.Ctx) error {
		return c.Render("pages/dashboard", fiber.Map{
			"Title":  "Dashboard - NGFW Panel",
			"Active": "dashboard",
		})
	})
	dashboard.Get("/firewall", func(c *fiber.Ctx) error {
		return c.Render("pages/firewall", fiber.Map{
			"Title":  "Firewall Rules - NGFW Panel",
			"Active": "firewall",
		})
	})
	dashboard.Get("/network", func(c *fiber.Ctx) error {
		return c.Render("pages/network", fiber.Map{
			"Title":  "Network Connections - NGFW Panel",
			"Active": "network",
		})
	})
	dashboard.Get("/threats", func(c *fiber.Ctx) error {
		return c.Render("pages/threats", fiber.Map{
			"Title":  "Threat Events - NGFW Panel",
			"Active": "threats",
		})
	})
	dashboard.Get("/vpn", func(c *fiber.Ctx) error {
		return c.Render("pages/vpn", fiber.Map{
			"Title":  "VPN Users - NGFW Panel",
			"Active": "vpn",
		})
	})
}
