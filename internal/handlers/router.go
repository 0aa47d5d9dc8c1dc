package handlers

import (
	"backoffice/internal/middleware"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// Handlers groups every endpoint handler.
type Handlers struct {
	Auth    *AuthHandlers
	User    *UserHandlers
	Company *CompanyHandlers
	Product *ProductHandlers
	Catalog *CatalogHandlers
	Project *ProjectHandlers
	Invoice *InvoiceHandlers
	Expense *ExpenseHandlers
	Finance *FinanceHandlers
	Health  *HealthHandlers
}

// Guards are the middleware chains applied to API routes.
type Guards struct {
	// Authenticate runs on every protected route, in order.
	Authenticate []echo.MiddlewareFunc
	RBAC         *middleware.RBACMiddleware
	LoginLimiter echo.MiddlewareFunc
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	api := e.Group("/api")

	// Health endpoints (no auth required)
	api.GET("/health", h.Health.LivenessCheck)
	api.GET("/health/ready", h.Health.ReadinessCheck)

	// Authentication routes
	api.POST("/register", h.Auth.Register)
	api.POST("/token", h.Auth.Login, g.LoginLimiter)
	api.POST("/token/refresh", h.Auth.Refresh)
	api.POST("/token/revoke", h.Auth.Revoke)
	api.POST("/users/reset-password", h.User.ResetPassword)

	protected := api.Group("", g.Authenticate...)
	protected.GET("/me", h.Auth.Me)

	profile := g.RBAC.RequirePermission(services.ObjectProfile)
	protected.GET("/users/profile", h.User.GetProfile, profile)
	protected.PATCH("/users/profile", h.User.UpdateProfile, profile)
	protected.PUT("/users/profile", h.User.UpdateProfile, profile)
	protected.POST("/users/change-password", h.User.ChangePassword, profile)

	users := g.RBAC.RequirePermission(services.ObjectUsers)
	protected.GET("/users", h.User.ListUsers, users)
	protected.POST("/users", h.User.CreateUser, users)
	protected.GET("/users/:id", h.User.GetUser, users)
	protected.PUT("/users/:id", h.User.UpdateUser, users)
	protected.PATCH("/users/:id", h.User.UpdateUser, users)
	protected.DELETE("/users/:id", h.User.DeleteUser, users)

	settings := g.RBAC.RequirePermission(services.ObjectSettings)
	protected.GET("/settings/company", h.Company.GetSettings, settings)
	protected.PUT("/settings/company", h.Company.UpdateSettings, settings)
	protected.PATCH("/settings/company", h.Company.UpdateSettings, settings)

	crud(protected, "/projects", g.RBAC.RequirePermission(services.ObjectProjects), resource{
		list: h.Project.ListProjects, create: h.Project.CreateProject, get: h.Project.GetProject,
		update: h.Project.UpdateProject, remove: h.Project.DeleteProject,
	})
	crud(protected, "/services", g.RBAC.RequirePermission(services.ObjectServices), resource{
		list: h.Catalog.ListServices, create: h.Catalog.CreateService, get: h.Catalog.GetService,
		update: h.Catalog.UpdateService, remove: h.Catalog.DeleteService,
	})
	crud(protected, "/employees", g.RBAC.RequirePermission(services.ObjectEmployees), resource{
		list: h.Catalog.ListEmployees, create: h.Catalog.CreateEmployee, get: h.Catalog.GetEmployee,
		update: h.Catalog.UpdateEmployee, remove: h.Catalog.DeleteEmployee,
	})
	crud(protected, "/products", g.RBAC.RequirePermission(services.ObjectProducts), resource{
		list: h.Product.ListProducts, create: h.Product.CreateProduct, get: h.Product.GetProduct,
		update: h.Product.UpdateProduct, remove: h.Product.DeleteProduct,
	})

	invoices := g.RBAC.RequirePermission(services.ObjectInvoices)
	protected.GET("/invoices/summary", h.Invoice.Summary, invoices)
	crud(protected, "/invoices", invoices, resource{
		list: h.Invoice.ListInvoices, create: h.Invoice.CreateInvoice, get: h.Invoice.GetInvoice,
		update: h.Invoice.UpdateInvoice, remove: h.Invoice.DeleteInvoice,
	})

	expenses := g.RBAC.RequirePermission(services.ObjectExpenses)
	expenseRoutes := resource{
		list: h.Expense.ListExpenses, create: h.Expense.CreateExpense, get: h.Expense.GetExpense,
		update: h.Expense.UpdateExpense, remove: h.Expense.DeleteExpense,
	}
	crud(protected, "/expenses", expenses, expenseRoutes)
	crud(protected, "/finance/expenses", expenses, expenseRoutes)

	finance := g.RBAC.RequirePermission(services.ObjectFinance)
	protected.GET("/finance/report", h.Finance.Report, finance)
	protected.GET("/finance/report/pdf", h.Finance.ReportPDF, finance)
	protected.GET("/finance/monthly", h.Finance.Monthly, finance)
}

type resource struct {
	list, create, get, update, remove echo.HandlerFunc
}

// crud registers the list/detail routes of a collection. PUT and PATCH share
// a handler that tells them apart by method.
func crud(g *echo.Group, path string, guard echo.MiddlewareFunc, r resource) {
	g.GET(path, r.list, guard)
	g.POST(path, r.create, guard)
	g.GET(path+"/:id", r.get, guard)
	g.PUT(path+"/:id", r.update, guard)
	g.PATCH(path+"/:id", r.update, guard)
	g.DELETE(path+"/:id", r.remove, guard)
}
