// internal/navigation/routes.go
package navigation

// View names for the storefront's addressable screens. The resolve
// endpoint returns these so shared deep links can be rendered without
// shipping the route table to every client.
const (
	ViewHome            = "home"
	ViewOnboarding      = "vendor-onboarding"
	ViewTracking        = "order-tracking"
	ViewVendorDashboard = "vendor-dashboard"
	ViewStoreProfile    = "store-profile"
	ViewTryOn           = "virtual-try-on"
	ViewCart            = "cart"
	ViewCEODashboard    = "ceo-dashboard"
	ViewLegal           = "legal"
	ViewOrderHistory    = "order-history"
	ViewStudio          = "studio"
)

// AppTable builds the storefront route table. Order matters: more
// specific patterns are declared before their parameterless variants
// would shadow them, and resolution is first-match-wins.
func AppTable() *Table {
	return NewTable(
		Route{MustCompile("/"), ViewHome},
		Route{MustCompile("/onboarding"), ViewOnboarding},
		Route{MustCompile("/tracking"), ViewTracking},
		Route{MustCompile("/tracking/:orderId"), ViewTracking},
		Route{MustCompile("/dashboard"), ViewVendorDashboard},
		Route{MustCompile("/store/:slug"), ViewStoreProfile},
		Route{MustCompile("/try-on/:id"), ViewTryOn},
		Route{MustCompile("/cart"), ViewCart},
		Route{MustCompile("/ceo-dashboard"), ViewCEODashboard},
		Route{MustCompile("/legal"), ViewLegal},
		Route{MustCompile("/orders"), ViewOrderHistory},
		Route{MustCompile("/orders/:orderId"), ViewOrderHistory},
		Route{MustCompile("/studio"), ViewStudio},
	)
}
