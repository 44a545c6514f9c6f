package route

// Views rendered by the parking application.
const (
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewUserDashboard  View = "user-dashboard"
	ViewParkingLots    View = "parking-lots"
	ViewMyReservations View = "my-reservations"
	ViewAdminDashboard View = "admin-dashboard"
	ViewAdminLots      View = "admin-lots"
	ViewAdminUsers     View = "admin-users"
	ViewLotStatus      View = "lot-status"
	ViewAdminSummary   View = "admin-summary"
	ViewLotSpots       View = "lot-spots"
)

// Entry point every guard redirect lands on.
const LoginPath = "/"

var adminOnly = Meta{RequiresAuth: true, RequiresAdmin: true}

// Default returns the application's route table. Order matters: the first
// matching entry wins.
func Default() *Table {
	return MustNew(
		Route{Pattern: "/", View: ViewLogin},
		Route{Pattern: "/register", View: ViewRegister},
		Route{Pattern: "/user", View: ViewUserDashboard},
		Route{Pattern: "/lots", View: ViewParkingLots},
		Route{Pattern: "/reservations", View: ViewMyReservations},
		Route{Pattern: "/admin", View: ViewAdminDashboard},
		Route{Pattern: "/admin/lots", View: ViewAdminLots},
		Route{Pattern: "/admin/users", View: ViewAdminUsers},
		Route{Pattern: "/admin/status", View: ViewLotStatus},
		Route{Pattern: "/admin/summary", View: ViewAdminSummary, Meta: adminOnly},
		Route{Pattern: "/admin/lots/:id/spots", View: ViewLotSpots, Meta: adminOnly},
	)
}
