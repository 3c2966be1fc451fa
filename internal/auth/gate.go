package auth

import (
	"strings"

	"github.com/iudanet/shopfront/internal/models"
)

// Маршруты приложения
const (
	RouteRegister       = "/"
	RouteLogin          = "/Login"
	RouteDashboard      = "/dashboard"
	RouteProductDetail  = "/product-detail"
	RouteCart           = "/cart"
	RouteAdminDashboard = "/admindashboard"
	RouteBrand          = "/brand"
	RoutePartners       = "/partners"
	RouteCollection     = "/collection"
	RouteProducts       = "/products"
)

// Access describes who may open a route
type Access int

const (
	AccessAnonymous Access = iota // только для неавторизованных
	AccessUser                    // только для покупателей
	AccessAdmin                   // только для администраторов
)

var routes = map[string]Access{
	RouteRegister:       AccessAnonymous,
	RouteLogin:          AccessAnonymous,
	RouteDashboard:      AccessUser,
	RouteProductDetail:  AccessUser,
	RouteCart:           AccessUser,
	RouteAdminDashboard: AccessAdmin,
	RouteBrand:          AccessAdmin,
	RoutePartners:       AccessAdmin,
	RouteCollection:     AccessAdmin,
	RouteProducts:       AccessAdmin,
}

// Decision is the outcome of a gate check
type Decision struct {
	Redirect string `json:"redirect,omitempty"` // куда перенаправить, если доступ запрещён
	Allowed  bool   `json:"allowed"`
}

// Home returns the landing route for a session
func Home(session *models.Session) string {
	switch {
	case !loggedIn(session):
		return RouteLogin
	case session.IsAdmin():
		return RouteAdminDashboard
	default:
		return RouteDashboard
	}
}

// Decide checks whether session may open route.
// /product-detail accepts an optional trailing id segment.
func Decide(session *models.Session, route string) Decision {
	access, ok := lookup(route)
	if !ok {
		return Decision{Redirect: Home(session)}
	}

	switch access {
	case AccessAnonymous:
		if loggedIn(session) {
			return Decision{Redirect: Home(session)}
		}
	case AccessUser:
		if !loggedIn(session) || session.IsAdmin() {
			return Decision{Redirect: Home(session)}
		}
	case AccessAdmin:
		if !loggedIn(session) || !session.IsAdmin() {
			return Decision{Redirect: Home(session)}
		}
	}

	return Decision{Allowed: true}
}

func lookup(route string) (Access, bool) {
	if access, ok := routes[route]; ok {
		return access, true
	}

	// /product-detail/:id
	if rest, ok := strings.CutPrefix(route, RouteProductDetail+"/"); ok && !strings.Contains(rest, "/") {
		return AccessUser, true
	}
	return 0, false
}

func loggedIn(session *models.Session) bool {
	return session != nil && session.IsLoggedIn
}
