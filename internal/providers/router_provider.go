package providers

import (
	"net/http"
	"playtrack/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	AdminPost(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	adminToken string
	routes     []structures.Route
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  method,
		Url:     url,
		Handler: methodHandler(method, handler),
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

// AdminPost registers a POST route behind the X-Token guard.
func (rp *RouterProvider) AdminPost(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, AdminGuard(rp.adminToken, handler))
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider(adminToken string) RouterProviderInterface {
	return &RouterProvider{adminToken: adminToken}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
