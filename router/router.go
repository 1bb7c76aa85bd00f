package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Router wraps httprouter with method-named registration helpers.
type Router struct {
	*httprouter.Router
}

func New() *Router {
	r := httprouter.New()
	r.HandleMethodNotAllowed = true
	return &Router{r}
}

func (r *Router) Get(path string, handler http.Handler) {
	r.Handler(http.MethodGet, path, handler)
}

func (r *Router) Post(path string, handler http.Handler) {
	r.Handler(http.MethodPost, path, handler)
}

func (r *Router) Delete(path string, handler http.Handler) {
	r.Handler(http.MethodDelete, path, handler)
}
