package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"simple-crud/auth"
	"simple-crud/config"
	"simple-crud/controllers"
	"simple-crud/logging"
	"simple-crud/store"
)

// Deps are the collaborators the router wires into controllers.
type Deps struct {
	Store  store.ItemStore
	Auth   *auth.Authenticator
	Logger *logging.Logger
	CORS   config.CORSConfig
	// RequireToken puts the /items routes behind a bearer token check.
	RequireToken bool
}

// SetupRoutes builds the full HTTP handler: router plus global middleware.
// Middleware wraps the router from outside so CORS preflights and
// unmatched routes are still handled and logged.
func SetupRoutes(d Deps) http.Handler {
	items := controllers.NewItemController(d.Store, d.Logger)
	login := controllers.NewAuthController(d.Auth, d.Logger)

	r := mux.NewRouter()
	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.HandleFunc("/login", login.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	if d.RequireToken {
		api.Use(bearerAuth(d.Auth))
	}
	api.HandleFunc("/items", items.CreateItem).Methods("POST")
	api.HandleFunc("/items/{id}", items.GetItem).Methods("GET")
	api.HandleFunc("/items/{id}", items.UpdateItem).Methods("PUT")
	api.HandleFunc("/items/{id}", items.DeleteItem).Methods("DELETE")
	api.HandleFunc("/items", items.GetAllItems).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		controllers.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		controllers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	var h http.Handler = r
	h = cors(d.CORS)(h)
	h = recoverPanics(d.Logger)(h)
	h = logRequests(d.Logger)(h)
	h = requestID(h)
	return h
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
