package routes

import (
	"fmt"
	"net/http"

	"SensorLedger/internal/controller"
	"SensorLedger/internal/models"
	"SensorLedger/internal/utils"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(router *mux.Router, controller *controller.LedgerController) {
	router.HandleFunc("/addData", controller.HandleAddData).Methods(http.MethodPost)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "no route for "+r.URL.Path, nil, http.StatusNotFound))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMethodNotAllowed, "Method not allowed", nil, http.StatusMethodNotAllowed))
	})
}

// SetupRouter returns a router with every route registered.
func SetupRouter(controller *controller.LedgerController) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, controller)
	return router
}
