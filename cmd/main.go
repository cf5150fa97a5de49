package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/rentopedia/rentals-service/internal/app"
	"github.com/rentopedia/rentals-service/internal/config"
	"github.com/rentopedia/rentals-service/internal/controllers"
	"github.com/rentopedia/rentals-service/internal/middleware"
	"github.com/rentopedia/rentals-service/internal/routes"
	"github.com/rentopedia/rentals-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)

	// 1) Config
	cfg := config.LoadConfig()

	// 2) Core application (DB pool, repositories, services)
	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize app")
	}
	defer application.Close()

	// 3) Controllers
	healthCtrl := controllers.NewHealthController(application)
	authCtrl := controllers.NewAuthController(application.AuthService, cfg.IsProduction())
	userCtrl := controllers.NewUserController(application.UserService, []byte(cfg.JWTSecret), cfg.IsProduction())
	propCtrl := controllers.NewPropertyController(application.PropertyService)
	rentCtrl := controllers.NewRentRequestController(application.RentRequestService)

	// 4) Router
	secret := []byte(cfg.JWTSecret)
	auth := middleware.AuthMiddleware(secret)
	optionalAuth := middleware.OptionalAuthMiddleware(secret)

	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)

	// auth
	router.HandleFunc(routes.AuthRegister, authCtrl.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authCtrl.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogout, authCtrl.LogoutHandler).Methods(http.MethodPost)

	// users
	router.Handle(routes.UsersMe, auth(http.HandlerFunc(userCtrl.MeHandler))).Methods(http.MethodGet)
	router.HandleFunc(routes.UsersVerify, userCtrl.VerifyHandler).Methods(http.MethodGet)
	router.Handle(routes.UsersChangePassword, auth(http.HandlerFunc(userCtrl.ChangePasswordHandler))).Methods(http.MethodPut)
	router.Handle(routes.UsersDelete, auth(http.HandlerFunc(userCtrl.DeleteAccountHandler))).Methods(http.MethodDelete)
	router.Handle(routes.UserProfile, auth(http.HandlerFunc(userCtrl.ProfileHandler))).Methods(http.MethodGet)

	// rent requests; the static /rent-requests/* paths must be
	// registered before the /{id} matchers
	router.Handle(routes.RentRequestsSent, auth(http.HandlerFunc(rentCtrl.ListSentHandler))).Methods(http.MethodGet)
	router.Handle(routes.RentRequestsReceived, auth(http.HandlerFunc(rentCtrl.ListReceivedHandler))).Methods(http.MethodGet)
	router.Handle(routes.RentRequestCreate, auth(http.HandlerFunc(rentCtrl.CreateHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestAccept, auth(http.HandlerFunc(rentCtrl.AcceptHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestReject, auth(http.HandlerFunc(rentCtrl.RejectHandler))).Methods(http.MethodPost)
	router.Handle(routes.RentRequestCancel, auth(http.HandlerFunc(rentCtrl.CancelHandler))).Methods(http.MethodPost)

	// properties
	router.HandleFunc(routes.PropertyAll, propCtrl.ListAllHandler).Methods(http.MethodGet)
	router.Handle(routes.PropertyAdd, auth(http.HandlerFunc(propCtrl.CreatePropertyHandler))).Methods(http.MethodPost)
	router.Handle(routes.PropertyByOwner, auth(http.HandlerFunc(propCtrl.ListByOwnerHandler))).Methods(http.MethodGet)
	router.Handle(routes.PropertyReview, auth(http.HandlerFunc(propCtrl.AddReviewHandler))).Methods(http.MethodPost)
	router.Handle(routes.PropertyByID, optionalAuth(http.HandlerFunc(propCtrl.GetPropertyHandler))).Methods(http.MethodGet)

	// 5) CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, c.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
