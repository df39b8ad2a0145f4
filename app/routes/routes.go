package routes

import (
	"net/http"

	"yatube/app/config"
	"yatube/app/controllers"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App bundles the services behind the web routes.
type App struct {
	Listing *services.ListingService
	Posts   *services.PostService
	Auth    *services.AuthService
	Views   *views.Renderer
	Limiter *middleware.IPRateLimiter
	Logger  *zap.Logger
}

// NewApp wires the services on top of store using cfg.
func NewApp(store *repositories.Store, cfg *config.Config, logger *zap.Logger) (*App, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		Listing: services.NewListingService(store.Posts, store.Groups, store.Users, cfg.PostsPerPage),
		Posts:   services.NewPostService(store.Posts, store.Groups),
		Auth:    services.NewAuthService(store.Users, cfg.SecretKey, cfg.SessionTTL),
		Views:   renderer,
		Limiter: middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
		Logger:  logger,
	}, nil
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(app *App) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	router.Use(middleware.Recoverer(app.Logger))
	router.Use(middleware.Logger(app.Logger))
	router.Use(middleware.Session(app.Auth, app.Logger))

	postController := controllers.NewPostController(app.Listing, app.Posts, app.Views, app.Logger)
	aboutController := controllers.NewAboutController(app.Views, app.Logger)
	authController := controllers.NewAuthController(app.Auth, app.Views, app.Logger)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Posts
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/group/{slug}/", postController.GroupList).Methods("GET")
	router.HandleFunc("/profile/{username}/", postController.Profile).Methods("GET")
	router.HandleFunc("/posts/{post_id:[0-9]+}/", postController.Detail).Methods("GET")
	router.HandleFunc("/posts/{post_id:[0-9]+}/edit/", postController.Edit).Methods("GET", "POST")
	router.Handle("/create/", middleware.RequireLogin(http.HandlerFunc(postController.Create))).Methods("GET", "POST")

	// About
	about := router.PathPrefix("/about").Subrouter()
	about.HandleFunc("/author/", aboutController.Author).Methods("GET")
	about.HandleFunc("/tech/", aboutController.Tech).Methods("GET")

	// Auth
	auth := router.PathPrefix("/auth").Subrouter()
	auth.Handle("/login/", middleware.RateLimit(app.Limiter, app.Logger)(http.HandlerFunc(authController.Login))).Methods("GET", "POST")
	auth.HandleFunc("/logout/", authController.Logout).Methods("GET", "POST")
	auth.HandleFunc("/signup/", authController.Signup).Methods("GET", "POST")

	// Unmatched requests skip router.Use, so the 404 page gets its own chain.
	var notFound http.Handler = controllers.NotFoundHandler(app.Views, app.Logger)
	notFound = middleware.Session(app.Auth, app.Logger)(notFound)
	notFound = middleware.Logger(app.Logger)(notFound)
	router.NotFoundHandler = middleware.Recoverer(app.Logger)(notFound)

	return router
}
