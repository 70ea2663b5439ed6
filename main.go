package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"cinelog-server/handlers"
	"cinelog-server/middleware"
	"cinelog-server/store"

	firebase "firebase.google.com/go/v4"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"google.golang.org/api/option"
)

func newVerifier(ctx context.Context) middleware.TokenVerifier {
	if os.Getenv("AUTH_MODE") == "local" {
		secret := os.Getenv("AUTH_HMAC_SECRET")
		if secret == "" {
			log.Fatal("AUTH_HMAC_SECRET environment variable is not set")
		}
		log.Println("Using local HMAC token verification")
		return &middleware.HMACVerifier{Secret: secret}
	}

	var opts []option.ClientOption
	if credFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firebase auth client: %v", err)
	}
	return &middleware.FirebaseVerifier{Client: authClient}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}

	ctx := context.Background()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	db, err := store.Connect(ctx, mongoURI, "cinelog")
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Printf("Failed to create indexes: %v", err)
	}

	var userStore store.UserStore = store.NewMongoUserStore(db)
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
		userStore = store.NewCachedUserStore(userStore, redisClient)
		log.Println("User profile caching enabled")
	}
	movieStore := store.NewMongoMovieStore(db)
	commentStore := store.NewMongoCommentStore(db)
	feelingStore := store.NewMongoFeelingStore(db)

	userHandler := handlers.NewUserHandler(userStore, movieStore, commentStore)
	movieHandler := handlers.NewMovieHandler(userStore, movieStore)
	commentHandler := handlers.NewCommentHandler(userStore, commentStore)
	feelingHandler := handlers.NewFeelingHandler(userStore, feelingStore)

	verifier := newVerifier(ctx)
	auth := middleware.AuthMiddleware(verifier)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorMiddleware())

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("App is running"))
	}).Methods("GET")

	// Profile routes
	myProfile := r.PathPrefix("/myprofile").Subrouter()
	myProfile.Use(auth)
	myProfile.HandleFunc("", userHandler.GetMyProfile).Methods("GET")
	myProfile.HandleFunc("", userHandler.UpdateMyProfile).Methods("PATCH")
	myProfile.HandleFunc("", userHandler.DeleteMyProfile).Methods("DELETE")
	myProfile.HandleFunc("/follow", userHandler.GetFollow).Methods("GET")
	myProfile.HandleFunc("/followed", userHandler.GetFollowed).Methods("GET")
	myProfile.HandleFunc("/streaming", userHandler.SaveStreaming).Methods("POST")
	myProfile.HandleFunc("/unwatchedmovies", movieHandler.GetMyUnwatched).Methods("GET")
	myProfile.HandleFunc("/watchedmovies", movieHandler.GetMyWatched).Methods("GET")

	// User routes; fixed paths register before the {userId} patterns
	user := r.PathPrefix("/user").Subrouter()
	user.Use(auth)
	user.HandleFunc("", userHandler.CreateProfile).Methods("POST")
	user.HandleFunc("/search", userHandler.SearchUsers).Methods("GET")
	user.HandleFunc("/friendsMovies", movieHandler.GetFriendsMovies).Methods("GET")
	user.HandleFunc("/{userId}", userHandler.GetUserProfile).Methods("GET")
	user.HandleFunc("/{userId}/follow", userHandler.FollowUser).Methods("POST")
	user.HandleFunc("/{userId}/unfollow", userHandler.UnfollowUser).Methods("POST")
	user.HandleFunc("/{userId}/unwatchedmovies", movieHandler.GetUserUnwatched).Methods("GET")
	user.HandleFunc("/{userId}/watchedmovies", movieHandler.GetUserWatched).Methods("GET")

	// Movie routes
	movie := r.PathPrefix("/movie").Subrouter()
	movie.Use(auth)
	movie.HandleFunc("/{movieId}", movieHandler.GetMovieDetails).Methods("GET")
	movie.HandleFunc("/{movieId}/add", movieHandler.AddMovie).Methods("POST")
	movie.HandleFunc("/{movieId}/watched", movieHandler.MarkWatched).Methods("POST")
	movie.HandleFunc("/{movieId}/watched", movieHandler.RemoveFromWatched).Methods("DELETE")
	movie.HandleFunc("/{movieId}", movieHandler.DeleteMovie).Methods("DELETE")

	// Comment routes
	comment := r.PathPrefix("/comment").Subrouter()
	comment.Use(auth)
	comment.HandleFunc("", commentHandler.GetMyComments).Methods("GET")
	comment.HandleFunc("/movie/{movieId}", commentHandler.GetMovieComments).Methods("GET")
	comment.HandleFunc("/movie/{movieId}", commentHandler.CreateComment).Methods("POST")
	comment.HandleFunc("/user/{userId}", commentHandler.GetUserComments).Methods("GET")
	comment.HandleFunc("/{commentId}", commentHandler.EditComment).Methods("PUT")
	comment.HandleFunc("/{commentId}", commentHandler.DeleteComment).Methods("DELETE")
	r.Handle("/friendscomment", auth(http.HandlerFunc(commentHandler.GetFriendsComments))).Methods("GET")

	// Feeling routes; list, create and update stay public as in the
	// original deployment, voting requires an account
	r.HandleFunc("/feeling", feelingHandler.GetFeelings).Methods("GET")
	r.HandleFunc("/feeling", feelingHandler.CreateFeeling).Methods("POST")
	r.HandleFunc("/feeling/{feelingId}", feelingHandler.UpdateFeeling).Methods("PUT")
	r.Handle("/feeling/{feelingId}/{movieId}/vote", auth(http.HandlerFunc(feelingHandler.VoteFeeling))).Methods("POST")

	corsOptions := cors.Default()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsOptions = cors.New(cors.Options{
			AllowedOrigins:   strings.Split(origins, ","),
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("Server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsOptions.Handler(r)))
}
