package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/go-redis/redis"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/authorization"
	"github.com/petNanny/pn-server/cache"
	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/handlers"
	"github.com/petNanny/pn-server/relay"
	application "github.com/petNanny/pn-server/service"
	"github.com/petNanny/pn-server/startup/config"
	"github.com/petNanny/pn-server/storage"
	store2 "github.com/petNanny/pn-server/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/petnanny.log"
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["id"] = generateUniqueID()

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Data["id"],
		entry.Message,
	)

	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(3*time.Minute),
	)
	if err != nil {
		Logger.Fatalf("Failed to create rotatelogs hook: %v", err)
	}
	Logger.SetOutput(writer)

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("petnanny_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	verificationRedis := server.initRedisClient(server.config.VerificationDBHost, server.config.VerificationDBPort)
	imageRedis := server.initRedisClient(server.config.ImageCacheHost, server.config.ImageCachePort)

	fileStorage := server.initFileStorage(tracer)
	defer fileStorage.Close()
	if err := fileStorage.CreateDirectoriesStart(); err != nil {
		log.Fatalf("Failed to prepare attachment storage root: %v", err)
	}
	imageCache := cache.New(imageRedis, Logger, tracer)

	ownerStore := server.initPetOwnerStore(mongoClient, tracer)
	sitterStore := server.initPetSitterStore(mongoClient, tracer)
	petStore := server.initPetStore(mongoClient, tracer)
	conversationStore := store2.NewConversationMongoDBStore(mongoClient, tracer)
	messageStore := store2.NewMessageMongoDBStore(mongoClient, tracer)
	verificationCache := store2.NewVerificationRedisCache(verificationRedis, tracer, Logger)

	geocoder := application.NewNominatimGeocoder(server.config.GeocoderURL, httpClient, tracer, Logger)

	authService := application.NewAuthService(ownerStore, verificationCache, tracer, Logger)
	ownerService := application.NewPetOwnerService(ownerStore, tracer, Logger)
	sitterService := application.NewPetSitterService(sitterStore, ownerStore, geocoder, tracer, Logger)
	petService := application.NewPetService(petStore, ownerStore, tracer, Logger)
	chatService := application.NewChatService(conversationStore, messageStore, ownerStore, tracer, Logger)

	authHandler := handlers.NewAuthHandler(authService, tracer, Logger)
	ownerHandler := handlers.NewPetOwnerHandler(ownerService, fileStorage, imageCache, tracer, Logger)
	sitterHandler := handlers.NewPetSitterHandler(sitterService, tracer, Logger)
	petHandler := handlers.NewPetHandler(petService, tracer, Logger)
	chatHandler := handlers.NewChatHandler(chatService, tracer, Logger)

	hub := relay.NewHub(relay.NewRegistry(), Logger)

	server.start(authHandler, ownerHandler, sitterHandler, petHandler, chatHandler, hub)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store2.GetClientWithHTTPConfig(server.config.PetNannyDBHost, server.config.PetNannyDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient(host, port string) *redis.Client {
	client, err := store2.GetRedisClient(host, port)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initFileStorage(tracer trace.Tracer) *storage.FileStorage {
	fileStorage, err := storage.New(server.config.HDFSUri, Logger, tracer)
	if err != nil {
		log.Fatal(err)
	}
	return fileStorage
}

func (server *Server) initPetOwnerStore(client *mongo.Client, tracer trace.Tracer) domain.PetOwnerStore {
	return store2.NewPetOwnerMongoDBStore(client, tracer)
}

func (server *Server) initPetSitterStore(client *mongo.Client, tracer trace.Tracer) domain.PetSitterStore {
	return store2.NewPetSitterMongoDBStore(client, tracer, Logger)
}

func (server *Server) initPetStore(client *mongo.Client, tracer trace.Tracer) domain.PetStore {
	return store2.NewPetMongoDBStore(client, tracer)
}

func (server *Server) start(
	authHandler *handlers.AuthHandler,
	ownerHandler *handlers.PetOwnerHandler,
	sitterHandler *handlers.PetSitterHandler,
	petHandler *handlers.PetHandler,
	chatHandler *handlers.ChatHandler,
	hub *relay.Hub,
) {
	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)

	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}
	router.Use(authorization.CasbinMiddleware(enforcer, Logger))

	authHandler.Init(router.PathPrefix("/api/auth").Subrouter())
	ownerHandler.Init(router.PathPrefix("/api/petOwners").Subrouter())
	sitterHandler.Init(router.PathPrefix("/api/petSitters").Subrouter())
	petHandler.Init(router.PathPrefix("/api/pets").Subrouter())
	chatHandler.Init(router.PathPrefix("/api/chat").Subrouter())

	router.HandleFunc("/ws", func(writer http.ResponseWriter, req *http.Request) {
		relay.ServeWS(hub, Logger, writer, req)
	})

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: cors(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("petnanny_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}
