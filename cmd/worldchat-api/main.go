package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"

	"github.com/mathieulrl/world-chat-sub000/internal/handler"
	"github.com/mathieulrl/world-chat-sub000/internal/middleware"
	"github.com/mathieulrl/world-chat-sub000/internal/router"
	"github.com/mathieulrl/world-chat-sub000/internal/service"
	"github.com/mathieulrl/world-chat-sub000/internal/signer"
	"github.com/mathieulrl/world-chat-sub000/internal/storage/ledger"
	"github.com/mathieulrl/world-chat-sub000/internal/storage/walrus"
	"github.com/mathieulrl/world-chat-sub000/shared/config"
	"github.com/mathieulrl/world-chat-sub000/shared/jwt"
	"github.com/mathieulrl/world-chat-sub000/shared/logger"
)

const defaultPort = "8080"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	httpClient := &http.Client{Timeout: cfg.Public.RequestTimeout.Duration()}

	blobs := walrus.New(cfg.Public.Walrus.PublisherURL, cfg.Public.Walrus.AggregatorURL, httpClient)

	rpcClient, err := ethclient.Dial(cfg.Public.Ledger.RPCURL)
	if err != nil {
		logger.Log.Error("dialing ledger rpc", "err", err)
		os.Exit(1)
	}
	defer rpcClient.Close()

	txSigner := signer.NewRemote(cfg.Public.Signer.URL, httpClient)

	index, err := ledger.New(cfg.Public.Ledger.ContractAddress, rpcClient, txSigner)
	if err != nil {
		logger.Log.Error("building ledger client", "err", err)
		os.Exit(1)
	}

	messaging := service.NewMessaging(blobs, index, cfg.Public.BlobFetchLimit)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	authMw := middleware.NewAuth(jwtService)

	h := handler.New(messaging)
	r := router.New(h, authMw, cfg.Public.AllowedOrigins)

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Log.Info("server started", "port", port)
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
