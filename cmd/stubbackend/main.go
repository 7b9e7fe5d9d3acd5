package main

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/stubbackend"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if errors.Is(err, fs.ErrNotExist) {
		config, err = common.NewConfig(nil), nil
	}
	if err != nil {
		return err
	}
	credentials, err := common.LoadCredentials(".env")
	if err != nil {
		return err
	}
	logger := common.NewFileLogger(config.GetStringOrDefault("logPath", ""))
	server := stubbackend.NewServer(stubbackend.Options{
		Email:    credentials.Email,
		Password: credentials.Password,
		Logger:   logger,
	})
	address := config.GetStringOrDefault("stubAddress", "127.0.0.1:5000")
	logger.Log("stub backend listening on " + address)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}
