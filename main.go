package main

import (
	"github.com/petNanny/pn-server/startup"
	"github.com/petNanny/pn-server/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()
}
