package server

import (
	"github.com/pentrail/pentrail/internal/app"
	"github.com/pentrail/pentrail/internal/logging"
)

type Config struct {
	ListenAddr string
	AppConfig  *app.Config
	Logger     logging.Logger
}
