package handler

import (
	"sermonclip/internal/service"
	"sermonclip/internal/wizard"
)

type Handler struct {
	Service *service.Service
	Wizard  *wizard.Manager
}

func NewHandler() *Handler {
	svc := service.NewService()
	return &Handler{
		Service: svc,
		Wizard:  wizard.NewManager(svc, svc.Chat),
	}
}
