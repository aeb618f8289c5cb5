package api

import (
	"net/http"

	"domainhub/sources/persistence/entities"

	"github.com/gorilla/mux"
)

type usersResponse struct {
	Success bool                  `json:"success"`
	Data    []entities.Subscriber `json:"data"`
	Total   int                   `json:"total"`
}

func (x *Server) getTelegramUsers(w http.ResponseWriter, r *http.Request) {
	users, err := x.subscribers.ListSubscribers(r.Context(), x.log)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, usersResponse{Success: true, Data: users, Total: len(users)})
}

func (x *Server) getTelegramUser(w http.ResponseWriter, r *http.Request) {
	user, err := x.subscribers.GetSubscriber(r.Context(), x.log, mux.Vars(r)["telegram_id"])
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", user)
}
