package api

import (
	"fmt"
	"net/http"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/orders"

	"github.com/go-chi/chi/v5"
)

func (a *OrderApi) createOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := models.GetCaller(r.Context())

	var req models.CreateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeOrderError(w, r, fmt.Errorf("%w: invalid request body: %v", orders.ErrValidation, err))
		return
	}

	details, err := a.orders.Create(r.Context(), caller, orders.CreateOrderInput{
		GigId:         req.GigId.String(),
		FreelancerId:  req.FreelancerId.String(),
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerCpf:   req.CustomerCpf,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, orderView(details))
}

func (a *OrderApi) deliverOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := models.GetCaller(r.Context())

	var req models.DeliverOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeOrderError(w, r, fmt.Errorf("%w: invalid request body: %v", orders.ErrValidation, err))
		return
	}

	details, err := a.orders.Deliver(r.Context(), caller, chi.URLParam(r, "id"), orders.DeliverInput{
		DeliveryFiles: req.DeliveryFiles,
		DeliveryNote:  req.DeliveryNote,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderView(details))
}

func (a *OrderApi) completeOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := models.GetCaller(r.Context())

	details, err := a.orders.Complete(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderView(details))
}

func (a *OrderApi) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := models.GetCaller(r.Context())

	list, err := a.orders.List(r.Context(), caller)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	views := make([]models.OrderView, len(list))
	for i := range list {
		views[i] = orderView(&list[i])
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *OrderApi) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := models.GetCaller(r.Context())

	details, err := a.orders.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderView(details))
}

func orderView(details *orders.OrderDetails) models.OrderView {
	return models.NewOrderView(&details.Order, details.Transactions)
}
