package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Qguillot-pro/barstock-pro/application/allocation"
	"github.com/Qguillot-pro/barstock-pro/application/orders"
	"github.com/Qguillot-pro/barstock-pro/application/restock"
	"github.com/Qguillot-pro/barstock-pro/application/shelflife"
	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	utilsContext "github.com/Qguillot-pro/barstock-pro/utils/context"
	"github.com/Qguillot-pro/barstock-pro/utils/errors"
	validatorx "github.com/Qguillot-pro/barstock-pro/utils/validator"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	Store         *store.Store
	AllocationApp allocation.AllocationApp
	OrderApp      orders.OrderApp
	RestockApp    restock.RestockApp
	Tracker       shelflife.Tracker
}

func NewTransport(st *store.Store, allocationApp allocation.AllocationApp, orderApp orders.OrderApp, restockApp restock.RestockApp, tracker shelflife.Tracker) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		Store:         st,
		AllocationApp: allocationApp,
		OrderApp:      orderApp,
		RestockApp:    restockApp,
		Tracker:       tracker,
	}

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	mux.HandleFunc("/movements", rh.ApplyMovement).Methods(http.MethodPost)
	mux.HandleFunc("/movements", rh.ListMovements).Methods(http.MethodGet)
	mux.HandleFunc("/shortages", rh.ReportUnfulfilled).Methods(http.MethodPost)

	mux.HandleFunc("/restock/needs", rh.ListNeeds).Methods(http.MethodGet)
	mux.HandleFunc("/restock/actions", rh.RestockAction).Methods(http.MethodPost)

	mux.HandleFunc("/orders", rh.ListOrders).Methods(http.MethodGet)
	mux.HandleFunc("/orders", rh.CreateOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/mark-ordered", rh.MarkOrdered).Methods(http.MethodPost)
	mux.HandleFunc("/orders/reconcile", rh.ReconcileReceipt).Methods(http.MethodPost)
	mux.HandleFunc("/orders/export", rh.ExportOrders).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}/receive", rh.MarkReceived).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}/quantity", rh.UpdateOrderQuantity).Methods(http.MethodPatch)

	mux.HandleFunc("/shelf-life", rh.ListShelfLife).Methods(http.MethodGet)

	// middleware
	mux.Use(LoggingMiddleware())
	mux.Use(ActorMiddleware())

	return mux
}

// ApplyMovement handler
// @Summary Post a stock movement
// @Description Resolve a requested movement into per-location deductions/additions by priority order
// @Tags Movements
// @Accept json
// @Produce json
// @Param request body model.MovementRequest true "Movement Request"
// @Success 200 {object} model.MovementResult
// @Failure 400 {object} errors.CustomError
// @Router /movements [post]
func (s *RestHandler) ApplyMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req.Actor = actorOr(ctx, req.Actor)

	res, err := s.AllocationApp.ApplyMovement(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ListMovements handler
// @Summary Recent movement history
// @Tags Movements
// @Produce json
// @Success 200 {array} model.MovementRecord
// @Router /movements [get]
func (s *RestHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.Store.Movements(200))
}

// ReportUnfulfilled handler
// @Summary Report an unfulfilled customer request
// @Description Records the shortage and zeroes the item's stock levels to force a recount
// @Tags Movements
// @Accept json
// @Produce json
// @Success 200 {object} model.MovementResult
// @Failure 400 {object} errors.CustomError
// @Router /shortages [post]
func (s *RestHandler) ReportUnfulfilled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		ItemID string `json:"item_id" validate:"required"`
		Actor  string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.AllocationApp.ReportUnfulfilled(ctx, req.ItemID, actorOr(ctx, req.Actor))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ListNeeds handler
// @Summary Aggregated restock needs
// @Tags Restock
// @Produce json
// @Success 200 {array} model.AggregatedNeed
// @Router /restock/needs [get]
func (s *RestHandler) ListNeeds(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.RestockApp.ComputeNeeds(r.Context()))
}

// RestockAction handler
// @Summary Act on a restock need
// @Description Move stock into a location, order a remainder, or report a shortage
// @Tags Restock
// @Accept json
// @Produce json
// @Param request body model.RestockActionRequest true "Restock Action"
// @Failure 400 {object} errors.CustomError
// @Router /restock/actions [post]
func (s *RestHandler) RestockAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RestockActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req.Actor = actorOr(ctx, req.Actor)

	if err := s.RestockApp.Act(ctx, &req); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// ListOrders handler
// @Summary List replenishment orders
// @Tags Orders
// @Produce json
// @Success 200 {array} model.ReplenishmentOrder
// @Router /orders [get]
func (s *RestHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.OrderApp.List(r.Context()))
}

// CreateOrder handler
// @Summary Create a replenishment order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.CreateOrderRequest true "Create Order Request"
// @Success 200 {object} model.ReplenishmentOrder
// @Failure 400 {object} errors.CustomError
// @Router /orders [post]
func (s *RestHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.OrderApp.Create(ctx, req.ItemID, req.Quantity, actorOr(ctx, req.Actor), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// MarkOrdered handler
// @Summary Mark a batch of orders as sent to the supplier
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.MarkOrderedRequest true "Mark Ordered Request"
// @Router /orders/mark-ordered [post]
func (s *RestHandler) MarkOrdered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.MarkOrderedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	s.OrderApp.MarkOrdered(ctx, req.OrderIDs, actorOr(ctx, req.Actor))
	writeSuccess(w, nil)
}

// MarkReceived handler
// @Summary Mark an order as received
// @Tags Orders
// @Produce json
// @Router /orders/{id}/receive [post]
func (s *RestHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	s.OrderApp.MarkReceived(ctx, id, actorOr(ctx, ""))
	writeSuccess(w, nil)
}

// ReconcileReceipt handler
// @Summary Reconcile a grouped receipt against its orders
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.ReconcileReceiptRequest true "Reconcile Request"
// @Router /orders/reconcile [post]
func (s *RestHandler) ReconcileReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ReconcileReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	s.OrderApp.Reconcile(ctx, req.PrimaryOrderID, req.RelatedOrderIDs, req.ReceivedQuantity)
	writeSuccess(w, nil)
}

// UpdateOrderQuantity handler
// @Summary Correct the quantity of a still-open order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.UpdateOrderQuantityRequest true "Quantity"
// @Router /orders/{id}/quantity [patch]
func (s *RestHandler) UpdateOrderQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	var req model.UpdateOrderQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	s.OrderApp.UpdateQuantity(ctx, id, req.Quantity)
	writeSuccess(w, nil)
}

// ExportOrders handler
// @Summary Export selected orders as CSV and mark them ordered
// @Tags Orders
// @Accept json
// @Produce text/csv
// @Param request body model.MarkOrderedRequest true "Orders to export"
// @Router /orders/export [post]
func (s *RestHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.MarkOrderedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders_`+time.Now().Format("2006-01-02")+`.csv"`)
	if err := s.OrderApp.ExportCSV(ctx, req.OrderIDs, actorOr(ctx, req.Actor), w); err != nil {
		writeError(w, err)
		return
	}
}

// ListShelfLife handler
// @Summary Active shelf-life windows with expiry status
// @Tags ShelfLife
// @Produce json
// @Success 200 {array} model.ShelfLifeStatus
// @Router /shelf-life [get]
func (s *RestHandler) ListShelfLife(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.Tracker.ActiveWindows(r.Context(), time.Now()))
}

func actorOr(ctx context.Context, fallback string) string {
	if actor, ok := utilsContext.GetActor(ctx); ok && actor != "" {
		return actor
	}
	return fallback
}
