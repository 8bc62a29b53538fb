package transport_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appallocation "github.com/Qguillot-pro/barstock-pro/application/allocation"
	apporders "github.com/Qguillot-pro/barstock-pro/application/orders"
	"github.com/Qguillot-pro/barstock-pro/application/priority"
	apprestock "github.com/Qguillot-pro/barstock-pro/application/restock"
	appshelflife "github.com/Qguillot-pro/barstock-pro/application/shelflife"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	st := store.New("s0")
	st.Load(store.Snapshot{
		Items:     []model.Item{{ID: "gin", Name: "Gin", FormatID: "f70"}},
		Formats:   []model.Format{{ID: "f70", Name: "70cl"}},
		Locations: []model.StorageLocation{{ID: "s0", Name: "Overflow"}, {ID: "bar1", Name: "Bar Top"}},
		Priorities: []model.PriorityRule{
			{ItemID: "gin", LocationID: "bar1", Priority: 5},
		},
		Levels: []model.StockLevel{
			{ItemID: "gin", LocationID: "bar1", Quantity: 3},
		},
	})

	resolver := priority.NewResolver(st)
	tracker := appshelflife.NewTracker(st, nil)
	allocationApp := appallocation.NewAllocationApp(st, resolver, tracker, nil, nil)
	orderApp := apporders.NewOrderApp(st, nil)
	restockApp := apprestock.NewRestockApp(st, resolver, allocationApp, orderApp)

	srv := httptest.NewServer(transport.NewTransport(st, allocationApp, orderApp, restockApp, tracker))
	t.Cleanup(srv.Close)
	return srv, st
}

func TestTransport_ApplyMovement(t *testing.T) {
	srv, st := newTestServer(t)

	body := `{"item_id":"gin","direction":"OUT","quantity":1}`
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/movements", strings.NewReader(body))
	req.Header.Set("X-Actor", "anna")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Code string               `json:"code"`
		Data model.MovementResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "0000", envelope.Code)
	require.Len(t, envelope.Data.Movements, 1)
	assert.Equal(t, "anna", envelope.Data.Movements[0].Actor, "actor comes from the X-Actor header")
	assert.Equal(t, 2.0, st.Level("gin", "bar1"))
}

func TestTransport_ApplyMovement_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing direction", body: `{"item_id":"gin","quantity":1}`},
		{name: "bad direction", body: `{"item_id":"gin","direction":"SIDEWAYS","quantity":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/movements", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var envelope struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.Equal(t, "0003", envelope.Code)
		})
	}
}

func TestTransport_CreateOrder_UnknownItem(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/orders", "application/json",
		strings.NewReader(`{"item_id":"nope","quantity":2}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "0002", envelope.Code)
}

func TestTransport_RestockNeeds(t *testing.T) {
	srv, st := newTestServer(t)
	st.Load(store.Snapshot{
		Items:      []model.Item{{ID: "gin", Name: "Gin", FormatID: "f70"}},
		Locations:  []model.StorageLocation{{ID: "bar1", Name: "Bar Top"}},
		Priorities: []model.PriorityRule{{ItemID: "gin", LocationID: "bar1", Priority: 5}},
		Targets:    []model.MinimumTarget{{ItemID: "gin", LocationID: "bar1", MinQuantity: 4}},
		Levels:     []model.StockLevel{{ItemID: "gin", LocationID: "bar1", Quantity: 1}},
	})

	resp, err := http.Get(srv.URL + "/restock/needs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []model.AggregatedNeed `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, 3, envelope.Data[0].TotalGap)
}

func TestTransport_ExportOrders(t *testing.T) {
	srv, st := newTestServer(t)
	st.UpsertOrder(model.ReplenishmentOrder{ID: "o1", ItemID: "gin", Quantity: 2, Status: "PENDING"})

	resp, err := http.Post(srv.URL+"/orders/export", "application/json",
		strings.NewReader(`{"order_ids":["o1"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	o, _ := st.Order("o1")
	assert.Equal(t, "ORDERED", string(o.Status))
}
