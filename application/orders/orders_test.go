package orders_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	apporders "github.com/Qguillot-pro/barstock-pro/application/orders"
	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	cerr "github.com/Qguillot-pro/barstock-pro/utils/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderStore() *store.Store {
	st := store.New("s0")
	st.Load(store.Snapshot{
		Items: []model.Item{
			{ID: "gin", Name: "Gin", FormatID: "f70"},
			{ID: "rum", Name: "Rum", FormatID: "f70"},
		},
		Formats: []model.Format{
			{ID: "f70", Name: "70cl"},
		},
	})
	return st
}

func TestOrderApp_Create(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)

	order, err := app.Create(context.Background(), "gin", 3.7, "anna", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Quantity, "quantities are floored to whole units")
	assert.Equal(t, 3, order.InitialQuantity)
	assert.Equal(t, constant.OrderStatusPending, order.Status)
	assert.Nil(t, order.ShortageDetectedAt)
	assert.NotEmpty(t, order.ID)

	stored, ok := st.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, *order, stored)

	_, err = app.Create(context.Background(), "nope", 1, "anna", nil)
	assert.Equal(t, cerr.SetCustomError(constant.ErrNotFound), err)
}

func TestOrderApp_Create_ShortageReport(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)

	now := time.Now()
	order, err := app.Create(context.Background(), "gin", 0, "anna", &now)
	require.NoError(t, err)
	assert.Equal(t, 0, order.Quantity)
	require.NotNil(t, order.ShortageDetectedAt)
	assert.Equal(t, now, *order.ShortageDetectedAt)
}

func TestOrderApp_Lifecycle(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)
	ctx := context.Background()

	o1, err := app.Create(ctx, "gin", 4, "anna", nil)
	require.NoError(t, err)
	o2, err := app.Create(ctx, "rum", 2, "anna", nil)
	require.NoError(t, err)

	// unknown ids are silent no-ops
	app.MarkOrdered(ctx, []string{o1.ID, "missing"}, "anna")

	got1, _ := st.Order(o1.ID)
	got2, _ := st.Order(o2.ID)
	assert.Equal(t, constant.OrderStatusOrdered, got1.Status)
	require.NotNil(t, got1.OrderedAt)
	assert.Equal(t, constant.OrderStatusPending, got2.Status)

	// a second MarkOrdered pass skips non-PENDING orders
	firstOrderedAt := *got1.OrderedAt
	app.MarkOrdered(ctx, []string{o1.ID}, "anna")
	got1, _ = st.Order(o1.ID)
	assert.Equal(t, firstOrderedAt, *got1.OrderedAt)

	app.MarkReceived(ctx, o1.ID, "anna")
	got1, _ = st.Order(o1.ID)
	assert.Equal(t, constant.OrderStatusReceived, got1.Status)
	require.NotNil(t, got1.ReceivedAt)

	// receiving twice keeps the first timestamp
	firstReceivedAt := *got1.ReceivedAt
	app.MarkReceived(ctx, o1.ID, "anna")
	got1, _ = st.Order(o1.ID)
	assert.Equal(t, firstReceivedAt, *got1.ReceivedAt)

	// a PENDING order may be received directly
	app.MarkReceived(ctx, o2.ID, "anna")
	got2, _ = st.Order(o2.ID)
	assert.Equal(t, constant.OrderStatusReceived, got2.Status)
}

func TestOrderApp_Reconcile(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)
	ctx := context.Background()

	primary, _ := app.Create(ctx, "gin", 4, "anna", nil)
	sibling1, _ := app.Create(ctx, "gin", 3, "anna", nil)
	sibling2, _ := app.Create(ctx, "gin", 2, "anna", nil)

	app.Reconcile(ctx, primary.ID, []string{sibling1.ID, sibling2.ID, "missing"}, 7)

	got, _ := st.Order(primary.ID)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, 4, got.InitialQuantity, "requested amount is preserved")

	s1, _ := st.Order(sibling1.ID)
	s2, _ := st.Order(sibling2.ID)
	assert.Equal(t, 0, s1.Quantity)
	assert.Equal(t, 0, s2.Quantity)
}

func TestOrderApp_UpdateQuantity(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)
	ctx := context.Background()

	order, _ := app.Create(ctx, "gin", 4, "anna", nil)
	app.UpdateQuantity(ctx, order.ID, 6.9)

	got, _ := st.Order(order.ID)
	assert.Equal(t, 6, got.Quantity)

	// received orders are immutable
	app.MarkReceived(ctx, order.ID, "anna")
	app.UpdateQuantity(ctx, order.ID, 10)
	got, _ = st.Order(order.ID)
	assert.Equal(t, 6, got.Quantity)
}

func TestOrderApp_ExportCSV(t *testing.T) {
	st := newOrderStore()
	app := apporders.NewOrderApp(st, nil)
	ctx := context.Background()

	o1, _ := app.Create(ctx, "gin", 4, "anna", nil)
	o2, _ := app.Create(ctx, "rum", 2, "anna", nil)

	var buf bytes.Buffer
	err := app.ExportCSV(ctx, []string{o1.ID, o2.ID, "missing"}, "anna", &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Item,Format,Quantity,Date,Status", lines[0])
	assert.Equal(t, "Gin,70cl,4,"+time.Now().Format("2006-01-02")+",PENDING", lines[1])
	assert.Equal(t, "Rum,70cl,2,"+time.Now().Format("2006-01-02")+",PENDING", lines[2])

	// exporting is the act of sending the batch to the supplier
	got1, _ := st.Order(o1.ID)
	got2, _ := st.Order(o2.ID)
	assert.Equal(t, constant.OrderStatusOrdered, got1.Status)
	assert.Equal(t, constant.OrderStatusOrdered, got2.Status)
}
