package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, id uint32, price string) Product {
	t.Helper()
	p, err := NewProduct(id, "product", decimal.RequireFromString(price), "test product")
	require.NoError(t, err)
	return p
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	user, err := NewUser(1, "John Doe", "john.doe@example.com", "123 Main St")
	require.NoError(t, err)
	return NewOrder(1, *user)
}

func TestOrder_TotalScenario(t *testing.T) {
	order := testOrder(t)

	require.NoError(t, order.AddProduct(mustProduct(t, 1, "10.00"), 2))
	require.NoError(t, order.AddProduct(mustProduct(t, 2, "5.00"), 1))
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("25.00")))

	require.NoError(t, order.RemoveProduct(1))
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, 1, order.ItemCount())
}

func TestOrder_TotalHasNoRoundingDrift(t *testing.T) {
	order := testOrder(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, order.AddProduct(mustProduct(t, uint32(i+1), "0.10"), 1))
	}
	assert.Equal(t, "1", order.CalculateTotal().String())

	for i := 0; i < 10; i++ {
		require.NoError(t, order.RemoveProduct(uint32(i+1)))
	}
	assert.True(t, order.CalculateTotal().IsZero())
}

func TestOrder_TotalMatchesItemsAfterMixedOperations(t *testing.T) {
	order := testOrder(t)
	prices := []string{"999.99", "29.99", "0.01", "12.5"}
	for i, price := range prices {
		require.NoError(t, order.AddProduct(mustProduct(t, uint32(i+1), price), uint32(i+1)))
	}
	require.NoError(t, order.AddProduct(mustProduct(t, 2, "29.99"), 7))
	require.NoError(t, order.RemoveProduct(2))
	require.NoError(t, order.RemoveProduct(4))

	sum := decimal.Zero
	for _, item := range order.Items() {
		sum = sum.Add(item.Subtotal())
	}
	assert.True(t, order.CalculateTotal().Equal(sum))
}

func TestOrder_RemoveProductTakesFirstMatch(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 7, "3.00"), 1))
	require.NoError(t, order.AddProduct(mustProduct(t, 8, "1.00"), 1))
	require.NoError(t, order.AddProduct(mustProduct(t, 7, "3.00"), 4))

	require.NoError(t, order.RemoveProduct(7))

	items := order.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint32(8), items[0].Product.ID())
	assert.Equal(t, uint32(4), items[1].Quantity)
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("13")))
}

func TestOrder_AddProductRejectsZeroQuantity(t *testing.T) {
	order := testOrder(t)

	err := order.AddProduct(mustProduct(t, 1, "1.00"), 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 0, order.ItemCount())
	assert.True(t, order.CalculateTotal().IsZero())
}

func TestOrder_RemoveUnknownProduct(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "4.00"), 1))

	err := order.RemoveProduct(99)

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("4")))
}

func TestOrder_ItemsIsACopy(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "4.00"), 1))

	items := order.Items()
	items[0].Quantity = 100

	assert.Equal(t, uint32(1), order.Items()[0].Quantity)
}

func TestOrder_UpdateStatus(t *testing.T) {
	all := []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				order := testOrder(t)
				if from != StatusPending {
					require.NoError(t, order.UpdateStatus(from))
				}

				err := order.UpdateStatus(to)

				if from.IsTerminal() {
					assert.ErrorIs(t, err, ErrInvalidStatus)
					assert.Equal(t, from, order.Status())
				} else {
					assert.NoError(t, err)
					assert.Equal(t, to, order.Status())
				}
			})
		}
	}
}

func TestOrder_UpdateStatusRejectsUnknownValue(t *testing.T) {
	order := testOrder(t)

	err := order.UpdateStatus(OrderStatus(42))

	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, StatusPending, order.Status())
}

func TestOrder_TerminalOrderRejectsItemChanges(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "2.00"), 1))
	require.NoError(t, order.UpdateStatus(StatusCancelled))

	assert.ErrorIs(t, order.AddProduct(mustProduct(t, 2, "2.00"), 1), ErrInvalidStatus)
	assert.ErrorIs(t, order.RemoveProduct(1), ErrInvalidStatus)
	assert.Equal(t, 1, order.ItemCount())
}

func TestOrder_KeepsItsOwnUserCopy(t *testing.T) {
	user, err := NewUser(3, "Ann", "ann@example.com", "1 Road")
	require.NoError(t, err)
	order := NewOrder(10, *user)

	require.NoError(t, user.UpdateAddress("2 Street"))

	orderUser := order.User()
	assert.Equal(t, "1 Road", orderUser.Address())
}

func TestRestoreOrder(t *testing.T) {
	user, err := NewUser(3, "Ann", "ann@example.com", "1 Road")
	require.NoError(t, err)
	items := []LineItem{
		{Product: mustProduct(t, 1, "2.50"), Quantity: 2},
		{Product: mustProduct(t, 2, "1.25"), Quantity: 4},
	}

	order, err := RestoreOrder(5, *user, items, StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, order.Status())
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("10")))
	assert.Equal(t, items, order.Items())
}

func TestOrder_Clone(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "2.00"), 1))

	clone := order.Clone()
	require.NoError(t, clone.AddProduct(mustProduct(t, 2, "3.00"), 1))
	require.NoError(t, clone.UpdateStatus(StatusShipped))

	assert.Equal(t, 1, order.ItemCount())
	assert.Equal(t, StatusPending, order.Status())
	assert.True(t, order.CalculateTotal().Equal(decimal.RequireFromString("2")))
}

func TestOrder_MarshalJSON(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "10.00"), 2))

	data, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded struct {
		ID     uint32 `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
		User   struct {
			Email string `json:"email"`
		} `json:"user"`
		Items []struct {
			Quantity uint32 `json:"quantity"`
			Subtotal string `json:"subtotal"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, uint32(1), decoded.ID)
	assert.Equal(t, "pending", decoded.Status)
	assert.Equal(t, "20", decoded.Total)
	assert.Equal(t, "john.doe@example.com", decoded.User.Email)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "20", decoded.Items[0].Subtotal)
}

func TestOrder_Summary(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.AddProduct(mustProduct(t, 1, "999.99"), 1))

	summary := order.Summary()

	assert.Contains(t, summary, "Order ID: 1")
	assert.Contains(t, summary, "Status: pending")
	assert.Contains(t, summary, "- 1x product @ $999.99")
	assert.Contains(t, summary, "Total: $999.99")
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{input: "pending", want: StatusPending},
		{input: " Processing ", want: StatusProcessing},
		{input: "SHIPPED", want: StatusShipped},
		{input: "delivered", want: StatusDelivered},
		{input: "cancelled", want: StatusCancelled},
		{input: "returned", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOrderStatus(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderStatus_JSONRoundTrip(t *testing.T) {
	var req UpdateStatusRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"shipped"}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, StatusShipped, *req.Status)

	err := json.Unmarshal([]byte(`{"status":"lost"}`), &req)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateStatusRequest_RequiresStatus(t *testing.T) {
	var req UpdateStatusRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.EqualError(t, req.Validate(), "status is required")

	require.NoError(t, json.Unmarshal([]byte(`{"status":"pending"}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, StatusPending, *req.Status)
}

func TestIsOrderError(t *testing.T) {
	assert.True(t, IsOrderError(ErrEmptyOrder))
	assert.True(t, IsOrderError(testOrder(t).RemoveProduct(1)))
	assert.False(t, IsOrderError(ErrEmptyName))
}
