package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avanimitra/organic-fruits-backend/models"
)

func TestTotalDozens(t *testing.T) {
	cases := []struct {
		name     string
		option   *models.PriceOption
		quantity int
		want     float64
	}{
		{"no option", nil, 3, 0},
		{"quantity option", &models.PriceOption{Type: models.OptionTypeQuantity}, 4, 4},
		{"small box", &models.PriceOption{Type: models.OptionTypeBox, Size: models.OptionSizeSmall}, 2, 13},
		{"medium box", &models.PriceOption{Type: models.OptionTypeBox, Size: models.OptionSizeMedium}, 3, 18},
		{"big box", &models.PriceOption{Type: models.OptionTypeBox, Size: models.OptionSizeBig}, 1, 5.5},
		{"unknown size", &models.PriceOption{Type: models.OptionTypeBox, Size: "huge"}, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalDozens(tc.option, tc.quantity))
		})
	}
}

func TestBuildOrderRows(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	user := models.User{
		ID:      userID,
		Name:    "Asha Kulkarni",
		Phone:   "9876543210",
		Address: "12 MG Road, Pune",
	}
	product := models.Product{ID: productID, Name: "Alphonso Mango"}

	orders := []models.Order{
		{
			UserID:          userID.Hex(),
			OrderDate:       time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
			DeliveryAddress: "12 MG Road, Pune",
			ReceiverPhone:   "9876543210",
			OrderStatus:     models.OrderStatusDelivered,
			PaymentStatus:   models.PaymentStatusPaid,
			Items: []models.OrderItem{
				{
					ProductID:       productID.Hex(),
					Quantity:        3,
					PriceAtPurchase: 3000,
					SelectedOption:  &models.PriceOption{Type: models.OptionTypeBox, Size: models.OptionSizeMedium},
				},
			},
		},
		{
			UserID:          userID.Hex(),
			OrderDate:       time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
			DeliveryAddress: "Office, 5 FC Road, Pune",
			ReceiverPhone:   "9123456789",
			OrderStatus:     models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			Items: []models.OrderItem{
				{ProductID: productID.Hex(), Quantity: 2, PriceAtPurchase: 550},
				{ProductID: primitive.NewObjectID().Hex(), Quantity: 1, PriceAtPurchase: 100},
			},
		},
	}

	rows := BuildOrderRows(orders,
		map[string]models.User{userID.Hex(): user},
		map[string]models.Product{productID.Hex(): product})

	// The vanished product in the second order is skipped
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, models.OptionTypeBox, first.OptionType)
	assert.Equal(t, "Asha Kulkarni", first.CustomerName)
	assert.Equal(t, "9876543210", first.Phone)
	// Receiver and address match the profile, so the override columns stay blank
	assert.Equal(t, "", first.ReceiverPhone)
	assert.Equal(t, "", first.DeliveryAddress)
	assert.Equal(t, models.OptionSizeMedium, first.Size)
	assert.Equal(t, 18.0, first.TotalDozens)
	assert.Equal(t, 9000.0, first.TotalPrice)
	assert.Equal(t, models.PaymentStatusPaid, first.PaymentStatus)
	assert.Equal(t, models.OrderStatusDelivered, first.DeliveryStatus)

	second := rows[1]
	assert.Equal(t, 2, second.OrderNumber)
	assert.Equal(t, "9123456789", second.ReceiverPhone)
	assert.Equal(t, "Office, 5 FC Road, Pune", second.DeliveryAddress)
	assert.Equal(t, "", second.OptionType)
	assert.Equal(t, "", second.Size)
	assert.Equal(t, 0.0, second.TotalDozens)
	assert.Equal(t, 1100.0, second.TotalPrice)
}

func TestBuildOrderRowsUnknownUser(t *testing.T) {
	productID := primitive.NewObjectID()
	orders := []models.Order{{
		UserID: primitive.NewObjectID().Hex(),
		Items:  []models.OrderItem{{ProductID: productID.Hex(), Quantity: 1, PriceAtPurchase: 500}},
	}}

	rows := BuildOrderRows(orders, map[string]models.User{},
		map[string]models.Product{productID.Hex(): {ID: productID, Name: "Kesar Mango"}})

	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].CustomerName)
	assert.Equal(t, "", rows[0].Phone)
}

func TestBuildUserRows(t *testing.T) {
	rows := BuildUserRows([]models.User{
		{Name: "Asha", Phone: "9876543210"},
		{Name: "Ravi", Phone: "9123456789"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "AM001", rows[0].Code)
	assert.Equal(t, "AM002", rows[1].Code)
	assert.Equal(t, "Ravi", rows[1].Name)
}

func TestRenderVCF(t *testing.T) {
	vcf := RenderVCF([]UserRow{{Code: "AM001", Name: "Asha", Phone: "9876543210"}})

	assert.True(t, strings.HasPrefix(vcf, "BEGIN:VCARD\nVERSION:3.0\n"))
	assert.Contains(t, vcf, "FN:AM001 Asha\n")
	assert.Contains(t, vcf, "TEL;TYPE=CELL:9876543210\n")
	assert.True(t, strings.HasSuffix(vcf, "END:VCARD\n"))

	// One card per user
	two := RenderVCF([]UserRow{
		{Code: "AM001", Name: "Asha", Phone: "9876543210"},
		{Code: "AM002", Name: "Ravi", Phone: "9123456789"},
	})
	assert.Equal(t, 2, strings.Count(two, "BEGIN:VCARD"))
}

func TestRenderOrdersWorkbook(t *testing.T) {
	// Two rows of the same multi-item order plus a second order, so the
	// duplicate-order-number and same-customer highlight rules both apply
	rows := []OrderRow{
		{
			OrderNumber:     1,
			OptionType:      models.OptionTypeBox,
			CustomerName:    "Asha",
			Phone:           "9876543210",
			Address:         "12 MG Road, Pune",
			ProductName:     "Alphonso Mango",
			Size:            models.OptionSizeSmall,
			ProductQuantity: 2,
			TotalDozens:     13,
			TotalPrice:      6000,
			PaymentStatus:   models.PaymentStatusPaid,
			DeliveryStatus:  models.OrderStatusDelivered,
		},
		{
			OrderNumber:     1,
			CustomerName:    "Asha",
			Phone:           "9876543210",
			Address:         "12 MG Road, Pune",
			ProductName:     "Kesar Mango",
			ProductQuantity: 1,
			TotalPrice:      500,
			PaymentStatus:   models.PaymentStatusPaid,
			DeliveryStatus:  models.OrderStatusDelivered,
		},
		{
			OrderNumber:     2,
			CustomerName:    "Ravi",
			Phone:           "9123456789",
			Address:         "5 FC Road, Pune",
			ProductName:     "Alphonso Mango",
			ProductQuantity: 1,
			TotalPrice:      500,
			PaymentStatus:   models.PaymentStatusPending,
			DeliveryStatus:  models.OrderStatusPending,
		},
	}
	users := []UserRow{{Code: "AM001", Name: "Asha", Phone: "9876543210"}}

	data, err := RenderOrdersWorkbook(rows, users)
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestRenderOrdersWorkbookSingleRow(t *testing.T) {
	// One data row keeps the same-customer formula range empty
	rows := []OrderRow{{
		OrderNumber:  1,
		CustomerName: "Asha",
		Phone:        "9876543210",
		ProductName:  "Alphonso Mango",
		TotalPrice:   500,
	}}

	data, err := RenderOrdersWorkbook(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestRenderUsersWorkbook(t *testing.T) {
	data, err := RenderUsersWorkbook([]UserRow{{Code: "AM001", Name: "Asha", Phone: "9876543210"}})
	require.NoError(t, err)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestRenderOrdersWorkbookEmpty(t *testing.T) {
	data, err := RenderOrdersWorkbook(nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
