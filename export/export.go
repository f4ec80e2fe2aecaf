// Package export projects the order and user stores into the denormalized
// spreadsheet the operations team works from, plus a vCard dump of the
// customer list.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avanimitra/organic-fruits-backend/models"
)

// OrderRow is one spreadsheet row per (order, item) pair
type OrderRow struct {
	RoundNumber        string
	OrderNumber        int
	OptionType         string
	CustomerName       string
	Phone              string
	ReceiverPhone      string
	Address            string
	DeliveryAddress    string
	ProductName        string
	Size               string
	ProductQuantity    int
	TotalDozens        float64
	TotalPrice         float64
	CP                 string
	SP                 string
	PaymentStatus      string
	DeliveryStatus     string
	PaymentValidation  string
	DeliveryValidation string
}

// UserRow is one row of the users sheet / one vCard entry
type UserRow struct {
	Code  string
	Name  string
	Phone string
}

var orderHeaders = []interface{}{
	"round_number", "website_order_number", "type", "customer_name", "phone",
	"receiver_phone", "address", "delivery_address", "product_name", "size",
	"product_quantity", "total_dozens", "total_price", "CP", "SP",
	"payment_status_website", "delivery_status_website",
	"payment_validation", "delivery_validation",
}

// TotalDozens converts a line to dozens using the option-driven multiplier
// table: a quantity option counts 1 dozen per unit, a box counts 6.5 (small),
// 6 (medium) or 5.5 (big) dozens per unit. Lines without an option are 0.
func TotalDozens(option *models.PriceOption, quantity int) float64 {
	if option == nil {
		return 0
	}
	switch option.Type {
	case models.OptionTypeQuantity:
		return 1 * float64(quantity)
	case models.OptionTypeBox:
		switch option.Size {
		case models.OptionSizeBig:
			return 5.5 * float64(quantity)
		case models.OptionSizeMedium:
			return 6 * float64(quantity)
		case models.OptionSizeSmall:
			return 6.5 * float64(quantity)
		}
	}
	return 0
}

// BuildOrderRows flattens orders into one row per item. Orders are numbered
// sequentially in the given slice order. receiver_phone and delivery_address
// are blanked when they match the customer's profile, so only overrides show.
// Items whose product is missing from productsByID are skipped; orders whose
// user is missing render as "Unknown".
func BuildOrderRows(orders []models.Order, usersByID map[string]models.User, productsByID map[string]models.Product) []OrderRow {
	rows := []OrderRow{}

	for orderIdx, order := range orders {
		orderNumber := orderIdx + 1

		user, userKnown := usersByID[order.UserID]
		customerName := user.Name
		if !userKnown {
			customerName = "Unknown"
		}

		for _, item := range order.Items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				continue
			}

			size := ""
			optionType := ""
			if item.SelectedOption != nil {
				size = item.SelectedOption.Size
				optionType = item.SelectedOption.Type
			}

			receiverPhone := ""
			if order.ReceiverPhone != user.Phone {
				receiverPhone = order.ReceiverPhone
			}
			deliveryAddress := ""
			if order.DeliveryAddress != user.Address {
				deliveryAddress = order.DeliveryAddress
			}

			rows = append(rows, OrderRow{
				OrderNumber:     orderNumber,
				OptionType:      optionType,
				CustomerName:    customerName,
				Phone:           user.Phone,
				ReceiverPhone:   receiverPhone,
				Address:         user.Address,
				DeliveryAddress: deliveryAddress,
				ProductName:     product.Name,
				Size:            size,
				ProductQuantity: item.Quantity,
				TotalDozens:     TotalDozens(item.SelectedOption, item.Quantity),
				TotalPrice:      item.PriceAtPurchase * float64(item.Quantity),
				PaymentStatus:   order.PaymentStatus,
				DeliveryStatus:  order.OrderStatus,
			})
		}
	}
	return rows
}

// BuildUserRows assigns each user a sequential code (AM001, AM002, ...)
func BuildUserRows(users []models.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for i, user := range users {
		rows = append(rows, UserRow{
			Code:  fmt.Sprintf("AM%03d", i+1),
			Name:  user.Name,
			Phone: user.Phone,
		})
	}
	return rows
}

// RenderOrdersWorkbook renders the orders sheet with its highlighting rules
// and a users sheet, returning the xlsx bytes
func RenderOrdersWorkbook(rows []OrderRow, users []UserRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "orders"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow("orders", "A1", &orderHeaders); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cells := []interface{}{
			row.RoundNumber, row.OrderNumber, row.OptionType, row.CustomerName,
			row.Phone, row.ReceiverPhone, row.Address, row.DeliveryAddress,
			row.ProductName, row.Size, row.ProductQuantity, row.TotalDozens,
			row.TotalPrice, row.CP, row.SP, row.PaymentStatus,
			row.DeliveryStatus, row.PaymentValidation, row.DeliveryValidation,
		}
		if err := f.SetSheetRow("orders", fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, err
		}
	}

	if len(rows) > 0 {
		if err := applyOrderHighlights(f, len(rows)+1); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet("users"); err != nil {
		return nil, err
	}
	if err := writeUsersSheet(f, users); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyOrderHighlights mirrors the operational highlighting rules: duplicate
// order numbers, paid/delivered status cells, blank size cells, and rows
// whose customer matches the immediately preceding row
func applyOrderHighlights(f *excelize.File, maxRow int) error {
	fill := func(color string) (int, error) {
		return f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
	}

	duplicateOrder, err := fill("#FFFF99")
	if err != nil {
		return err
	}
	sameCustomer, err := fill("#00E8FF")
	if err != nil {
		return err
	}
	paidDelivered, err := fill("#90EE90")
	if err != nil {
		return err
	}
	missingSize, err := fill("#FFCCCB")
	if err != nil {
		return err
	}

	// Duplicate rules need a comparison criteria even though none applies
	if err := f.SetConditionalFormat("orders", fmt.Sprintf("B2:B%d", maxRow),
		[]excelize.ConditionalFormatOptions{
			{Type: "duplicate", Criteria: "=", Format: &duplicateOrder},
		}); err != nil {
		return err
	}

	if err := f.SetConditionalFormat("orders", fmt.Sprintf("P2:P%d", maxRow),
		[]excelize.ConditionalFormatOptions{
			{Type: "text", Criteria: "containing", Value: "paid", Format: &paidDelivered},
		}); err != nil {
		return err
	}

	if err := f.SetConditionalFormat("orders", fmt.Sprintf("Q2:Q%d", maxRow),
		[]excelize.ConditionalFormatOptions{
			{Type: "text", Criteria: "containing", Value: "delivered", Format: &paidDelivered},
		}); err != nil {
		return err
	}

	if err := f.SetConditionalFormat("orders", fmt.Sprintf("J2:J%d", maxRow),
		[]excelize.ConditionalFormatOptions{
			{Type: "blanks", Format: &missingSize},
		}); err != nil {
		return err
	}

	// Relative references shift per row, so one rule covers the whole range
	if maxRow >= 3 {
		if err := f.SetConditionalFormat("orders", fmt.Sprintf("D3:D%d", maxRow),
			[]excelize.ConditionalFormatOptions{
				{
					Type:     "formula",
					Criteria: "=AND(D3=D2,E3=E2,F3=F2,G3=G2)",
					Format:   &sameCustomer,
				},
			}); err != nil {
			return err
		}
	}
	return nil
}

func writeUsersSheet(f *excelize.File, users []UserRow) error {
	headers := []interface{}{"code", "name", "phone"}
	if err := f.SetSheetRow("users", "A1", &headers); err != nil {
		return err
	}
	for i, user := range users {
		cells := []interface{}{user.Code, user.Name, user.Phone}
		if err := f.SetSheetRow("users", fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}

// RenderUsersWorkbook renders just the users sheet, for the standalone
// contact download
func RenderUsersWorkbook(users []UserRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "users"); err != nil {
		return nil, err
	}
	if err := writeUsersSheet(f, users); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderVCF renders the user list as a version 3.0 vCard file, one card per
// user with the code prefixed to the display name
func RenderVCF(users []UserRow) string {
	var b strings.Builder
	for _, user := range users {
		b.WriteString("BEGIN:VCARD\n")
		b.WriteString("VERSION:3.0\n")
		fmt.Fprintf(&b, "N:%s;%s;;;\n", user.Name, user.Code)
		fmt.Fprintf(&b, "FN:%s %s\n", user.Code, user.Name)
		fmt.Fprintf(&b, "TEL;TYPE=CELL:%s\n", user.Phone)
		b.WriteString("END:VCARD\n")
	}
	return b.String()
}
