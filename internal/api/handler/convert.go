package handler

import (
	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/feedback"
	"github.com/abokiste/abokiste/internal/order"
	"github.com/abokiste/abokiste/internal/recommend"
	"github.com/abokiste/abokiste/internal/report"
	"github.com/abokiste/abokiste/internal/user"
)

// Converters from domain types to API response models. Handlers never
// return domain structs directly; the wire shapes live in api/models.

func toUser(u *user.User) models.User {
	preferences := make([]models.Preference, len(u.Preferences))
	for i, p := range u.Preferences {
		preferences[i] = models.Preference{
			CategoryID: p.CategoryID,
			Level:      p.Level,
			Source:     p.Source,
		}
	}
	return models.User{
		UserID:             u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               models.Role(u.Role),
		SubscriptionStatus: u.SubscriptionStatus,
		ReferredBy:         u.ReferredBy,
		Preferences:        preferences,
		CreatedAt:          models.Timestamp(u.CreatedAt),
	}
}

func toPreferences(prefs []user.Preference) []models.Preference {
	out := make([]models.Preference, len(prefs))
	for i, p := range prefs {
		out[i] = models.Preference{CategoryID: p.CategoryID, Level: p.Level, Source: p.Source}
	}
	return out
}

func toCategory(c catalog.Category) models.Category {
	return models.Category{
		CategoryID:  c.ID,
		Type:        c.Type,
		Description: c.Description,
		SEOTag:      c.SEOTag,
	}
}

func toCategories(categories []catalog.Category) []models.Category {
	out := make([]models.Category, len(categories))
	for i, c := range categories {
		out[i] = toCategory(c)
	}
	return out
}

func toSupplier(s catalog.Supplier) models.Supplier {
	return models.Supplier{
		SupplierID: s.ID,
		Name:       s.Name,
		Email:      s.Email,
		Address:    s.Address,
		IsPartner:  s.IsPartner,
	}
}

func toSuppliers(suppliers []catalog.Supplier) []models.Supplier {
	out := make([]models.Supplier, len(suppliers))
	for i, s := range suppliers {
		out[i] = toSupplier(s)
	}
	return out
}

// toProduct converts a bare product without resolved references.
func toProduct(p catalog.Product) models.Product {
	return models.Product{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.Price,
		StockLevel:  p.StockLevel,
		SupplierID:  p.SupplierID,
	}
}

// toProductDetail converts a product with resolved categories and supplier.
func toProductDetail(d catalog.ProductDetail) models.Product {
	product := toProduct(d.Product)
	product.Categories = toCategories(d.Categories)
	if d.Supplier != nil {
		supplier := toSupplier(*d.Supplier)
		product.Supplier = &supplier
	}
	return product
}

func toProductDetails(details []catalog.ProductDetail) []models.Product {
	out := make([]models.Product, len(details))
	for i, d := range details {
		out[i] = toProductDetail(d)
	}
	return out
}

func toAboBox(d catalog.AboBoxDetail) models.AboBox {
	products := make([]models.Product, len(d.Products))
	for i, p := range d.Products {
		products[i] = toProduct(p)
	}
	return models.AboBox{
		AboBoxID:   d.ID,
		BoxType:    d.BoxType,
		Size:       d.Size,
		PriceCents: d.Price,
		Products:   products,
	}
}

func toRecommendation(userID string, ranked []recommend.RankedBox) models.Recommendation {
	boxes := make([]models.RecommendedBox, len(ranked))
	for i, rb := range ranked {
		boxes[i] = models.RecommendedBox{
			AboBox: toAboBox(rb.AboBoxDetail),
			Weight: rb.Weight,
		}
	}
	return models.Recommendation{UserID: userID, RecommendedBoxes: boxes}
}

func toOrder(o *order.Order) models.Order {
	out := models.Order{
		OrderID:         o.ID,
		UserID:          o.UserID,
		OrderDate:       models.Timestamp(o.OrderDate),
		PaymentMethod:   o.PaymentMethod,
		DeliveryAddress: o.DeliveryAddress,
		Type:            models.OrderType(o.Type),
		Status:          models.OrderStatus(o.Status),
	}
	for _, item := range o.Items {
		switch item.Kind {
		case order.ItemKindAboBox:
			out.AboBoxItems = append(out.AboBoxItems, models.OrderAboBoxItem{
				AboBoxID:           item.AboBox.AboBoxID,
				Quantity:           item.AboBox.Quantity,
				OrderPriceCents:    item.AboBox.OrderPriceCents,
				SubscriptionStatus: models.SubscriptionStatus(item.AboBox.SubscriptionStatus),
				SubscriptionMonths: item.AboBox.SubscriptionMonths,
			})
		case order.ItemKindProduct:
			out.ProductItems = append(out.ProductItems, models.OrderProductItem{
				ProductID:       item.Product.ProductID,
				Quantity:        item.Product.Quantity,
				OrderPriceCents: item.Product.OrderPriceCents,
			})
		}
	}
	return out
}

func toOrders(orders []order.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i := range orders {
		out[i] = toOrder(&orders[i])
	}
	return out
}

func toTrendRows(rows []report.Row) []models.TrendRow {
	out := make([]models.TrendRow, len(rows))
	for i, row := range rows {
		out[i] = models.TrendRow{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
		}
	}
	return out
}

func toInventory(items []catalog.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, len(items))
	for i, item := range items {
		out[i] = models.InventoryItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			StockLevel:   item.StockLevel,
			SupplierID:   item.SupplierID,
			SupplierName: item.SupplierName,
		}
	}
	return out
}

func toFeedback(f *feedback.Feedback) models.Feedback {
	return models.Feedback{
		FeedbackID: f.ID,
		UserID:     f.UserID,
		AboBoxID:   f.AboBoxID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  models.Timestamp(f.CreatedAt),
	}
}
