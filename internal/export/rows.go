package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/foodsite/internal/models"
)

const (
	DatasetMenuItems    = "menu_items"
	DatasetReservations = "reservations"
)

// MenuItemRow is the flattened Parquet record for one menu item. List fields
// are joined with "|".
type MenuItemRow struct {
	RestaurantID string `parquet:"name=restaurant_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	ID           string `parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Name         string `parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Category     string `parquet:"name=category,type=BYTE_ARRAY,convertedtype=UTF8"`
	SubCategory  string `parquet:"name=sub_category,type=BYTE_ARRAY,convertedtype=UTF8"`
	PriceCents   int64  `parquet:"name=price_cents,type=INT64"`
	Calories     int32  `parquet:"name=calories,type=INT32"`
	Vegetarian   bool   `parquet:"name=vegetarian,type=BOOLEAN"`
	Vegan        bool   `parquet:"name=vegan,type=BOOLEAN"`
	GlutenFree   bool   `parquet:"name=gluten_free,type=BOOLEAN"`
	Available    bool   `parquet:"name=available,type=BOOLEAN"`
	Tags         string `parquet:"name=tags,type=BYTE_ARRAY,convertedtype=UTF8"`
	Allergens    string `parquet:"name=allergens,type=BYTE_ARRAY,convertedtype=UTF8"`
	ExportedAt   int64  `parquet:"name=exported_at,type=INT64"`
}

type ReservationRow struct {
	ID           string `parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID string `parquet:"name=restaurant_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Date         string `parquet:"name=date,type=BYTE_ARRAY,convertedtype=UTF8"`
	Time         string `parquet:"name=time,type=BYTE_ARRAY,convertedtype=UTF8"`
	PartySize    int32  `parquet:"name=party_size,type=INT32"`
	TableID      string `parquet:"name=table_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status       string `parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	Name         string `parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Email        string `parquet:"name=email,type=BYTE_ARRAY,convertedtype=UTF8"`
	Phone        string `parquet:"name=phone,type=BYTE_ARRAY,convertedtype=UTF8"`
	CreatedAt    int64  `parquet:"name=created_at,type=INT64"`
	ExportedAt   int64  `parquet:"name=exported_at,type=INT64"`
}

func menuItemRows(items []*models.MenuItem, at time.Time) []MenuItemRow {
	rows := make([]MenuItemRow, 0, len(items))
	for _, mi := range items {
		rows = append(rows, MenuItemRow{
			RestaurantID: mi.RestaurantID,
			ID:           mi.ID,
			Name:         mi.Name,
			Category:     mi.Category,
			SubCategory:  mi.SubCategory,
			PriceCents:   int64(mi.Price),
			Calories:     int32(mi.Calories),
			Vegetarian:   mi.Vegetarian,
			Vegan:        mi.Vegan,
			GlutenFree:   mi.GlutenFree,
			Available:    mi.Available,
			Tags:         strings.Join(mi.Tags, "|"),
			Allergens:    strings.Join(mi.Allergens, "|"),
			ExportedAt:   at.Unix(),
		})
	}
	return rows
}

func reservationRows(recs []*models.ReservationRecord, at time.Time) []ReservationRow {
	rows := make([]ReservationRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, ReservationRow{
			ID:           r.ID,
			RestaurantID: r.RestaurantID,
			Date:         r.Date,
			Time:         r.Time,
			PartySize:    int32(r.PartySize),
			TableID:      r.TableID,
			Status:       r.Status,
			Name:         r.Name,
			Email:        r.Email,
			Phone:        r.Phone,
			CreatedAt:    r.CreatedAt.Unix(),
			ExportedAt:   at.Unix(),
		})
	}
	return rows
}

// prototype returns the struct whose tags define the dataset's schema.
func prototype(dataset string) (interface{}, error) {
	switch dataset {
	case DatasetMenuItems:
		return new(MenuItemRow), nil
	case DatasetReservations:
		return new(ReservationRow), nil
	default:
		return nil, fmt.Errorf("unknown dataset: %s", dataset)
	}
}
