package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

const (
	PhoneNumberID = "1100220033"
	TableToken    = "tok-table-7"
	CustomerWAID  = "919800000001"
)

// Fixture is a seeded restaurant with one branch, one table and a small menu.
type Fixture struct {
	Restaurant models.Restaurant
	Branch     models.Branch
	Table      models.Table
	Token      models.TableQRToken
	Starters   models.MenuCategory
	Drinks     models.MenuCategory

	PaneerTikka  models.MenuItem // 220.00, 5%, veg
	ChickenTikka models.MenuItem // 260.00, 5%, non-veg
	Naan         models.MenuItem // 60.00, 5%, modifier Butter +15
	Lassi        models.MenuItem // 80.00, 12%, variant Large 120
	LassiLarge   models.MenuItemVariant
	ButterTopup  models.MenuModifier
}

func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{}

	f.Restaurant = models.Restaurant{Name: "Spice Route", WAPhoneNumberID: PhoneNumberID, WAAccessToken: "wa-token", IsActive: true}
	require.NoError(t, db.Create(&f.Restaurant).Error)

	f.Branch = models.Branch{RestaurantID: f.Restaurant.ID, Name: "Indiranagar", Address: "100 Feet Road", City: "Bengaluru", IsActive: true}
	require.NoError(t, db.Create(&f.Branch).Error)

	f.Table = models.Table{BranchID: f.Branch.ID, TableNumber: "7", Capacity: 4, IsActive: true}
	require.NoError(t, db.Create(&f.Table).Error)

	f.Token = models.TableQRToken{TableID: f.Table.ID, Token: TableToken, ValidFrom: Epoch.Add(-24 * time.Hour)}
	require.NoError(t, db.Create(&f.Token).Error)

	f.Starters = models.MenuCategory{BranchID: f.Branch.ID, Name: "Starters", SortOrder: 1, IsActive: true}
	require.NoError(t, db.Create(&f.Starters).Error)
	f.Drinks = models.MenuCategory{BranchID: f.Branch.ID, Name: "Drinks", SortOrder: 2, IsActive: true}
	require.NoError(t, db.Create(&f.Drinks).Error)

	f.PaneerTikka = item(f, f.Starters.ID, "Paneer Tikka", "220", 5, true)
	f.ChickenTikka = item(f, f.Starters.ID, "Chicken Tikka", "260", 5, false)
	f.Naan = item(f, f.Starters.ID, "Butter Naan", "60", 5, true)
	f.Lassi = item(f, f.Drinks.ID, "Sweet Lassi", "80", 12, true)
	for _, it := range []*models.MenuItem{&f.PaneerTikka, &f.ChickenTikka, &f.Naan, &f.Lassi} {
		require.NoError(t, db.Create(it).Error)
	}

	f.LassiLarge = models.MenuItemVariant{MenuItemID: f.Lassi.ID, Name: "Large", Price: decimal.NewFromInt(120), IsAvailable: true}
	require.NoError(t, db.Create(&f.LassiLarge).Error)

	f.ButterTopup = models.MenuModifier{MenuItemID: f.Naan.ID, Name: "Extra Butter", PriceDelta: decimal.NewFromInt(15), IsAvailable: true}
	require.NoError(t, db.Create(&f.ButterTopup).Error)

	return f
}

func item(f *Fixture, categoryID uint, name, price string, slab int, veg bool) models.MenuItem {
	return models.MenuItem{
		BranchID:    f.Branch.ID,
		CategoryID:  categoryID,
		Name:        name,
		BasePrice:   decimal.RequireFromString(price),
		TaxSlab:     slab,
		TaxCode:     "996331",
		IsVeg:       veg,
		IsAvailable: true,
	}
}
