package database

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/utils"
	"gorm.io/gorm"
)

// SeedDemo inserts one restaurant with a branch, two tables and a small menu
// when the database is empty. Used for local development with SEED_DEMO=true.
func SeedDemo(db *gorm.DB, phoneNumberID string) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		restaurant := models.Restaurant{Name: "Spice Route", WAPhoneNumberID: phoneNumberID, IsActive: true}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		branch := models.Branch{RestaurantID: restaurant.ID, Name: "Indiranagar", Address: "100 Feet Road", City: "Bengaluru", IsActive: true}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}

		for i, number := range []string{"1", "2"} {
			table := models.Table{BranchID: branch.ID, TableNumber: number, Capacity: 4, IsActive: true}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
			token := models.TableQRToken{
				TableID:   table.ID,
				Token:     []string{"demo-table-1", "demo-table-2"}[i],
				ValidFrom: time.Now().Add(-time.Minute),
			}
			if err := tx.Create(&token).Error; err != nil {
				return err
			}
		}

		starters := models.MenuCategory{BranchID: branch.ID, Name: "Starters", SortOrder: 1, IsActive: true}
		mains := models.MenuCategory{BranchID: branch.ID, Name: "Main Course", SortOrder: 2, IsActive: true}
		if err := tx.Create(&starters).Error; err != nil {
			return err
		}
		if err := tx.Create(&mains).Error; err != nil {
			return err
		}

		items := []models.MenuItem{
			{BranchID: branch.ID, CategoryID: starters.ID, Name: "Paneer Tikka", BasePrice: decimal.NewFromInt(220), TaxSlab: 5, TaxCode: "996331", IsVeg: true, IsAvailable: true},
			{BranchID: branch.ID, CategoryID: starters.ID, Name: "Chicken 65", BasePrice: decimal.NewFromInt(260), TaxSlab: 5, TaxCode: "996331", IsAvailable: true},
			{BranchID: branch.ID, CategoryID: mains.ID, Name: "Dal Makhani", BasePrice: decimal.NewFromInt(240), TaxSlab: 5, TaxCode: "996331", IsVeg: true, IsAvailable: true},
			{BranchID: branch.ID, CategoryID: mains.ID, Name: "Butter Naan", BasePrice: decimal.NewFromInt(60), TaxSlab: 5, TaxCode: "996331", IsVeg: true, IsAvailable: true},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		utils.InfoLogger.Printf("Seeded demo restaurant %q (branch %d)", restaurant.Name, branch.ID)
		return nil
	})
}
