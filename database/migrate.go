package database

import (
	"fmt"

	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/utils"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Restaurant{},
		&models.Branch{},
		&models.Table{},
		&models.TableQRToken{},
		&models.Customer{},
		&models.Session{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.MenuItemVariant{},
		&models.MenuModifier{},
		&models.Cart{},
		&models.CartLine{},
		&models.CartLineModifier{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderLineModifier{},
		&models.Bill{},
		&models.Payment{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
