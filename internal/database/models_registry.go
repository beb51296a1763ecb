package database

import "quad/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Request{},
		&models.RequestLike{},
		&models.HelpOffer{},
	}
}
